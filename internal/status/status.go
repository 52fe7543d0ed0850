package status

const (
	statusHealthy  = "healthy"
	runningMessage = "Freshness Predictor API is running"
)

// Source is the read side of the model lifecycle.
type Source interface {
	IsLoaded() bool
	IsDemoMode() bool
	ModelPath() (string, bool)
}

// Liveness is the body of GET /.
type Liveness struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	ModelLoaded bool   `json:"model_loaded"`
}

// Detail is the body of GET /health. ModelPath is null unless a model is loaded.
type Detail struct {
	Status      string  `json:"status"`
	ModelLoaded bool    `json:"model_loaded"`
	DemoMode    bool    `json:"demo_mode"`
	ModelPath   *string `json:"model_path"`
}

type Reporter struct {
	source Source
}

func NewReporter(source Source) *Reporter {
	return &Reporter{source: source}
}

func (r *Reporter) Liveness() Liveness {
	return Liveness{
		Status:      statusHealthy,
		Message:     runningMessage,
		ModelLoaded: r.source.IsLoaded(),
	}
}

func (r *Reporter) Detail() Detail {
	d := Detail{
		Status:      statusHealthy,
		ModelLoaded: r.source.IsLoaded(),
		DemoMode:    r.source.IsDemoMode(),
	}
	if path, ok := r.source.ModelPath(); ok {
		d.ModelPath = &path
	}
	return d
}
