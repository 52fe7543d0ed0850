package lifecycle

// OutcomeKind tells how the startup load ended.
type OutcomeKind int

const (
	// Pending means Load has not run yet. The manager serves no model and
	// reports demo mode in this state.
	Pending OutcomeKind = iota
	Loaded
	// Absent means the artifact path does not exist.
	Absent
	// Failed means the artifact exists but could not be loaded.
	Failed
	// Forced means demo mode was requested through configuration.
	Forced
)

func (k OutcomeKind) String() string {
	switch k {
	case Loaded:
		return "loaded"
	case Absent:
		return "absent"
	case Failed:
		return "failed"
	case Forced:
		return "forced"
	default:
		return "pending"
	}
}

// Outcome is the result of Manager.Load. Model is set only for Loaded,
// Reason only for Failed.
type Outcome struct {
	Kind   OutcomeKind
	Model  Model
	Reason error
}

// DemoMode reports whether this outcome leaves the process without a model.
func (o Outcome) DemoMode() bool {
	return o.Kind != Loaded
}
