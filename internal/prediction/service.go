package prediction

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/Brownie44l1/freshness-api/internal/demo"
	"github.com/Brownie44l1/freshness-api/internal/lifecycle"
	"github.com/Brownie44l1/freshness-api/internal/metrics"
	"github.com/Brownie44l1/freshness-api/internal/preprocess"
	"github.com/Brownie44l1/freshness-api/internal/shelflife"
)

const (
	ModeReal = "real"
	ModeDemo = "demo"
)

// Result is what a successful Predict returns and what /predict serializes.
type Result = shelflife.Result

// Request is one uploaded image.
type Request struct {
	Data        []byte
	ContentType string
	Filename    string
}

// ModelProvider exposes the startup-loaded model.
type ModelProvider interface {
	Model() lifecycle.Model
	IsDemoMode() bool
}

type Service struct {
	models    ModelProvider
	demo      *demo.Predictor
	slots     *semaphore.Weighted
	maxPixels int64
	metrics   *metrics.Metrics
	logger    *log.Entry
}

type Option func(*Service)

// WithMaxImagePixels sets the largest width*height accepted for decoding.
func WithMaxImagePixels(n int64) Option {
	return func(s *Service) {
		s.maxPixels = n
	}
}

// NewService builds the prediction service. maxInferences bounds concurrent
// forward passes; values below 1 are treated as 1. m may be nil.
func NewService(models ModelProvider, maxInferences int, m *metrics.Metrics, logger *log.Logger, opts ...Option) *Service {
	if maxInferences < 1 {
		maxInferences = 1
	}
	s := &Service{
		models:    models,
		demo:      demo.NewPredictor(),
		slots:     semaphore.NewWeighted(int64(maxInferences)),
		maxPixels: preprocess.DefaultMaxPixels,
		metrics:   m,
		logger:    logger.WithField("component", "prediction"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Predict(ctx context.Context, req Request) (res Result, err error) {
	start := time.Now()
	model := s.models.Model()
	mode := ModeReal
	if model == nil || s.models.IsDemoMode() {
		mode = ModeDemo
	}

	defer func() {
		if r := recover(); r != nil {
			err = &ProcessingError{Err: fmt.Errorf("%v", r)}
		}
		s.metrics.ObservePrediction(mode, outcome(err), time.Since(start))
	}()

	if !IsImageContentType(req.ContentType) {
		return Result{}, ErrInvalidInput
	}

	logger := s.logger.WithFields(log.Fields{
		"mode":         mode,
		"filename":     req.Filename,
		"content_type": req.ContentType,
		"bytes":        len(req.Data),
	})

	img, format, err := preprocess.DecodeLimit(req.Data, s.maxPixels)
	if err != nil {
		err = fmt.Errorf("%w (content detected as %s)", err, mimetype.Detect(req.Data).String())
		logger.WithError(err).Debug("Decode failed")
		return Result{}, &ProcessingError{Err: err}
	}
	logger = logger.WithFields(log.Fields{
		"format": format,
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
	})

	if mode == ModeDemo {
		res = s.demo.Predict(req.Data)
		logger.WithField("days_remaining", res.DaysRemaining).Debug("Demo prediction")
		return res, nil
	}

	tensor := preprocess.Preprocess(img)

	raw, err := s.infer(ctx, model, tensor)
	if err != nil {
		return Result{}, &ProcessingError{Err: err}
	}

	if math.IsNaN(float64(raw)) {
		return Result{}, &ProcessingError{Err: errors.New("model returned NaN")}
	}

	res = Result{
		DaysRemaining: shelflife.Days(float64(raw)),
		Status:        shelflife.StatusSuccess,
		DemoMode:      false,
	}
	logger.WithFields(log.Fields{
		"raw":            raw,
		"days_remaining": res.DaysRemaining,
	}).Debug("Model prediction")
	return res, nil
}

func (s *Service) infer(ctx context.Context, model lifecycle.Model, tensor *preprocess.Tensor) (float32, error) {
	if err := s.slots.Acquire(ctx, 1); err != nil {
		return 0, err
	}
	defer s.slots.Release(1)
	return model.Predict(ctx, tensor)
}

// IsImageContentType reports whether a declared content type is image/*.
func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}
