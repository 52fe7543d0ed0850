package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/Brownie44l1/freshness-api/internal/preprocess"
)

// Model is a loaded predictive model.
type Model interface {
	// Predict runs a single-batch forward pass and returns output[0][0].
	Predict(ctx context.Context, tensor *preprocess.Tensor) (float32, error)
	Close() error
}

// Loader reads a model artifact from disk.
type Loader func(path string) (Model, error)

// Manager owns the process-wide model handle. Load runs once before traffic
// is accepted and Unload once after it stops.
type Manager struct {
	path      string
	forceDemo bool
	loader    Loader
	logger    *log.Entry

	mu      sync.RWMutex
	model   Model
	outcome Outcome
	loaded  bool
}

func NewManager(path string, forceDemo bool, loader Loader, logger *log.Logger) *Manager {
	return &Manager{
		path:      path,
		forceDemo: forceDemo,
		loader:    loader,
		logger:    logger.WithField("component", "lifecycle"),
	}
}

// Load attempts to load the model once. Every failure is turned into demo
// mode and recorded in the returned Outcome; nothing is propagated.
func (m *Manager) Load() Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loaded {
		return m.outcome
	}
	m.loaded = true
	m.outcome = m.load()
	if m.outcome.Kind == Loaded {
		m.model = m.outcome.Model
	}
	return m.outcome
}

func (m *Manager) load() Outcome {
	logger := m.logger.WithField("path", m.path)

	if m.forceDemo {
		logger.Info("DEMO_MODE is set, skipping model load")
		return Outcome{Kind: Forced}
	}

	logger.Info("Loading model")
	if _, err := os.Stat(m.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("Model file not found, running in demo mode")
			return Outcome{Kind: Absent}
		}
		logger.WithError(err).Warn("Cannot stat model file, running in demo mode")
		return Outcome{Kind: Failed, Reason: fmt.Errorf("stat model: %w", err)}
	}

	model, err := m.safeLoad()
	if err != nil {
		logger.WithError(err).Warn("Error loading model, running in demo mode")
		return Outcome{Kind: Failed, Reason: err}
	}

	logger.Info("Model loaded successfully")
	return Outcome{Kind: Loaded, Model: model}
}

// safeLoad converts a panicking loader into a load failure.
func (m *Manager) safeLoad() (model Model, err error) {
	defer func() {
		if r := recover(); r != nil {
			model, err = nil, fmt.Errorf("model loader panicked: %v", r)
		}
	}()

	model, err = m.loader(m.path)
	if err == nil && model == nil {
		err = errors.New("model loader returned no model")
	}
	return model, err
}

// Unload releases the model handle regardless of the current mode.
func (m *Manager) Unload() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.model != nil {
		if err := m.model.Close(); err != nil {
			m.logger.WithError(err).Warn("Error releasing model")
		}
		m.model = nil
	}
	m.logger.Info("Model unloaded")
}

func (m *Manager) IsLoaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.model != nil
}

// IsDemoMode reports whether predictions come from the demo fallback. It is
// always the negation of IsLoaded, including before Load and after Unload.
func (m *Manager) IsDemoMode() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.model == nil
}

// ModelPath returns the configured artifact path while a model is loaded.
func (m *Manager) ModelPath() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.model == nil {
		return "", false
	}
	return m.path, true
}

// Model returns the loaded model, or nil in demo mode.
func (m *Manager) Model() Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.model
}

func (m *Manager) Outcome() Outcome {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.outcome
}
