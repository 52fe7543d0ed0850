package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Brownie44l1/freshness-api/internal/config"
	"github.com/Brownie44l1/freshness-api/internal/handlers"
	"github.com/Brownie44l1/freshness-api/internal/lifecycle"
	"github.com/Brownie44l1/freshness-api/internal/logging"
	"github.com/Brownie44l1/freshness-api/internal/metrics"
	"github.com/Brownie44l1/freshness-api/internal/model"
	"github.com/Brownie44l1/freshness-api/internal/prediction"
	"github.com/Brownie44l1/freshness-api/internal/status"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(2)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to configure logging: %v\n", err)
		os.Exit(2)
	}

	opts := model.Options{
		SharedLibraryPath: cfg.OnnxRuntimeLib,
		MetadataPath:      cfg.ModelMetadataPath,
	}
	loader := func(path string) (lifecycle.Model, error) {
		session, err := model.Load(path, opts)
		if err != nil {
			return nil, err
		}
		return session, nil
	}

	manager := lifecycle.NewManager(cfg.ModelPath, cfg.DemoMode, loader, logger)
	outcome := manager.Load()
	defer manager.Unload()

	m := metrics.New()
	m.SetModelLoaded(manager.IsLoaded())

	svc := prediction.NewService(manager, cfg.MaxConcurrentInferences, m, logger,
		prediction.WithMaxImagePixels(cfg.MaxImagePixels))
	handler := handlers.NewHandler(svc, status.NewReporter(manager), cfg.MaxUploadBytes, logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.Routes(m, cfg.APIKey),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.ReadTimeout(),
		IdleTimeout:       60 * time.Second,
	}

	logger.Infof("Server starting on %s", srv.Addr)
	logger.Infof("Model: %s (%s, demo mode: %t)", cfg.ModelPath, outcome.Kind, manager.IsDemoMode())
	logger.Info("Endpoints:")
	logger.Info("  GET  /        - Liveness")
	logger.Info("  GET  /health  - Model status")
	logger.Info("  POST /predict - Predict days remaining from image upload")
	logger.Info("  GET  /metrics - Prometheus metrics")
	if cfg.APIKey != "" {
		logger.Info("X-API-Key required on /predict and /metrics")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Server failed")
			manager.Unload()
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("Graceful shutdown did not complete")
		}
	}
}
