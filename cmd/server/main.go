package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/mood2emoji/config"
	"github.com/spacesedan/mood2emoji/internal/app"
	"github.com/spacesedan/mood2emoji/internal/logging"
	"github.com/spacesedan/mood2emoji/internal/monitoring"
	"github.com/spacesedan/mood2emoji/internal/server"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	comps, err := app.Build(cfg)
	if err != nil {
		slog.Error("[Main] Failed to build classifier", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer comps.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := make([]server.Option, 0, len(comps.Checks))
	for name, check := range comps.Checks {
		monitor := monitoring.NewHealthMonitor(name, check, monitoring.HEALTHCHECK_TIMER)
		go monitor.Run(ctx)
		opts = append(opts, server.WithHealthCheck(name, monitor))
	}
	srv := server.NewServer(comps.Classifier, opts...)

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(cfg.Port)
	}()

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Main] Server stopped unexpectedly", slog.String("error", err.Error()))
		}
	case <-stopChan:
		slog.Info("[Main] Shutting down server gracefully...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownDeadline)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("[Main] Shutdown failed", slog.String("error", err.Error()))
		}
	}
}
