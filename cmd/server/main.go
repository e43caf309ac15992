package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/hcl/internal/config"
	"github.com/JonMunkholm/hcl/internal/core"
	"github.com/JonMunkholm/hcl/internal/logging"
	"github.com/JonMunkholm/hcl/internal/metrics"
	"github.com/JonMunkholm/hcl/internal/source"
	"github.com/JonMunkholm/hcl/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	_, srcDesc := source.New(cfg.Source)
	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"source", srcDesc,
		"sheets", cfg.Source.Sheets,
		"continuation", cfg.Catalog.Continuation,
		"refresh_interval", cfg.Catalog.RefreshInterval,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	var observer core.LoadObserver
	if cfg.Metrics.Enabled {
		observer = metrics.NewRecorder()
	}
	service, err := source.NewService(cfg, observer)
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(service, cfg)

	// Cancellable context for the refresh scheduler
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go service.StartRefreshScheduler(jobCtx, cfg.Catalog.RefreshInterval)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
