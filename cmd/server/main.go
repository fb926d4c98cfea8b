package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/checklist/internal/config"
	"github.com/JonMunkholm/checklist/internal/core"
	"github.com/JonMunkholm/checklist/internal/logging"
	"github.com/JonMunkholm/checklist/internal/web"
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

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"items_path", cfg.Data.ItemsPath,
		"page_size", cfg.Data.PageSize,
		"evidence_backend", cfg.Evidence.Backend,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	projects, err := core.LoadProjects(cfg.Data.ProjectsPath)
	if err != nil {
		slog.Warn("failed to load overview projects, using built-in list",
			"path", cfg.Data.ProjectsPath,
			"error", err,
		)
		projects, _ = core.LoadProjects("")
	}

	ctx := context.Background()
	evidence, err := core.NewEvidenceStore(ctx, cfg.Evidence)
	if err != nil {
		slog.Error("failed to create evidence store", "error", err)
		os.Exit(1)
	}

	service := core.NewService(cfg, evidence, projects)
	server := web.NewServer(cfg, service)

	// Background jobs stop when jobCtx is cancelled
	jobCtx, cancelJobs := context.WithCancel(ctx)
	service.StartSessionJanitor(jobCtx, cfg.Session.CleanupInterval)

	// Graceful shutdown
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.UploadStatus(); status.Active > 0 {
			slog.Info("waiting for uploads to complete", "active", status.Active)
			if err := service.WaitForUploads(shutdownCtx); err != nil {
				slog.Warn("uploads did not complete in time", "error", err)
			} else {
				slog.Info("all uploads completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		cancelJobs()
		os.Exit(1)
	}
	<-stopped
	slog.Info("server stopped")
}
