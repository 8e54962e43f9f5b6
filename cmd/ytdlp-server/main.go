package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ytget/ytdlp-server/internal/config"
	"github.com/ytget/ytdlp-server/internal/httpapi"
	"github.com/ytget/ytdlp-server/internal/logger"
	"github.com/ytget/ytdlp-server/internal/orchestrator"
	"github.com/ytget/ytdlp-server/internal/registry"
	"github.com/ytget/ytdlp-server/internal/store"
	"github.com/ytget/ytdlp-server/internal/sweeper"
	"github.com/ytget/ytdlp-server/internal/ytdlp"
)

// ShutdownTimeout bounds the graceful shutdown of the HTTP server and any
// in-flight downloads
const ShutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings := config.Load()
	log := logger.New(settings.LogLevel)

	artifacts, err := store.New(settings.DownloadDir, log)
	if err != nil {
		log.Error("failed to prepare storage root", "dir", settings.DownloadDir, "error", err)
		os.Exit(1)
	}

	jobs := registry.New()
	runner := ytdlp.NewRunner(settings.YtdlpBinary, log)
	orch := orchestrator.New(jobs, artifacts, runner, settings.MaxConcurrent, settings.RetentionWindow, log)

	sw := sweeper.New(artifacts, jobs, settings.CleanupInterval, settings.RetentionWindow, log)
	sw.Start(ctx)

	api := httpapi.New(orch, sw, settings.AllowedOrigins, log)
	server := &http.Server{
		Addr:    settings.ListenAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Info("server listening", "addr", settings.ListenAddr, "download_dir", artifacts.Root())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown incomplete", "error", err)
	}
	sw.Stop()
	if err := orch.Shutdown(shutdownCtx); err != nil {
		log.Warn("downloads interrupted by shutdown", "error", err)
	}
}
