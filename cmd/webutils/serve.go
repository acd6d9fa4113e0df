package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oszuidwest/zwfm-webutils/internal/api"
	"github.com/oszuidwest/zwfm-webutils/internal/scheduler"
	"github.com/oszuidwest/zwfm-webutils/pkg/logger"
	"github.com/oszuidwest/zwfm-webutils/pkg/version"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the scratch storage cleanup",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, store, err := openStorage()
	if err != nil {
		return err
	}

	if logLevel == "" {
		if err := logger.Initialize(cfg.LogLevel, !cfg.Environment.IsProduction()); err != nil {
			return err
		}
	}
	defer logger.Sync()

	logger.Info("webutils %s", version.String())
	logger.Info("Storage: root=%s data=%s retention=%s", store.Root(), store.DataDir(), cfg.Storage.Retention)

	router := api.SetupRouter(cfg, store)

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting webutils API server on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	cleanup := scheduler.NewTempCleanupService(store, cfg.Storage.Retention, cfg.Storage.CleanupInterval)
	cleanup.Start()
	defer cleanup.Stop()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")

	// Stop scheduler first
	cleanup.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("Server exited")
	return nil
}
