package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aetherwealth/aether/internal/config"
	"github.com/aetherwealth/aether/internal/di"
	"github.com/aetherwealth/aether/internal/server"
	"github.com/aetherwealth/aether/pkg/embedded"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard (default)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	if err := config.CheckReleaseReadiness(cfg); err != nil {
		log.Error().Err(err).Msg("Refusing to start")
		return err
	}
	if cfg.DevMode {
		log.Warn().Msg("DEV_MODE is enabled: every request is signed in as the developer user")
	}

	log.Info().Str("environment", cfg.Environment).Msg("Starting Aether")

	container, _, err := di.Wire(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to wire dependencies")
		return err
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close databases")
		}
	}()

	static, err := fs.Sub(embedded.Files, "static")
	if err != nil {
		return fmt.Errorf("failed to open embedded static files: %w", err)
	}

	srv, err := server.New(server.Config{
		Log:         log,
		Port:        cfg.Port,
		DevMode:     cfg.DevMode,
		Environment: cfg.Environment,
		TrustProxy:  cfg.TrustProxy,
		Dashboard:   container.Dashboard,
		API:         []server.APIRoutes{container.AssetsAPI},
		Gate:        container.Gate,
		Mounts:      container.Mounts,
		Metrics:     container.Metrics,
		Static:      static,
	})
	if err != nil {
		return err
	}

	container.Scheduler.Start()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("HTTP server failed")
		}
		container.Scheduler.Stop()
		return err
	}

	container.Scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(cmd.Context(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
	return nil
}
