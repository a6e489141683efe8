// Package main is the entry point for the Aether wealth dashboard.
//
// The default command serves the dashboard. release-check verifies that a
// build is safe to ship and user create provisions sign-in accounts.
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aetherwealth/aether/internal/config"
	"github.com/aetherwealth/aether/pkg/logger"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "aether",
		Short:         "Aether wealth dashboard",
		Long:          "Aether serves a personal wealth dashboard with one page per asset class.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runServe,
	}

	root.AddCommand(
		newServeCmd(),
		newReleaseCheckCmd(),
		newUserCmd(),
		newBackupCmd(),
	)
	return root
}

// loadConfig loads configuration and builds the logger from it. A config
// failure is logged with a fallback logger before being returned.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Error().Err(err).Msg("Failed to load configuration")
		return nil, fallbackLog, err
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	logger.SetGlobalLogger(log)
	return cfg, log, nil
}
