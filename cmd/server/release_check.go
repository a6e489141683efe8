package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aetherwealth/aether/internal/config"
)

func newReleaseCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "release-check",
		Short: "Fail when the current configuration is not safe to release",
		Long: "Loads configuration the same way serve does and exits non-zero " +
			"when developer mode is enabled for a production environment or build.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			if err := config.CheckReleaseReadiness(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "release check passed (environment=%s, production_build=%t)\n",
				cfg.Environment, config.ProductionBuild)
			return nil
		},
	}
}
