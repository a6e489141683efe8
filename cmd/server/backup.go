package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aetherwealth/aether/internal/di"
)

var errBackupsDisabled = errors.New("backups are disabled: set BACKUP_S3_BUCKET and credentials")

func newBackupCmd() *cobra.Command {
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Upload a database backup to the configured bucket now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, closeFn, err := openBackups(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := container.Backups.BackupAndRotate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "backup uploaded")
			return nil
		},
	}

	backupCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored backups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, closeFn, err := openBackups(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			backups, err := container.Backups.ListBackups(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FILENAME\tSIZE\tAGE (h)")
			for _, b := range backups {
				fmt.Fprintf(tw, "%s\t%d\t%d\n", b.Filename, b.SizeBytes, b.AgeHours)
			}
			return tw.Flush()
		},
	})
	return backupCmd
}

// openBackups opens the databases and the backup service without starting
// the rest of the application.
func openBackups(cmd *cobra.Command) (*di.Container, func(), error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Backup.Enabled() {
		return nil, nil, errBackupsDisabled
	}

	container, err := di.InitializeDatabases(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	if err := di.InitializeBackups(cmd.Context(), container, cfg, log); err != nil {
		container.Close()
		return nil, nil, err
	}
	return container, func() { container.Close() }, nil
}
