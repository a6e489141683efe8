package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aetherwealth/aether/internal/config"
	"github.com/aetherwealth/aether/internal/reliability"
)

// InitializeBackups creates the off-site backup service when a bucket is
// configured. It leaves container.Backups nil otherwise.
func InitializeBackups(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) error {
	if !cfg.Backup.Enabled() {
		log.Info().Msg("Off-site backups disabled")
		return nil
	}

	store, err := reliability.NewS3Store(ctx, cfg.Backup)
	if err != nil {
		return fmt.Errorf("failed to create backup store: %w", err)
	}

	backups := reliability.NewBackupService(log, container.WealthDB, container.AuthDB)
	container.Backups = reliability.NewRemoteBackupService(backups, store, cfg.DataDir, cfg.Backup.RetentionDays, log)

	log.Info().
		Str("bucket", store.Bucket()).
		Str("schedule", cfg.Backup.Schedule).
		Int("retention_days", cfg.Backup.RetentionDays).
		Msg("Off-site backups enabled")
	return nil
}
