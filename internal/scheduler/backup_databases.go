package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// BackupRunner uploads a new backup and prunes old ones.
type BackupRunner interface {
	BackupAndRotate(ctx context.Context) error
}

// BackupDatabasesJob ships database snapshots off-site
type BackupDatabasesJob struct {
	runner  BackupRunner
	timeout time.Duration
	log     zerolog.Logger
}

// NewBackupDatabasesJob creates a new BackupDatabasesJob
func NewBackupDatabasesJob(runner BackupRunner) *BackupDatabasesJob {
	return &BackupDatabasesJob{
		runner:  runner,
		timeout: 10 * time.Minute,
		log:     zerolog.Nop(),
	}
}

// SetLogger sets the logger for the job
func (j *BackupDatabasesJob) SetLogger(log zerolog.Logger) {
	j.log = log
}

// Name returns the job name
func (j *BackupDatabasesJob) Name() string {
	return "backup_databases"
}

// Run executes the backup job
func (j *BackupDatabasesJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if err := j.runner.BackupAndRotate(ctx); err != nil {
		j.log.Error().Err(err).Msg("Database backup failed")
		return err
	}
	return nil
}
