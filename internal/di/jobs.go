package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aetherwealth/aether/internal/config"
	"github.com/aetherwealth/aether/internal/scheduler"
)

// Maintenance schedules for the database checks.
const (
	walCheckpointSchedule = "@hourly"
	integritySchedule     = "@daily"
)

// RegisterJobs creates the scheduler and registers the maintenance jobs.
// The scheduler is not started.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}
	if container.AuthStore == nil {
		return nil, fmt.Errorf("auth store must be initialized before jobs")
	}

	sched := scheduler.New(log)
	jobLog := log.With().Str("component", "jobs").Logger()

	purge := scheduler.NewPurgeSessionsJob(container.AuthStore)
	purge.SetLogger(jobLog)
	wal := scheduler.NewCheckWALCheckpointsJob(container.WealthDB, container.AuthDB)
	wal.SetLogger(jobLog)
	integrity := scheduler.NewCheckCoreDatabasesJob(container.WealthDB, container.AuthDB)
	integrity.SetLogger(jobLog)

	registrations := []struct {
		schedule string
		job      scheduler.Job
	}{
		{cfg.SessionPurgeSchedule, purge},
		{walCheckpointSchedule, wal},
		{integritySchedule, integrity},
	}
	for _, reg := range registrations {
		if err := sched.AddJob(reg.schedule, reg.job); err != nil {
			return nil, fmt.Errorf("failed to register %s job: %w", reg.job.Name(), err)
		}
	}

	instances := &JobInstances{
		PurgeSessions:       purge,
		CheckWALCheckpoints: wal,
		CheckCoreDatabases:  integrity,
	}

	if container.Backups != nil {
		backup := scheduler.NewBackupDatabasesJob(container.Backups)
		backup.SetLogger(jobLog)
		if err := sched.AddJob(cfg.Backup.Schedule, backup); err != nil {
			return nil, fmt.Errorf("failed to register %s job: %w", backup.Name(), err)
		}
		instances.BackupDatabases = backup
	}

	container.Scheduler = sched
	return instances, nil
}
