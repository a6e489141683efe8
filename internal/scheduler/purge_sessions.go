package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// SessionPurger deletes expired sessions.
type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// PurgeSessionsJob removes expired login sessions from auth.db
type PurgeSessionsJob struct {
	purger  SessionPurger
	timeout time.Duration
	log     zerolog.Logger
}

// NewPurgeSessionsJob creates a new PurgeSessionsJob
func NewPurgeSessionsJob(purger SessionPurger) *PurgeSessionsJob {
	return &PurgeSessionsJob{
		purger:  purger,
		timeout: 30 * time.Second,
		log:     zerolog.Nop(),
	}
}

// SetLogger sets the logger for the job
func (j *PurgeSessionsJob) SetLogger(log zerolog.Logger) {
	j.log = log
}

// Name returns the job name
func (j *PurgeSessionsJob) Name() string {
	return "purge_sessions"
}

// Run executes the purge sessions job
func (j *PurgeSessionsJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	n, err := j.purger.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		j.log.Info().Int64("purged", n).Msg("Expired sessions purged")
	}
	return nil
}
