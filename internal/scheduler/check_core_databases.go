package scheduler

import (
	"database/sql"
	"fmt"

	"github.com/aetherwealth/aether/internal/database"
	"github.com/rs/zerolog"
)

// CheckCoreDatabasesJob verifies integrity of the wealth and auth databases
type CheckCoreDatabasesJob struct {
	log       zerolog.Logger
	databases []*database.DB
}

// NewCheckCoreDatabasesJob creates a new CheckCoreDatabasesJob
func NewCheckCoreDatabasesJob(databases ...*database.DB) *CheckCoreDatabasesJob {
	return &CheckCoreDatabasesJob{
		log:       zerolog.Nop(),
		databases: databases,
	}
}

// SetLogger sets the logger for the job
func (j *CheckCoreDatabasesJob) SetLogger(log zerolog.Logger) {
	j.log = log
}

// Name returns the job name
func (j *CheckCoreDatabasesJob) Name() string {
	return "check_core_databases"
}

// Run executes the check core databases job
func (j *CheckCoreDatabasesJob) Run() error {
	for _, db := range j.databases {
		if db == nil {
			j.log.Warn().Msg("Database not initialized, skipping")
			continue
		}

		if err := checkDatabaseIntegrity(db.Conn()); err != nil {
			// Corruption cannot be repaired in place
			j.log.Error().
				Err(err).
				Str("database", db.Name()).
				Msg("Core database integrity check failed")
			return fmt.Errorf("database %s is corrupted: %w", db.Name(), err)
		}

		j.log.Debug().Str("database", db.Name()).Msg("Database integrity OK")
	}

	j.log.Info().Msg("All core databases integrity check passed")
	return nil
}

// checkDatabaseIntegrity runs SQLite's PRAGMA integrity_check
func checkDatabaseIntegrity(db *sql.DB) error {
	var result string
	err := db.QueryRow("PRAGMA integrity_check").Scan(&result)
	if err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}

	if result != "ok" {
		return fmt.Errorf("integrity check returned: %s", result)
	}

	return nil
}
