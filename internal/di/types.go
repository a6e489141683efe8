/**
 * Package di provides dependency injection type definitions.
 *
 * The Container holds every long-lived component of the dashboard service.
 * It is created by Wire() and handed to the server and the CLI commands.
 */
package di

import (
	"github.com/aetherwealth/aether/internal/auth"
	"github.com/aetherwealth/aether/internal/dashboard"
	"github.com/aetherwealth/aether/internal/database"
	"github.com/aetherwealth/aether/internal/modules/assets"
	assethandlers "github.com/aetherwealth/aether/internal/modules/assets/handlers"
	"github.com/aetherwealth/aether/internal/modules/holdings"
	"github.com/aetherwealth/aether/internal/reliability"
	"github.com/aetherwealth/aether/internal/scheduler"
	"github.com/aetherwealth/aether/internal/server"
	"github.com/aetherwealth/aether/internal/view"
)

// Container holds all dependencies for the application.
type Container struct {
	// Databases
	WealthDB *database.DB // assets and seed markers
	AuthDB   *database.DB // users and sessions

	// Repositories
	AssetRepo *assets.Repository
	AuthStore *auth.Store

	// Services
	AssetService *assets.Service
	Mounts       *holdings.Mounts
	Gate         *auth.Gate
	LoginLimiter *auth.LoginLimiter
	Metrics      *server.Metrics

	// Presentation
	Renderer  *dashboard.Renderer
	Formatter *view.Formatter
	Dashboard *dashboard.Handler
	AssetsAPI *assethandlers.Handler

	// Background work
	Scheduler *scheduler.Scheduler
	Backups   *reliability.RemoteBackupService // nil unless a backup bucket is configured
}

// JobInstances holds the registered maintenance jobs for manual triggering.
type JobInstances struct {
	PurgeSessions       *scheduler.PurgeSessionsJob
	CheckWALCheckpoints *scheduler.CheckWALCheckpointsJob
	CheckCoreDatabases  *scheduler.CheckCoreDatabasesJob
	BackupDatabases     *scheduler.BackupDatabasesJob // nil when backups are disabled
}

// Close releases every database the container opened. It is safe to call
// on a partially initialized container.
func (c *Container) Close() error {
	var firstErr error
	for _, db := range []*database.DB{c.WealthDB, c.AuthDB} {
		if db == nil {
			continue
		}
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
