package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aetherwealth/aether/internal/config"
	"github.com/aetherwealth/aether/internal/database"
)

// InitializeDatabases opens both databases and applies their schemas
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// wealth.db - asset holdings for every class
	wealthDB, err := database.New(database.Config{
		Path:    cfg.DatabasePath("wealth"),
		Profile: database.ProfileStandard,
		Name:    "wealth",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize wealth database: %w", err)
	}
	container.WealthDB = wealthDB

	// auth.db - users and sessions, rebuildable so it runs on the cache profile
	authDB, err := database.New(database.Config{
		Path:    cfg.DatabasePath("auth"),
		Profile: database.ProfileCache,
		Name:    "auth",
	})
	if err != nil {
		wealthDB.Close()
		return nil, fmt.Errorf("failed to initialize auth database: %w", err)
	}
	container.AuthDB = authDB

	for _, db := range []*database.DB{wealthDB, authDB} {
		if err := db.Migrate(); err != nil {
			container.Close()
			return nil, fmt.Errorf("failed to migrate %s database: %w", db.Name(), err)
		}
	}

	log.Info().Str("data_dir", cfg.DataDir).Msg("Databases initialized")
	return container, nil
}
