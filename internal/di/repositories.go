package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aetherwealth/aether/internal/auth"
	"github.com/aetherwealth/aether/internal/config"
	"github.com/aetherwealth/aether/internal/modules/assets"
)

// InitializeRepositories creates the data access layer
func InitializeRepositories(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil || container.WealthDB == nil || container.AuthDB == nil {
		return fmt.Errorf("databases must be initialized before repositories")
	}

	container.AssetRepo = assets.NewRepository(container.WealthDB.Conn(), log)
	container.AuthStore = auth.NewStore(container.AuthDB.Conn(), cfg.SessionTTL, log)

	log.Info().Msg("Repositories initialized")
	return nil
}
