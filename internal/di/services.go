package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aetherwealth/aether/internal/auth"
	"github.com/aetherwealth/aether/internal/config"
	"github.com/aetherwealth/aether/internal/dashboard"
	"github.com/aetherwealth/aether/internal/modules/assets"
	assethandlers "github.com/aetherwealth/aether/internal/modules/assets/handlers"
	"github.com/aetherwealth/aether/internal/modules/bonds"
	"github.com/aetherwealth/aether/internal/modules/crypto"
	"github.com/aetherwealth/aether/internal/modules/holdings"
	"github.com/aetherwealth/aether/internal/modules/shares"
	"github.com/aetherwealth/aether/internal/server"
	"github.com/aetherwealth/aether/internal/view"
	"github.com/aetherwealth/aether/pkg/embedded"
)

// InitializeServices creates the services and HTTP handlers
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container.AssetRepo == nil || container.AuthStore == nil {
		return fmt.Errorf("repositories must be initialized before services")
	}

	container.AssetService = assets.NewService(container.AssetRepo, cfg.SeedDemoData, log)

	container.Metrics = server.NewMetrics()
	container.Mounts = holdings.NewMounts(container.AssetService, log)
	container.Mounts.SetObserver(container.Metrics)

	container.Gate = auth.NewGate(container.AuthStore, cfg.DevMode, log)
	container.LoginLimiter = auth.NewLoginLimiter(cfg.LoginRatePerMinute)

	renderer, err := dashboard.NewRenderer(embedded.Files)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	container.Renderer = renderer
	container.Formatter = view.NewFormatter(cfg.DisplayCurrency)

	dash, err := dashboard.NewHandler(dashboard.Config{
		Renderer:      renderer,
		Formatter:     container.Formatter,
		Consumers:     []dashboard.Consumer{bonds.NewConsumer(), shares.NewConsumer(), crypto.NewConsumer()},
		Mounts:        container.Mounts,
		Totals:        container.AssetService,
		Gate:          container.Gate,
		Accounts:      container.AuthStore,
		Limiter:       container.LoginLimiter,
		SecureCookies: cfg.Environment == config.EnvProduction,
		Recorder:      container.Metrics,
		Log:           log,
	})
	if err != nil {
		return fmt.Errorf("failed to create dashboard handler: %w", err)
	}
	container.Dashboard = dash
	container.AssetsAPI = assethandlers.NewHandler(container.AssetService, log)

	log.Info().Bool("dev_mode", cfg.DevMode).Msg("Services initialized")
	return nil
}
