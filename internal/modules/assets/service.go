package assets

import (
	"context"

	"github.com/aetherwealth/aether/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Service is the holdings store used by providers and the JSON API.
// With seeding enabled, the first time a user opens an empty asset class the
// demo holdings for that class are inserted once.
type Service struct {
	repo *Repository
	seed bool
	demo func(domain.AssetType) []domain.Asset
	log  zerolog.Logger
}

// NewService creates an asset service.
func NewService(repo *Repository, seedDemoData bool, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		seed: seedDemoData,
		demo: DemoAssets,
		log:  log.With().Str("service", "assets").Logger(),
	}
}

// ListByType returns the user's holdings of class t, seeding demo data first
// when enabled and the class has never been seeded for this user.
func (s *Service) ListByType(ctx context.Context, userID string, t domain.AssetType) ([]domain.Asset, error) {
	list, err := s.repo.ListByType(ctx, userID, t)
	if err != nil {
		return nil, err
	}
	if len(list) > 0 || !s.seed {
		return list, nil
	}

	seeded, err := s.repo.SeedDemo(ctx, userID, t, s.demo(t))
	if err != nil {
		return nil, err
	}
	if !seeded {
		return list, nil
	}
	s.log.Info().Str("user_id", userID).Str("type", string(t)).Msg("Seeded demo holdings")

	return s.repo.ListByType(ctx, userID, t)
}

func (s *Service) Create(ctx context.Context, a *domain.Asset) error {
	return s.repo.Create(ctx, a)
}

func (s *Service) Update(ctx context.Context, a *domain.Asset) error {
	return s.repo.Update(ctx, a)
}

func (s *Service) Delete(ctx context.Context, userID string, t domain.AssetType, id string) error {
	return s.repo.Delete(ctx, userID, t, id)
}

// Totals sums current value per asset class for the overview page.
func (s *Service) Totals(ctx context.Context, userID string) (map[domain.AssetType]decimal.Decimal, error) {
	return s.repo.TotalsByType(ctx, userID)
}
