package holdings

import (
	"context"
	"fmt"
	"sync"

	"github.com/aetherwealth/aether/internal/domain"
	"github.com/rs/zerolog"
)

// Observer is notified when providers are mounted and released.
type Observer interface {
	ProviderMounted(t domain.AssetType)
	ProviderReleased(t domain.AssetType)
}

// Mounts creates and releases providers and counts the live ones per class.
type Mounts struct {
	store    Store
	observer Observer

	mu   sync.Mutex
	live map[domain.AssetType]int

	log zerolog.Logger
}

// NewMounts creates a mount registry over store.
func NewMounts(store Store, log zerolog.Logger) *Mounts {
	return &Mounts{
		store: store,
		live:  make(map[domain.AssetType]int),
		log:   log.With().Str("component", "holdings").Logger(),
	}
}

// SetObserver sets the mount observer (for dependency injection).
func (m *Mounts) SetObserver(o Observer) {
	m.observer = o
}

// Mount creates a provider for (t, userID) in StatusLoading. Its context is
// derived from ctx, so cancelling ctx cancels any load in flight.
func (m *Mounts) Mount(ctx context.Context, t domain.AssetType, userID string) (*Provider, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedAssetType, t)
	}
	if userID == "" {
		return nil, fmt.Errorf("mount %s holdings: user is required", t)
	}

	p := newProvider(ctx, t, userID, m.store, m.log)

	m.mu.Lock()
	m.live[t]++
	m.mu.Unlock()

	if m.observer != nil {
		m.observer.ProviderMounted(t)
	}
	m.log.Debug().Str("asset_type", string(t)).Str("user_id", userID).Msg("Provider mounted")
	return p, nil
}

// Unmount releases p. Releasing an already released provider is a no-op.
func (m *Mounts) Unmount(p *Provider) {
	if p == nil || !p.release() {
		return
	}

	m.mu.Lock()
	if m.live[p.typ] > 0 {
		m.live[p.typ]--
	}
	m.mu.Unlock()

	if m.observer != nil {
		m.observer.ProviderReleased(p.typ)
	}
	m.log.Debug().Str("asset_type", string(p.typ)).Msg("Provider released")
}

// Live returns how many providers of class t are mounted.
func (m *Mounts) Live(t domain.AssetType) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live[t]
}

// LiveCounts returns the live provider count for every asset class.
func (m *Mounts) LiveCounts() map[domain.AssetType]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[domain.AssetType]int, len(domain.AllAssetTypes))
	for _, t := range domain.AllAssetTypes {
		out[t] = m.live[t]
	}
	return out
}
