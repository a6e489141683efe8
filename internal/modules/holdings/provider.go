// Package holdings scopes per-asset-class holdings state to a single page
// request. A Provider is mounted when a class route starts handling a request
// and released when it finishes; nothing is shared between classes or users.
package holdings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/aetherwealth/aether/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	// ErrReleased is returned by mutations on a provider that was unmounted.
	ErrReleased = errors.New("holdings provider released")
	// ErrWrongAssetType is returned when an asset of another class is added
	// to or updated through a provider.
	ErrWrongAssetType = errors.New("asset belongs to a different asset class")
)

// Store loads and persists holdings. assets.Service implements it.
type Store interface {
	ListByType(ctx context.Context, userID string, t domain.AssetType) ([]domain.Asset, error)
	Create(ctx context.Context, a *domain.Asset) error
	Update(ctx context.Context, a *domain.Asset) error
	Delete(ctx context.Context, userID string, t domain.AssetType, id string) error
}

// Status is the lifecycle state of a provider.
type Status string

const (
	StatusLoading  Status = "loading"
	StatusReady    Status = "ready"
	StatusFailed   Status = "failed"
	StatusReleased Status = "released"
)

// Snapshot is a point-in-time copy of a provider's state.
type Snapshot struct {
	Type   domain.AssetType
	Status Status
	Assets []domain.Asset
	Err    error
}

// Total sums the current value of every asset in the snapshot.
func (s Snapshot) Total() decimal.Decimal {
	total := decimal.Zero
	for _, a := range s.Assets {
		total = total.Add(a.Value)
	}
	return total
}

// Provider owns the holdings of one asset class for one user.
type Provider struct {
	typ    domain.AssetType
	userID string
	store  Store

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	status Status
	assets []domain.Asset
	err    error

	log zerolog.Logger
}

func newProvider(ctx context.Context, t domain.AssetType, userID string, store Store, log zerolog.Logger) *Provider {
	ctx, cancel := context.WithCancel(ctx)
	return &Provider{
		typ:    t,
		userID: userID,
		store:  store,
		ctx:    ctx,
		cancel: cancel,
		status: StatusLoading,
		log:    log.With().Str("asset_type", string(t)).Logger(),
	}
}

// Type returns the asset class this provider is bound to.
func (p *Provider) Type() domain.AssetType { return p.typ }

// UserID returns the owner of the holdings.
func (p *Provider) UserID() string { return p.userID }

// Load fetches holdings from the store. On failure the provider moves to
// StatusFailed and keeps the error, which wraps domain.ErrDataUnavailable
// unless the load was cancelled.
func (p *Provider) Load() error {
	p.mu.RLock()
	released := p.status == StatusReleased
	p.mu.RUnlock()
	if released {
		return ErrReleased
	}

	list, err := p.store.ListByType(p.ctx, p.userID, p.typ)
	if err == nil && p.ctx.Err() != nil {
		err = p.ctx.Err()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status == StatusReleased {
		return ErrReleased
	}

	if err != nil {
		if ctxErr := p.ctx.Err(); ctxErr != nil {
			err = ctxErr
		} else {
			err = fmt.Errorf("%w: %w", domain.ErrDataUnavailable, err)
			p.log.Warn().Err(err).Str("user_id", p.userID).Msg("Failed to load holdings")
		}
		p.status = StatusFailed
		p.err = err
		p.assets = nil
		return err
	}

	p.status = StatusReady
	p.err = nil
	p.assets = list
	return nil
}

// LoadAsync runs Load on its own goroutine. The returned channel is closed
// when the load has finished. Release waits for it.
func (p *Provider) LoadAsync() <-chan struct{} {
	done := make(chan struct{})
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer close(done)
		_ = p.Load()
	}()
	return done
}

// Snapshot returns a deep copy of the current state.
func (p *Provider) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	snap := Snapshot{Type: p.typ, Status: p.status, Err: p.err}
	if len(p.assets) > 0 {
		snap.Assets = make([]domain.Asset, len(p.assets))
		for i, a := range p.assets {
			snap.Assets[i] = cloneAsset(a)
		}
	}
	return snap
}

// Add stores a new asset of the provider's class and appends it to the
// in-memory holdings. The owner is always the provider's user.
func (p *Provider) Add(a *domain.Asset) error {
	if err := p.checkWritable(a.Type); err != nil {
		return err
	}
	a.UserID = p.userID
	if err := p.store.Create(p.ctx, a); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status == StatusReleased {
		return ErrReleased
	}
	p.assets = append(p.assets, cloneAsset(*a))
	sortByValueDesc(p.assets)
	return nil
}

// Update rewrites an existing asset and replaces it in memory.
func (p *Provider) Update(a *domain.Asset) error {
	if err := p.checkWritable(a.Type); err != nil {
		return err
	}
	a.UserID = p.userID
	if err := p.store.Update(p.ctx, a); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status == StatusReleased {
		return ErrReleased
	}
	for i := range p.assets {
		if p.assets[i].ID == a.ID {
			p.assets[i] = cloneAsset(*a)
			sortByValueDesc(p.assets)
			return nil
		}
	}
	p.assets = append(p.assets, cloneAsset(*a))
	sortByValueDesc(p.assets)
	return nil
}

// Delete removes an asset by ID.
func (p *Provider) Delete(id string) error {
	if err := p.checkWritable(p.typ); err != nil {
		return err
	}
	if err := p.store.Delete(p.ctx, p.userID, p.typ, id); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status == StatusReleased {
		return ErrReleased
	}
	for i := range p.assets {
		if p.assets[i].ID == id {
			p.assets = append(p.assets[:i], p.assets[i+1:]...)
			break
		}
	}
	return nil
}

func (p *Provider) checkWritable(t domain.AssetType) error {
	p.mu.RLock()
	released := p.status == StatusReleased
	p.mu.RUnlock()
	if released {
		return ErrReleased
	}
	if t != p.typ {
		return fmt.Errorf("%w: %s provider cannot hold %s", ErrWrongAssetType, p.typ, t)
	}
	return nil
}

// release cancels in-flight work, waits for it and clears state.
// It reports false when the provider had already been released.
func (p *Provider) release() bool {
	p.mu.Lock()
	if p.status == StatusReleased {
		p.mu.Unlock()
		return false
	}
	p.status = StatusReleased
	p.assets = nil
	p.err = nil
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
	return true
}

func cloneAsset(a domain.Asset) domain.Asset {
	a.Meta = a.Meta.Clone()
	return a
}

func sortByValueDesc(list []domain.Asset) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Value.GreaterThan(list[j].Value)
	})
}
