package testing

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aetherwealth/aether/internal/domain"
	"github.com/google/uuid"
)

// MockAssetStore is an in-memory asset store for provider and handler tests.
type MockAssetStore struct {
	mu        sync.Mutex
	assets    map[string]domain.Asset
	listErr   error
	writeErr  error
	block     chan struct{}
	listCalls int
}

// NewMockAssetStore creates a store preloaded with assets.
func NewMockAssetStore(assets ...domain.Asset) *MockAssetStore {
	m := &MockAssetStore{assets: make(map[string]domain.Asset)}
	for _, a := range assets {
		m.assets[a.ID] = a
	}
	return m
}

// SetListError makes ListByType fail with err.
func (m *MockAssetStore) SetListError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr = err
}

// SetWriteError makes Create, Update and Delete fail with err.
func (m *MockAssetStore) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// BlockLists makes ListByType wait until the returned func is called or the
// caller's context is done.
func (m *MockAssetStore) BlockLists() (unblock func()) {
	ch := make(chan struct{})
	m.mu.Lock()
	m.block = ch
	m.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// ListCalls returns how many times ListByType ran.
func (m *MockAssetStore) ListCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

// Count returns the number of stored assets.
func (m *MockAssetStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.assets)
}

func (m *MockAssetStore) ListByType(ctx context.Context, userID string, t domain.AssetType) ([]domain.Asset, error) {
	m.mu.Lock()
	m.listCalls++
	block := m.block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.Asset, 0)
	for _, a := range m.assets {
		if a.UserID == userID && a.Type == t {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value.GreaterThan(out[j].Value) })
	return out, nil
}

func (m *MockAssetStore) Create(_ context.Context, a *domain.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	m.assets[a.ID] = *a
	return nil
}

func (m *MockAssetStore) Update(_ context.Context, a *domain.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	existing, ok := m.assets[a.ID]
	if !ok || existing.UserID != a.UserID || existing.Type != a.Type {
		return domain.ErrNotFound
	}
	a.UpdatedAt = time.Now().UTC()
	m.assets[a.ID] = *a
	return nil
}

func (m *MockAssetStore) Delete(_ context.Context, userID string, t domain.AssetType, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	existing, ok := m.assets[id]
	if !ok || existing.UserID != userID || existing.Type != t {
		return domain.ErrNotFound
	}
	delete(m.assets, id)
	return nil
}
