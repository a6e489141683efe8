package holdings

import (
	"context"
	"errors"
	"testing"

	"github.com/aetherwealth/aether/internal/domain"
	testingpkg "github.com/aetherwealth/aether/internal/testing"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixtureStore() *testingpkg.MockAssetStore {
	all := append(testingpkg.NewBondFixtures(), testingpkg.NewShareFixtures()...)
	all = append(all, testingpkg.NewCryptoFixtures()...)
	return testingpkg.NewMockAssetStore(all...)
}

func mount(t *testing.T, m *Mounts, typ domain.AssetType) *Provider {
	t.Helper()
	p, err := m.Mount(context.Background(), typ, testingpkg.TestUserID)
	require.NoError(t, err)
	t.Cleanup(func() { m.Unmount(p) })
	return p
}

func TestProvider_StartsLoading(t *testing.T) {
	m := NewMounts(newFixtureStore(), zerolog.Nop())
	p := mount(t, m, domain.AssetTypeShare)

	snap := p.Snapshot()
	assert.Equal(t, StatusLoading, snap.Status)
	assert.Equal(t, domain.AssetTypeShare, snap.Type)
	assert.Empty(t, snap.Assets)
}

func TestProvider_LoadReady(t *testing.T) {
	m := NewMounts(newFixtureStore(), zerolog.Nop())
	p := mount(t, m, domain.AssetTypeShare)

	require.NoError(t, p.Load())

	snap := p.Snapshot()
	assert.Equal(t, StatusReady, snap.Status)
	require.Len(t, snap.Assets, 2)
	for _, a := range snap.Assets {
		assert.Equal(t, domain.AssetTypeShare, a.Type)
	}
	assert.True(t, snap.Total().Equal(decimal.NewFromInt(3200)))
}

func TestProvider_LoadFailureKeepsError(t *testing.T) {
	store := newFixtureStore()
	store.SetListError(errors.New("disk I/O error"))
	m := NewMounts(store, zerolog.Nop())
	p := mount(t, m, domain.AssetTypeBond)

	err := p.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)

	snap := p.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.ErrorIs(t, snap.Err, domain.ErrDataUnavailable)
	assert.Empty(t, snap.Assets)
}

func TestProvider_SnapshotIsACopy(t *testing.T) {
	m := NewMounts(newFixtureStore(), zerolog.Nop())
	p := mount(t, m, domain.AssetTypeCrypto)
	require.NoError(t, p.Load())

	snap := p.Snapshot()
	snap.Assets[0].Name = "Changed"
	snap.Assets[0].Meta["symbol"] = "XXX"

	again := p.Snapshot()
	assert.Equal(t, "Bitcoin", again.Assets[0].Name)
	assert.Equal(t, "BTC", again.Assets[0].Meta.String("symbol"))
}

func TestProvider_SnapshotCopiesNestedMeta(t *testing.T) {
	m := NewMounts(newFixtureStore(), zerolog.Nop())
	p := mount(t, m, domain.AssetTypeCrypto)
	require.NoError(t, p.Load())

	staked := &domain.Asset{
		ID:    "eth-staked",
		Type:  domain.AssetTypeCrypto,
		Name:  "Staked Ether",
		Value: decimal.NewFromInt(1),
		Meta: domain.Meta{
			"symbol":  "stETH",
			"wallets": map[string]any{"ledger": map[string]any{"amount": 2.5}},
			"tags":    []any{"staking", map[string]any{"apr": 3.1}},
		},
	}
	require.NoError(t, p.Add(staked))
	staked.Meta["wallets"].(map[string]any)["ledger"] = "caller edit"

	find := func(snap Snapshot) domain.Asset {
		for _, a := range snap.Assets {
			if a.ID == "eth-staked" {
				return a
			}
		}
		t.Fatal("staked asset missing from snapshot")
		return domain.Asset{}
	}

	snap := find(p.Snapshot())
	snap.Meta["wallets"].(map[string]any)["ledger"].(map[string]any)["amount"] = 99.0
	snap.Meta["tags"].([]any)[1].(map[string]any)["apr"] = 0.0

	again := find(p.Snapshot())
	ledger := again.Meta["wallets"].(map[string]any)["ledger"].(map[string]any)
	assert.Equal(t, 2.5, ledger["amount"])
	assert.Equal(t, 3.1, again.Meta["tags"].([]any)[1].(map[string]any)["apr"])
}

func TestProvider_AddUpdateDelete(t *testing.T) {
	store := newFixtureStore()
	m := NewMounts(store, zerolog.Nop())
	p := mount(t, m, domain.AssetTypeShare)
	require.NoError(t, p.Load())

	added := &domain.Asset{
		Type:  domain.AssetTypeShare,
		Name:  "Microsoft",
		Value: decimal.NewFromInt(5000),
		Meta:  domain.Meta{"symbol": "MSFT"},
	}
	require.NoError(t, p.Add(added))
	assert.Equal(t, testingpkg.TestUserID, added.UserID)
	assert.NotEmpty(t, added.ID)

	snap := p.Snapshot()
	require.Len(t, snap.Assets, 3)
	assert.Equal(t, "Microsoft", snap.Assets[0].Name)

	added.Value = decimal.NewFromInt(100)
	require.NoError(t, p.Update(added))
	snap = p.Snapshot()
	assert.Equal(t, "Microsoft", snap.Assets[2].Name)

	require.NoError(t, p.Delete(added.ID))
	assert.Len(t, p.Snapshot().Assets, 2)
	assert.Equal(t, 6, store.Count())
}

func TestProvider_RejectsOtherClass(t *testing.T) {
	store := newFixtureStore()
	m := NewMounts(store, zerolog.Nop())
	p := mount(t, m, domain.AssetTypeBond)
	require.NoError(t, p.Load())

	err := p.Add(&domain.Asset{Type: domain.AssetTypeCrypto, Name: "Doge", Value: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrWrongAssetType)
	assert.Len(t, p.Snapshot().Assets, 2)
	assert.Equal(t, 6, store.Count())
}

func TestProvider_StoreWriteErrorLeavesStateUntouched(t *testing.T) {
	store := newFixtureStore()
	m := NewMounts(store, zerolog.Nop())
	p := mount(t, m, domain.AssetTypeBond)
	require.NoError(t, p.Load())

	store.SetWriteError(errors.New("read-only database"))
	err := p.Delete("bond-1")
	require.Error(t, err)
	assert.Len(t, p.Snapshot().Assets, 2)
}

func TestProvider_LoadAsyncCancelledByRelease(t *testing.T) {
	store := newFixtureStore()
	unblock := store.BlockLists()
	defer unblock()

	m := NewMounts(store, zerolog.Nop())
	p, err := m.Mount(context.Background(), domain.AssetTypeShare, testingpkg.TestUserID)
	require.NoError(t, err)

	done := p.LoadAsync()
	m.Unmount(p)

	select {
	case <-done:
	default:
		t.Fatal("Unmount returned before the load finished")
	}
	snap := p.Snapshot()
	assert.Equal(t, StatusReleased, snap.Status)
	assert.Empty(t, snap.Assets)
}

func TestProvider_LoadCancelledByParentContext(t *testing.T) {
	store := newFixtureStore()
	unblock := store.BlockLists()
	defer unblock()

	m := NewMounts(store, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	p, err := m.Mount(ctx, domain.AssetTypeCrypto, testingpkg.TestUserID)
	require.NoError(t, err)
	defer m.Unmount(p)

	done := p.LoadAsync()
	cancel()
	<-done

	snap := p.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.ErrorIs(t, snap.Err, context.Canceled)
}

func TestProvider_ReleasedRejectsMutations(t *testing.T) {
	m := NewMounts(newFixtureStore(), zerolog.Nop())
	p, err := m.Mount(context.Background(), domain.AssetTypeShare, testingpkg.TestUserID)
	require.NoError(t, err)
	require.NoError(t, p.Load())

	m.Unmount(p)

	assert.ErrorIs(t, p.Load(), ErrReleased)
	assert.ErrorIs(t, p.Delete("share-1"), ErrReleased)
	assert.ErrorIs(t, p.Add(&domain.Asset{Type: domain.AssetTypeShare, Name: "X"}), ErrReleased)

	snap := p.Snapshot()
	assert.Equal(t, StatusReleased, snap.Status)
	assert.Empty(t, snap.Assets)
}
