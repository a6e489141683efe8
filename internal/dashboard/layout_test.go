package dashboard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aetherwealth/aether/internal/auth"
	"github.com/aetherwealth/aether/internal/domain"
	"github.com/aetherwealth/aether/internal/modules/holdings"
	testingpkg "github.com/aetherwealth/aether/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout_MountsExactlyOneProvider(t *testing.T) {
	mounts := holdings.NewMounts(fixtureStore(), zerolog.Nop())
	layout := NewLayout(domain.AssetTypeBond, mounts, zerolog.Nop())

	var seen *holdings.Provider
	handler := layout.Wrap(func(w http.ResponseWriter, r *http.Request, p *holdings.Provider) {
		seen = p
		assert.Equal(t, 1, mounts.Live(domain.AssetTypeBond))
		assert.Equal(t, 0, mounts.Live(domain.AssetTypeShare))
		assert.Equal(t, domain.AssetTypeBond, p.Type())
		assert.Equal(t, holdings.StatusReady, p.Snapshot().Status)
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard/bonds", nil)
	req = req.WithContext(auth.WithUser(req.Context(), testUser))
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, 0, mounts.Live(domain.AssetTypeBond))

	snap := seen.Snapshot()
	assert.Equal(t, holdings.StatusReleased, snap.Status)
	assert.Empty(t, snap.Assets)
}

func TestLayout_ProvidersAreIsolatedPerClass(t *testing.T) {
	store := fixtureStore()
	mounts := holdings.NewMounts(store, zerolog.Nop())

	collect := func(t domain.AssetType) []domain.Asset {
		var assets []domain.Asset
		h := NewLayout(t, mounts, zerolog.Nop()).Wrap(func(w http.ResponseWriter, r *http.Request, p *holdings.Provider) {
			assets = p.Snapshot().Assets
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(auth.WithUser(req.Context(), testUser))
		h(httptest.NewRecorder(), req)
		return assets
	}

	bondsAssets := collect(domain.AssetTypeBond)
	sharesAssets := collect(domain.AssetTypeShare)

	require.Len(t, bondsAssets, 2)
	require.Len(t, sharesAssets, 2)
	for _, a := range bondsAssets {
		assert.Equal(t, domain.AssetTypeBond, a.Type)
	}
	for _, a := range sharesAssets {
		assert.Equal(t, domain.AssetTypeShare, a.Type)
	}
}

func TestLayout_RequiresUser(t *testing.T) {
	mounts := holdings.NewMounts(testingpkg.NewMockAssetStore(), zerolog.Nop())
	called := false
	h := NewLayout(domain.AssetTypeCrypto, mounts, zerolog.Nop()).Wrap(func(http.ResponseWriter, *http.Request, *holdings.Provider) {
		called = true
	})

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
	assert.Equal(t, 0, mounts.Live(domain.AssetTypeCrypto))
}
