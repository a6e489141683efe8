package dashboard

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aetherwealth/aether/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharesRoute_RendersTitleAndDescription(t *testing.T) {
	h := newHarness(t, fixtureStore())

	w := h.get(t, "/dashboard/shares")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	text := textContent(t, w.Body.String())
	assert.Contains(t, text, "Shares & Stocks")
	assert.Contains(t, text, "Monitor your public equity investments and stock listings.")
	assert.Contains(t, text, "Test Investor")
	assert.True(t, findAttr(t, w.Body.String(), "data-asset-type", "SHARE"))

	assert.Equal(t, []domain.AssetType{domain.AssetTypeShare}, h.mountLog.mounted)
	assert.Equal(t, []domain.AssetType{domain.AssetTypeShare}, h.mountLog.released)
	assert.Equal(t, 0, h.mounts.Live(domain.AssetTypeShare))
	assert.Equal(t, []RenderOutcome{OutcomeOK}, h.outcomes.outcomes)
}

func TestAssetRoutes_EachMountsItsOwnClass(t *testing.T) {
	for _, route := range AssetRoutes() {
		t.Run(route.Segment, func(t *testing.T) {
			h := newHarness(t, fixtureStore())

			w := h.get(t, "/dashboard/"+route.Segment)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, textContent(t, w.Body.String()), route.Config.Title)
			assert.Equal(t, []domain.AssetType{route.Config.Type}, h.mountLog.mounted)
			assert.Equal(t, 0, h.mounts.Live(route.Config.Type))
		})
	}
}

func TestAssetRoute_UnavailableIs503(t *testing.T) {
	store := fixtureStore()
	store.SetListError(errors.New("database is locked"))
	h := newHarness(t, store)

	w := h.get(t, "/dashboard/bonds")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, textContent(t, w.Body.String()), "Holdings are temporarily unavailable.")
	assert.Equal(t, []RenderOutcome{OutcomeUnavailable}, h.outcomes.outcomes)
}

func TestHelpRoute_RendersComingSoonWithoutProvider(t *testing.T) {
	h := newHarness(t, fixtureStore())

	w := h.get(t, "/dashboard/help")
	require.Equal(t, http.StatusOK, w.Code)

	text := textContent(t, w.Body.String())
	assert.Contains(t, text, "Help Center")
	assert.Contains(t, text, DefaultComingSoonDescription)
	assert.True(t, findAttr(t, w.Body.String(), "data-icon", IconHelpCircle))
	assert.Empty(t, h.mountLog.mounted)
	assert.Zero(t, h.store.ListCalls())
}

func TestDashboard_AnonymousRedirectsToLanding(t *testing.T) {
	h := newHarness(t, fixtureStore())

	for _, path := range []string{"/dashboard", "/dashboard/shares", "/dashboard/help"} {
		w := h.do(t, httptest.NewRequest(http.MethodGet, path, nil), false)
		assert.Equal(t, http.StatusSeeOther, w.Code, path)
		assert.Equal(t, "/", w.Header().Get("Location"), path)
	}
	assert.Empty(t, h.mountLog.mounted)
}

func TestDashboard_DevModeBypassesAuthAndShowsBanner(t *testing.T) {
	h := newHarness(t, fixtureStore(), withDevMode())

	w := h.do(t, httptest.NewRequest(http.MethodGet, "/dashboard/crypto", nil), false)
	require.Equal(t, http.StatusOK, w.Code)

	text := textContent(t, w.Body.String())
	assert.Contains(t, text, "Developer mode")
	assert.Contains(t, text, "Developer")
}

func TestDashboard_NoBannerOutsideDevMode(t *testing.T) {
	h := newHarness(t, fixtureStore())

	w := h.get(t, "/dashboard/crypto")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, textContent(t, w.Body.String()), "Developer mode")
}

func TestOverview(t *testing.T) {
	h := newHarness(t, fixtureStore())

	w := h.get(t, "/dashboard")
	require.Equal(t, http.StatusOK, w.Code)

	text := textContent(t, w.Body.String())
	assert.Contains(t, text, "Welcome back, Test Investor")
	assert.Contains(t, text, "$753,200.00")
	assert.Contains(t, text, "Real Estate")
	assert.True(t, findAttr(t, w.Body.String(), "href", "/dashboard/bonds"))
	assert.Empty(t, h.mountLog.mounted)
}

func TestAddAsset(t *testing.T) {
	h := newHarness(t, fixtureStore())

	req := postForm("/dashboard/shares/assets", map[string]string{
		"symbol":        "MSFT",
		"name":          "Microsoft",
		"sector":        "Technology",
		"quantity":      "5",
		"average_price": "300",
		"current_price": "420",
	})
	w := h.do(t, req, true)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard/shares", w.Header().Get("Location"))
	assert.Equal(t, 7, h.store.Count())
	assert.Equal(t, 0, h.mounts.Live(domain.AssetTypeShare))
}

func TestAddAsset_InvalidForm(t *testing.T) {
	h := newHarness(t, fixtureStore())

	req := postForm("/dashboard/shares/assets", map[string]string{
		"symbol":   "MSFT",
		"quantity": "lots",
	})
	w := h.do(t, req, true)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	text := textContent(t, w.Body.String())
	assert.Contains(t, text, "name is required")
	assert.Contains(t, text, "Shares & Stocks")
	assert.Equal(t, 6, h.store.Count())
}

func TestAddAsset_StoreFailureHidesDetail(t *testing.T) {
	store := fixtureStore()
	h := newHarness(t, store)
	store.SetWriteError(errors.New("disk I/O error: /var/lib/aether/wealth.db"))

	req := postForm("/dashboard/shares/assets", map[string]string{
		"symbol":        "MSFT",
		"name":          "Microsoft",
		"quantity":      "5",
		"average_price": "300",
		"current_price": "420",
	})
	w := h.do(t, req, true)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	text := textContent(t, w.Body.String())
	assert.Contains(t, text, "The asset could not be saved. Try again later.")
	assert.NotContains(t, text, "disk I/O")
	assert.NotContains(t, w.Body.String(), "wealth.db")
}

func TestAddAsset_AmountOutOfRange(t *testing.T) {
	h := newHarness(t, fixtureStore())

	req := postForm("/dashboard/shares/assets", map[string]string{
		"symbol":        "MSFT",
		"name":          "Microsoft",
		"quantity":      "5",
		"average_price": "300",
		"current_price": "1e50000000",
	})
	w := h.do(t, req, true)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, textContent(t, w.Body.String()), "current_price has too many digits")
	assert.Equal(t, 6, h.store.Count())
}

func TestDeleteAsset(t *testing.T) {
	h := newHarness(t, fixtureStore())

	w := h.do(t, httptest.NewRequest(http.MethodPost, "/dashboard/bonds/assets/bond-1/delete", nil), true)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard/bonds", w.Header().Get("Location"))
	assert.Equal(t, 5, h.store.Count())

	// A share cannot be deleted through the bonds route.
	w = h.do(t, httptest.NewRequest(http.MethodPost, "/dashboard/bonds/assets/share-1/delete", nil), true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 5, h.store.Count())
}

func TestPageBindings(t *testing.T) {
	for _, route := range AssetRoutes() {
		_, err := domain.NewAssetClassConfig(route.Config.Type, route.Config.Title, route.Config.Description)
		assert.NoError(t, err, route.Segment)
	}
	assert.Equal(t, "Shares & Stocks", SharesPage.Title)
	assert.Equal(t, "Bonds Holdings", BondsPage.Title)
	assert.Equal(t, "Crypto Assets", CryptoPage.Title)
	assert.Equal(t, "Help Center", HelpPage.Title)
	assert.Equal(t, IconHelpCircle, HelpPage.Icon)
}
