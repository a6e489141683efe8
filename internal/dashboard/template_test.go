package dashboard

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/aetherwealth/aether/internal/domain"
	"github.com/aetherwealth/aether/internal/modules/holdings"
	testingpkg "github.com/aetherwealth/aether/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readySnapshot(t domain.AssetType, assets []domain.Asset) holdings.Snapshot {
	return holdings.Snapshot{Type: t, Status: holdings.StatusReady, Assets: assets}
}

func TestAssetPageTemplate_TitleAndDescriptionVerbatim(t *testing.T) {
	tmpl := newTemplate(t)

	for _, route := range AssetRoutes() {
		t.Run(route.Segment, func(t *testing.T) {
			var buf bytes.Buffer
			outcome, err := tmpl.Render(&buf, route.Config, readySnapshot(route.Config.Type, nil))
			require.NoError(t, err)
			assert.Equal(t, OutcomeEmpty, outcome)

			text := textContent(t, buf.String())
			assert.Contains(t, text, route.Config.Title)
			assert.Contains(t, text, route.Config.Description)
			assert.Contains(t, text, "Add "+route.Config.Title)
			assert.Contains(t, text, "Total "+route.Config.Title+" Value")
		})
	}
}

func TestAssetPageTemplate_Ready(t *testing.T) {
	tmpl := newTemplate(t)

	var buf bytes.Buffer
	outcome, err := tmpl.Render(&buf, SharesPage, readySnapshot(domain.AssetTypeShare, testingpkg.NewShareFixtures()))
	require.NoError(t, err)
	assert.Equal(t, OutcomeOK, outcome)

	text := textContent(t, buf.String())
	assert.Contains(t, text, "$3,200.00")
	assert.Contains(t, text, "Apple Inc.")
	assert.Contains(t, text, "Infosys Ltd")
	assert.Contains(t, text, "Sector Allocation")
	assert.True(t, findAttr(t, buf.String(), "action", "/dashboard/shares/assets/share-1/delete"))
}

func TestAssetPageTemplate_Empty(t *testing.T) {
	tmpl := newTemplate(t)

	var buf bytes.Buffer
	outcome, err := tmpl.Render(&buf, SharesPage, readySnapshot(domain.AssetTypeShare, nil))
	require.NoError(t, err)
	assert.Equal(t, OutcomeEmpty, outcome)
	assert.Contains(t, textContent(t, buf.String()),
		"No assets found. Add your first shares & stocks to get started.")
}

func TestAssetPageTemplate_Loading(t *testing.T) {
	tmpl := newTemplate(t)

	var buf bytes.Buffer
	outcome, err := tmpl.Render(&buf, BondsPage, holdings.Snapshot{Type: domain.AssetTypeBond, Status: holdings.StatusLoading})
	require.NoError(t, err)
	assert.Equal(t, OutcomeLoading, outcome)
	assert.Equal(t, http.StatusOK, outcome.HTTPStatus())
	assert.Contains(t, textContent(t, buf.String()), "Loading assets...")
}

func TestAssetPageTemplate_Unavailable(t *testing.T) {
	tmpl := newTemplate(t)

	for _, status := range []holdings.Status{holdings.StatusFailed, holdings.StatusReleased} {
		var buf bytes.Buffer
		outcome, err := tmpl.Render(&buf, CryptoPage, holdings.Snapshot{
			Type:   domain.AssetTypeCrypto,
			Status: status,
			Err:    errors.New("boom"),
		})
		require.NoError(t, err)
		assert.Equal(t, OutcomeUnavailable, outcome)
		assert.Equal(t, http.StatusServiceUnavailable, outcome.HTTPStatus())

		text := textContent(t, buf.String())
		assert.Contains(t, text, "Holdings are temporarily unavailable.")
		assert.NotContains(t, text, "boom")
	}
}

func TestAssetPageTemplate_UnsupportedType(t *testing.T) {
	tmpl := newTemplate(t)

	cases := []domain.AssetClassConfig{
		{Type: domain.AssetTypeRealEstate, Title: "Real Estate", Description: "Properties."},
		{Type: domain.AssetType("GOLD"), Title: "Gold", Description: "Bullion."},
	}
	for _, cfg := range cases {
		var buf bytes.Buffer
		outcome, err := tmpl.Render(&buf, cfg, readySnapshot(cfg.Type, nil))
		require.NoError(t, err)
		assert.Equal(t, OutcomeUnsupported, outcome)
		assert.Equal(t, http.StatusInternalServerError, outcome.HTTPStatus())

		text := textContent(t, buf.String())
		assert.Contains(t, text, "Unsupported asset type")
		assert.Contains(t, text, string(cfg.Type))
		assert.NotContains(t, text, "Add "+cfg.Title)
	}
}

func TestAssetPageTemplate_SnapshotOfAnotherClass(t *testing.T) {
	tmpl := newTemplate(t)

	var buf bytes.Buffer
	outcome, err := tmpl.Render(&buf, BondsPage, readySnapshot(domain.AssetTypeShare, testingpkg.NewShareFixtures()))
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnsupported, outcome)
	assert.NotContains(t, buf.String(), "Apple Inc.")
}

func TestAssetPageTemplate_EscapesTitle(t *testing.T) {
	tmpl := newTemplate(t)
	cfg := domain.AssetClassConfig{
		Type:        domain.AssetTypeShare,
		Title:       "<b>Shares</b>",
		Description: "a < b",
	}

	var buf bytes.Buffer
	_, err := tmpl.Render(&buf, cfg, readySnapshot(domain.AssetTypeShare, nil))
	require.NoError(t, err)
	assert.False(t, strings.Contains(buf.String(), "<b>Shares</b>"))
	assert.Contains(t, textContent(t, buf.String()), "<b>Shares</b>")
}
