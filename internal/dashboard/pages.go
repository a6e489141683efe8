package dashboard

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/aetherwealth/aether/internal/auth"
	"github.com/aetherwealth/aether/internal/domain"
	"github.com/aetherwealth/aether/internal/modules/holdings"
	"github.com/aetherwealth/aether/internal/view"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Page bindings. Each asset route renders the shared template with exactly
// these three values.
var (
	BondsPage = domain.AssetClassConfig{
		Type:        domain.AssetTypeBond,
		Title:       "Bonds Holdings",
		Description: "Manage your bond portfolio and fixed income securities.",
	}
	SharesPage = domain.AssetClassConfig{
		Type:        domain.AssetTypeShare,
		Title:       "Shares & Stocks",
		Description: "Monitor your public equity investments and stock listings.",
	}
	CryptoPage = domain.AssetClassConfig{
		Type:        domain.AssetTypeCrypto,
		Title:       "Crypto Assets",
		Description: "Track your cryptocurrency holdings across wallets and exchanges.",
	}
	HelpPage = ComingSoon{
		Title: "Help Center",
		Icon:  IconHelpCircle,
	}
)

// AssetRoute binds a URL segment under /dashboard to a page configuration.
type AssetRoute struct {
	Segment string
	Config  domain.AssetClassConfig
}

// AssetRoutes lists the asset-class routes in navigation order.
func AssetRoutes() []AssetRoute {
	return []AssetRoute{
		{Segment: "shares", Config: SharesPage},
		{Segment: "bonds", Config: BondsPage},
		{Segment: "crypto", Config: CryptoPage},
	}
}

func segmentFor(t domain.AssetType) string {
	for _, r := range AssetRoutes() {
		if r.Config.Type == t {
			return r.Segment
		}
	}
	return t.Slug()
}

// OutcomeRecorder receives the outcome of every asset page render.
type OutcomeRecorder interface {
	RecordRender(t domain.AssetType, outcome RenderOutcome)
}

// AssetPage serves one asset-class route: the page itself and its add and
// delete actions. Every handler takes the provider explicitly.
type AssetPage struct {
	route    AssetRoute
	template *AssetPageTemplate
	renderer *Renderer
	devMode  bool
	recorder OutcomeRecorder
	log      zerolog.Logger
}

func (pg *AssetPage) path() string {
	return "/dashboard/" + pg.route.Segment
}

// Show renders the page from the provider snapshot.
func (pg *AssetPage) Show(w http.ResponseWriter, r *http.Request, p *holdings.Provider) {
	pg.render(w, r, p, "", 0)
}

const addFailedMessage = "The asset could not be saved. Try again later."

// Add stores an asset submitted through the page form, then redirects back.
func (pg *AssetPage) Add(w http.ResponseWriter, r *http.Request, p *holdings.Provider) {
	consumer, ok := pg.template.Consumer(pg.route.Config.Type)
	if !ok {
		pg.Show(w, r, p)
		return
	}
	if err := r.ParseForm(); err != nil {
		pg.render(w, r, p, "The form could not be read.", http.StatusBadRequest)
		return
	}

	asset, err := consumer.ParseForm(view.NewForm(r.PostForm))
	if err == nil {
		err = p.Add(asset)
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAsset) || isFormError(err) {
			pg.render(w, r, p, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		pg.log.Error().Err(err).Msg("Failed to add asset")
		pg.render(w, r, p, addFailedMessage, http.StatusInternalServerError)
		return
	}

	pg.log.Info().Str("asset_id", asset.ID).Msg("Asset added")
	http.Redirect(w, r, pg.path(), http.StatusSeeOther)
}

// Delete removes the asset named in the URL, then redirects back.
func (pg *AssetPage) Delete(w http.ResponseWriter, r *http.Request, p *holdings.Provider) {
	id := chi.URLParam(r, "id")
	if err := p.Delete(id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Asset not found", http.StatusNotFound)
			return
		}
		pg.log.Error().Err(err).Str("asset_id", id).Msg("Failed to delete asset")
		http.Error(w, "Failed to delete asset", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, pg.path(), http.StatusSeeOther)
}

// render writes the page. A zero status uses the outcome's status.
func (pg *AssetPage) render(w http.ResponseWriter, r *http.Request, p *holdings.Provider, formError string, status int) {
	var body bytes.Buffer
	outcome, err := pg.template.render(&body, pg.route.Config, p.Snapshot(), formError)
	if pg.recorder != nil {
		pg.recorder.RecordRender(pg.route.Config.Type, outcome)
	}
	if err != nil {
		pg.log.Error().Err(err).Msg("Failed to render asset page")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	if outcome == OutcomeUnsupported {
		pg.log.Error().Str("asset_type", string(pg.route.Config.Type)).Msg("Asset page has no consumer for its type")
	}
	if status == 0 {
		status = outcome.HTTPStatus()
	}

	user, _ := auth.UserFromContext(r.Context())
	shell := Shell{
		Title:   pg.route.Config.Title,
		Active:  pg.route.Segment,
		User:    user,
		DevMode: pg.devMode,
	}
	if err := pg.renderer.write(w, status, shell, template.HTML(body.String())); err != nil {
		pg.log.Error().Err(err).Msg("Failed to write asset page")
	}
}

func isFormError(err error) bool {
	var fe *view.FormError
	return errors.As(err, &fe)
}
