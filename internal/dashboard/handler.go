// Package dashboard serves the server-rendered HTML pages: the landing page
// with sign-in, the overview, one page per asset class and the help page.
package dashboard

import (
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

// Config collects the dependencies of the dashboard handler.
type Config struct {
	Renderer  *Renderer
	Formatter *view.Formatter
	Consumers []Consumer
	Mounts    *holdings.Mounts
	Totals    TotalsSource
	Gate      *auth.Gate
	Accounts  Accounts
	Limiter   *auth.LoginLimiter
	// SecureCookies marks the session cookie Secure (production).
	SecureCookies bool
	Recorder      OutcomeRecorder
	Log           zerolog.Logger
}

// Handler provides the dashboard HTTP handlers.
type Handler struct {
	renderer  *Renderer
	formatter *view.Formatter
	template  *AssetPageTemplate
	mounts    *holdings.Mounts
	totals    TotalsSource
	gate      *auth.Gate
	accounts  Accounts
	limiter   *auth.LoginLimiter
	secure    bool
	pages     []*AssetPage
	log       zerolog.Logger
}

// NewHandler validates every page binding and creates the handler.
func NewHandler(cfg Config) (*Handler, error) {
	if cfg.Renderer == nil || cfg.Mounts == nil || cfg.Gate == nil {
		return nil, errors.New("dashboard: renderer, mounts and gate are required")
	}
	log := cfg.Log.With().Str("handler", "dashboard").Logger()

	h := &Handler{
		renderer:  cfg.Renderer,
		formatter: cfg.Formatter,
		template:  NewAssetPageTemplate(cfg.Renderer, cfg.Formatter, cfg.Consumers...),
		mounts:    cfg.Mounts,
		totals:    cfg.Totals,
		gate:      cfg.Gate,
		accounts:  cfg.Accounts,
		limiter:   cfg.Limiter,
		secure:    cfg.SecureCookies,
		log:       log,
	}

	for _, route := range AssetRoutes() {
		c := route.Config
		if _, err := domain.NewAssetClassConfig(c.Type, c.Title, c.Description); err != nil {
			return nil, err
		}
		h.pages = append(h.pages, &AssetPage{
			route:    route,
			template: h.template,
			renderer: cfg.Renderer,
			devMode:  cfg.Gate.DevMode(),
			recorder: cfg.Recorder,
			log:      log.With().Str("page", route.Segment).Logger(),
		})
	}
	return h, nil
}

// RegisterRoutes registers the landing, session and dashboard routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleLanding)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)

	r.Route("/dashboard", func(r chi.Router) {
		r.Use(h.gate.RequirePage)

		r.Get("/", h.handleOverview)
		r.Get("/help", h.handleHelp)

		for _, pg := range h.pages {
			layout := NewLayout(pg.route.Config.Type, h.mounts, h.log)
			r.Route("/"+pg.route.Segment, func(r chi.Router) {
				r.Get("/", layout.Wrap(pg.Show))
				r.Post("/assets", layout.Wrap(pg.Add))
				r.Post("/assets/{id}/delete", layout.Wrap(pg.Delete))
			})
		}
	})
}

func (h *Handler) shell(r *http.Request, shell Shell) Shell {
	if user, ok := auth.UserFromContext(r.Context()); ok {
		shell.User = user
	}
	shell.DevMode = h.gate.DevMode()
	return shell
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request, status int, shell Shell, name string, data any) {
	if err := h.renderer.Page(w, status, h.shell(r, shell), name, data); err != nil {
		h.log.Error().Err(err).Str("template", name).Msg("Failed to render page")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, status int, shell Shell, content template.HTML) {
	if err := h.renderer.write(w, status, h.shell(r, shell), content); err != nil {
		h.log.Error().Err(err).Msg("Failed to write page")
	}
}
