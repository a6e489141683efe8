package dashboard

import (
	"net/http"

	"github.com/aetherwealth/aether/internal/auth"
	"github.com/aetherwealth/aether/internal/domain"
	"github.com/aetherwealth/aether/internal/modules/holdings"
	"github.com/rs/zerolog"
)

// ScopedPage handles a request with the provider mounted for its route.
type ScopedPage func(w http.ResponseWriter, r *http.Request, p *holdings.Provider)

// Layout scopes one holdings provider of a fixed asset class to each request
// of its route subtree.
type Layout struct {
	typ    domain.AssetType
	mounts *holdings.Mounts
	log    zerolog.Logger
}

// NewLayout creates the layout for class t.
func NewLayout(t domain.AssetType, mounts *holdings.Mounts, log zerolog.Logger) *Layout {
	return &Layout{
		typ:    t,
		mounts: mounts,
		log:    log.With().Str("layout", t.Slug()).Logger(),
	}
}

// Wrap mounts a provider, loads it, hands it to page and releases it once
// page returns.
func (l *Layout) Wrap(page ScopedPage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserFromContext(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		p, err := l.mounts.Mount(r.Context(), l.typ, user.ID)
		if err != nil {
			l.log.Error().Err(err).Msg("Failed to mount holdings provider")
			http.Error(w, "Failed to load holdings", http.StatusInternalServerError)
			return
		}
		defer l.mounts.Unmount(p)

		// A failed load is carried in the provider state and rendered by the page.
		_ = p.Load()

		page(w, r, p)
	}
}
