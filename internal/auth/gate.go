package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

// SessionResolver maps a session token to its user.
type SessionResolver interface {
	UserForSession(ctx context.Context, token string) (*User, error)
}

// Gate guards routes that need a signed-in user. With devMode set every
// request passes as DevUser.
type Gate struct {
	sessions SessionResolver
	devMode  bool
	log      zerolog.Logger
}

// NewGate creates a gate. devMode is fixed for the life of the process.
func NewGate(sessions SessionResolver, devMode bool, log zerolog.Logger) *Gate {
	return &Gate{
		sessions: sessions,
		devMode:  devMode,
		log:      log.With().Str("component", "auth_gate").Logger(),
	}
}

// DevMode reports whether authentication is bypassed.
func (g *Gate) DevMode() bool { return g.devMode }

// Resolve returns the user for r, or false when nobody is signed in.
func (g *Gate) Resolve(r *http.Request) (*User, bool) {
	if g.devMode {
		u := DevUser
		return &u, true
	}
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, false
	}
	u, err := g.sessions.UserForSession(r.Context(), cookie.Value)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			g.log.Error().Err(err).Msg("Session lookup failed")
		}
		return nil, false
	}
	return u, true
}

// RequirePage redirects anonymous browsers to the landing page.
func (g *Gate) RequirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := g.Resolve(r)
		if !ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

// RequireAPI answers anonymous API calls with 401.
func (g *Gate) RequireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := g.Resolve(r)
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}
