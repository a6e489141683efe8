package dashboard

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aetherwealth/aether/internal/auth"
)

// Accounts signs users in and out.
type Accounts interface {
	Authenticate(ctx context.Context, email, password string) (*auth.User, error)
	CreateSession(ctx context.Context, userID string) (string, time.Time, error)
	DeleteSession(ctx context.Context, token string) error
}

type landingData struct {
	Email string
	Error string
}

// handleLanding serves GET /. Signed-in users go straight to the dashboard.
func (h *Handler) handleLanding(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.gate.Resolve(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.landing(w, r, http.StatusOK, landingData{})
}

// handleLogin serves POST /login.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.Allow(r) {
		h.landing(w, r, http.StatusTooManyRequests, landingData{
			Error: "Too many sign-in attempts. Try again in a minute.",
		})
		return
	}
	if h.accounts == nil {
		h.landing(w, r, http.StatusServiceUnavailable, landingData{Error: "Sign-in is not configured."})
		return
	}
	if err := r.ParseForm(); err != nil {
		h.landing(w, r, http.StatusBadRequest, landingData{Error: "The form could not be read."})
		return
	}
	email := r.PostForm.Get("email")

	user, err := h.accounts.Authenticate(r.Context(), email, r.PostForm.Get("password"))
	if err != nil {
		status := http.StatusUnauthorized
		msg := "Incorrect email or password."
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			h.log.Error().Err(err).Msg("Sign-in failed")
			status = http.StatusInternalServerError
			msg = "Sign-in is unavailable right now."
		}
		h.landing(w, r, status, landingData{Email: email, Error: msg})
		return
	}

	token, expires, err := h.accounts.CreateSession(r.Context(), user.ID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to create session")
		h.landing(w, r, http.StatusInternalServerError, landingData{Email: email, Error: "Sign-in is unavailable right now."})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	h.log.Info().Str("user_id", user.ID).Msg("User signed in")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleLogout serves POST /logout.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookie); err == nil && h.accounts != nil {
		if err := h.accounts.DeleteSession(r.Context(), cookie.Value); err != nil {
			h.log.Warn().Err(err).Msg("Failed to delete session")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) landing(w http.ResponseWriter, r *http.Request, status int, data landingData) {
	h.page(w, r, status, Shell{Title: "Sign in", Bare: true}, "landing", data)
}
