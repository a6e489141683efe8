// Package auth provides password accounts, cookie sessions and the gate that
// protects dashboard and API routes.
package auth

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrSessionNotFound is returned for unknown or expired session tokens.
	ErrSessionNotFound = errors.New("session not found")
	// ErrEmailTaken is returned when creating a user with an existing email.
	ErrEmailTaken = errors.New("email already registered")
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "aether_session"

// User is an account that can sign in.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// DevUser is the identity requests run as when developer mode bypasses
// authentication.
var DevUser = User{
	ID:       "dev-user",
	Email:    "dev@localhost",
	FullName: "Developer",
}

type userKey struct{}

// WithUser returns a context carrying u.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext returns the signed-in user set by the gate.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userKey{}).(*User)
	return u, ok && u != nil
}
