package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store persists users and sessions in auth.db.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
	log zerolog.Logger
}

// NewStore creates a store issuing sessions that live for ttl.
func NewStore(db *sql.DB, ttl time.Duration, log zerolog.Logger) *Store {
	return &Store{
		db:  db,
		ttl: ttl,
		now: time.Now,
		log: log.With().Str("repository", "auth").Logger(),
	}
}

// CreateUser registers a new account.
func (s *Store) CreateUser(ctx context.Context, email, fullName, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email %q", email)
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:        uuid.NewString(),
		Email:     email,
		FullName:  strings.TrimSpace(fullName),
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, full_name, created_at) VALUES (?, ?, ?, ?, ?)",
		u.ID, u.Email, hash, u.FullName, u.CreatedAt.Unix())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info().Str("user_id", u.ID).Msg("User created")
	return u, nil
}

// Authenticate checks credentials and returns the matching user.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*User, error) {
	var (
		u         User
		hash      string
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, full_name, created_at FROM users WHERE email = ?",
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&u.ID, &u.Email, &hash, &u.FullName, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := VerifyPassword(password, hash)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", u.ID).Msg("Stored password hash is unreadable")
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &u, nil
}

// CreateSession issues a new random session token for userID.
func (s *Store) CreateSession(ctx context.Context, userID string) (string, time.Time, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate session token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	now := s.now().UTC()
	expires := now.Add(s.ttl)

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO sessions (token, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)",
		token, userID, expires.Unix(), now.Unix())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to create session: %w", err)
	}
	return token, expires, nil
}

// UserForSession resolves an unexpired session token to its user.
func (s *Store) UserForSession(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}
	var (
		u         User
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.full_name, u.created_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = ? AND s.expires_at > ?
	`, token, s.now().Unix()).Scan(&u.ID, &u.Email, &u.FullName, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &u, nil
}

// DeleteSession signs a session out. Unknown tokens are ignored.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PurgeExpired deletes every expired session and returns how many went.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
