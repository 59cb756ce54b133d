package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is an interface for database query methods.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStore keeps access tokens in Postgres keyed by a random session id.
// Only the id travels in the cookie. The web_sessions table is created by
// db.Migrate.
type PGStore struct {
	db  Querier
	now func() time.Time
}

// NewPGStore creates a new Postgres-backed session store.
func NewPGStore(db Querier) *PGStore {
	return &PGStore{db: db, now: time.Now}
}

func (s *PGStore) Create(ctx context.Context, token string) (string, error) {
	id, err := GenerateSessionToken()
	if err != nil {
		return "", err
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO web_sessions (id, access_token, expires_at)
		VALUES ($1, $2, $3)
	`, id, token, s.now().Add(SessionDuration))
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

func (s *PGStore) Lookup(ctx context.Context, value string) (string, error) {
	var token string
	var expiresAt time.Time

	err := s.db.QueryRow(ctx, `
		SELECT access_token, expires_at FROM web_sessions WHERE id = $1
	`, value).Scan(&token, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}

	if s.now().After(expiresAt) {
		if err := s.Delete(ctx, value); err != nil {
			slog.Warn("failed to delete expired session", "error", err)
		}
		return "", ErrNoSession
	}
	return token, nil
}

func (s *PGStore) Delete(ctx context.Context, value string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM web_sessions WHERE id = $1`, value)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// CleanExpiredSessions removes all expired sessions.
func (s *PGStore) CleanExpiredSessions(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DELETE FROM web_sessions WHERE expires_at < NOW()`)
	if err != nil {
		return fmt.Errorf("failed to clean expired sessions: %w", err)
	}
	return nil
}
