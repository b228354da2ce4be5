package session

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations returns the goose migration set for the sessions table, rooted
// so it can be handed straight to pg.Migrate.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// PGStore persists records in a Postgres sessions table. The JSON payload is
// authoritative for everything except last_seen_at, which lives in its own
// column so Touch is a single UPDATE instead of a read-modify-write.
type PGStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// PGStoreOption configures a PGStore.
type PGStoreOption func(*PGStore)

// WithPGStoreLogger sets the logger used for self-healing events.
func WithPGStoreLogger(log *slog.Logger) PGStoreOption {
	return func(s *PGStore) {
		if log != nil {
			s.log = log
		}
	}
}

// NewPGStore creates a Store backed by the given connection pool.
func NewPGStore(pool *pgxpool.Pool, opts ...PGStoreOption) *PGStore {
	s := &PGStore{
		pool: pool,
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create implements Store. ON CONFLICT DO NOTHING gives the same
// insert-if-absent guarantee SETNX provides on Redis.
func (s *PGStore) Create(ctx context.Context, rec Record) (string, error) {
	if !time.Now().Before(rec.ExpiresAt) {
		return "", ErrInvalidRecord
	}

	var userID *uuid.UUID
	if rec.Identity != nil {
		userID = &rec.Identity.UserID
	}

	for range maxIDAttempts {
		id, err := newID()
		if err != nil {
			return "", fmt.Errorf("generate session id: %w", err)
		}
		rec.ID = id

		payload, err := json.Marshal(rec)
		if err != nil {
			return "", fmt.Errorf("marshal session record: %w", err)
		}

		tag, err := s.pool.Exec(ctx, `
			INSERT INTO sessions (id, session_type, user_id, payload, created_at, last_seen_at, expires_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING`,
			id, string(rec.Type), userID, payload, rec.CreatedAt, rec.LastSeenAt, rec.ExpiresAt,
		)
		if err != nil {
			return "", fmt.Errorf("store session record: %w", err)
		}
		if tag.RowsAffected() == 1 {
			return id, nil
		}
	}
	return "", ErrIDGeneration
}

// Get implements Store. The last_seen_at column overrides the payload copy,
// and a payload that fails to decode is deleted in place.
func (s *PGStore) Get(ctx context.Context, id string) (*Record, error) {
	var (
		payload    []byte
		lastSeenAt time.Time
	)
	err := s.pool.QueryRow(ctx, `
		SELECT payload, last_seen_at
		FROM sessions
		WHERE id = $1 AND expires_at > now()`,
		id,
	).Scan(&payload, &lastSeenAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		s.log.WarnContext(ctx, "deleting corrupt session record", "error", err)
		if _, delErr := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); delErr != nil {
			return nil, fmt.Errorf("delete corrupt session record: %w", delErr)
		}
		return nil, nil
	}
	rec.LastSeenAt = lastSeenAt
	return &rec, nil
}

// Touch implements Store.
func (s *PGStore) Touch(ctx context.Context, id string, at time.Time) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE sessions SET last_seen_at = $2
		WHERE id = $1 AND expires_at > now()`,
		id, at,
	)
	if err != nil {
		return false, fmt.Errorf("touch session record: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete implements Store.
func (s *PGStore) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete session record: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteAllForUser implements Store.
func (s *PGStore) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// Exists implements Store.
func (s *PGStore) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM sessions WHERE id = $1 AND expires_at > now())`,
		id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check session record: %w", err)
	}
	return exists, nil
}

// DeleteExpired removes records past their absolute deadline. Run it
// periodically; expired rows are otherwise only filtered, never reclaimed.
func (s *PGStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
