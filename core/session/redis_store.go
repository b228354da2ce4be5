package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
	userSetKeyPrefix = "user_sessions:"
)

// RedisStore persists records as JSON values with a TTL matching the
// record's absolute deadline, plus a per-user set of session IDs used for
// bulk revocation.
type RedisStore struct {
	client redis.UniversalClient
	log    *slog.Logger
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithRedisStoreLogger sets the logger used for self-healing events.
func WithRedisStoreLogger(log *slog.Logger) RedisStoreOption {
	return func(s *RedisStore) {
		if log != nil {
			s.log = log
		}
	}
}

// NewRedisStore creates a Store backed by the given Redis client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client: client,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create implements Store. SETNX guarantees insert-if-absent, so the bounded
// retry loop regenerates on the (theoretical) collision instead of
// overwriting a live record.
func (s *RedisStore) Create(ctx context.Context, rec Record) (string, error) {
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return "", ErrInvalidRecord
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

		ok, err := s.client.SetNX(ctx, sessionKeyPrefix+id, payload, ttl).Result()
		if err != nil {
			return "", fmt.Errorf("store session record: %w", err)
		}
		if !ok {
			continue
		}

		if rec.Identity != nil {
			userKey := userSetKeyPrefix + rec.Identity.UserID.String()
			pipe := s.client.TxPipeline()
			pipe.SAdd(ctx, userKey, id)
			pipe.Expire(ctx, userKey, ttl)
			if _, err := pipe.Exec(ctx); err != nil {
				return "", fmt.Errorf("index session record: %w", err)
			}
		}
		return id, nil
	}
	return "", ErrIDGeneration
}

// Get implements Store. A record that fails to decode is deleted and treated
// as absent; the client holding its cookie falls back to a fresh pre-session.
func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		s.log.WarnContext(ctx, "deleting corrupt session record", "error", err)
		if delErr := s.client.Del(ctx, sessionKeyPrefix+id).Err(); delErr != nil {
			return nil, fmt.Errorf("delete corrupt session record: %w", delErr)
		}
		return nil, nil
	}
	return &rec, nil
}

// Touch implements Store. The key TTL is left untouched so activity never
// extends the absolute deadline.
func (s *RedisStore) Touch(ctx context.Context, id string, at time.Time) (bool, error) {
	rec, err := s.Get(ctx, id)
	if err != nil || rec == nil {
		return false, err
	}

	rec.LastSeenAt = at
	payload, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("marshal session record: %w", err)
	}
	// SetXX: a key that expired between the read and this write stays gone
	// instead of being recreated without a TTL.
	ok, err := s.client.SetXX(ctx, sessionKeyPrefix+id, payload, redis.KeepTTL).Result()
	if err != nil {
		return false, fmt.Errorf("touch session record: %w", err)
	}
	return ok, nil
}

// Delete implements Store, removing the user index entry in the same batch.
func (s *RedisStore) Delete(ctx context.Context, id string) (bool, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, nil
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+id)
	if rec.Identity != nil {
		pipe.SRem(ctx, userSetKeyPrefix+rec.Identity.UserID.String(), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("delete session record: %w", err)
	}
	return true, nil
}

// deleteUserSessionsScript enumerates and deletes a user's session records
// together with the index set in one atomic step. Reading the set before a
// delete pipeline would race a concurrent Create: an id added between the
// read and EXEC would lose its index entry while its record survives.
var deleteUserSessionsScript = redis.NewScript(`
local ids = redis.call('SMEMBERS', KEYS[1])
for _, id in ipairs(ids) do
	redis.call('DEL', ARGV[1] .. id)
end
redis.call('DEL', KEYS[1])
return #ids`)

// DeleteAllForUser implements Store.
func (s *RedisStore) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := deleteUserSessionsScript.Run(ctx, s.client,
		[]string{userSetKeyPrefix + userID.String()}, sessionKeyPrefix).Int()
	if err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}
	return n, nil
}

// Exists implements Store.
func (s *RedisStore) Exists(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("check session record: %w", err)
	}
	return n > 0, nil
}
