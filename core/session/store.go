package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
)

// maxIDAttempts bounds how many identifiers a store mints before giving up
// with ErrIDGeneration. Collisions on 256-bit identifiers are effectively
// impossible; the bound exists so a misbehaving backend cannot spin forever.
const maxIDAttempts = 5

// Store is the replicated persistence layer behind the manager. All
// implementations share the same contract:
//
//   - Create generates the record ID itself and inserts if-absent, so an
//     in-flight ID can never overwrite a concurrent record.
//   - Get returns (nil, nil) for missing or expired records. A record that
//     fails to decode is deleted in place and reported the same way; only
//     infrastructure failures surface as errors.
//   - Expiry enforcement uses the record's absolute deadline. Idle expiry is
//     the manager's concern.
type Store interface {
	// Create inserts the record under a freshly generated unique ID and
	// returns that ID. The caller's Record.ID field is ignored.
	Create(ctx context.Context, rec Record) (string, error)

	// Get loads a record by ID.
	Get(ctx context.Context, id string) (*Record, error)

	// Touch sets the record's last-seen timestamp without extending its
	// absolute deadline. It reports whether the record existed.
	Touch(ctx context.Context, id string, at time.Time) (bool, error)

	// Delete removes a record, reporting whether it existed.
	Delete(ctx context.Context, id string) (bool, error)

	// DeleteAllForUser removes every authenticated record belonging to the
	// user and returns how many were removed.
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int, error)

	// Exists reports whether a live record with the given ID is present.
	Exists(ctx context.Context, id string) (bool, error)
}

// newID returns a 256-bit random identifier in URL-safe base64.
func newID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
