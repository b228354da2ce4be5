package session_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorshare/authcore/core/csrf"
	"github.com/motorshare/authcore/core/session"
)

func validRecord(t *testing.T, typ session.Type) session.Record {
	t.Helper()

	secret, err := csrf.GenerateSecret()
	require.NoError(t, err)

	now := time.Now()
	rec := session.Record{
		ID:         "record-id",
		Type:       typ,
		IP:         "192.0.2.1",
		UserAgent:  "test-agent/1.0",
		CSRFSecret: secret,
		CreatedAt:  now,
		LastSeenAt: now,
		ExpiresAt:  now.Add(24 * time.Hour),
	}
	if typ == session.TypeSession {
		rec.Identity = &session.Identity{
			UserID:    uuid.New(),
			Username:  "alice",
			Email:     "alice@example.com",
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	return rec
}

func TestRecordValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid pre-session", func(t *testing.T) {
		t.Parallel()
		rec := validRecord(t, session.TypePreSession)
		assert.NoError(t, rec.Validate())
	})

	t.Run("valid session", func(t *testing.T) {
		t.Parallel()
		rec := validRecord(t, session.TypeSession)
		assert.NoError(t, rec.Validate())
	})

	t.Run("missing id", func(t *testing.T) {
		t.Parallel()
		rec := validRecord(t, session.TypePreSession)
		rec.ID = ""
		assert.ErrorIs(t, rec.Validate(), session.ErrInvalidRecord)
	})

	t.Run("missing csrf secret", func(t *testing.T) {
		t.Parallel()
		rec := validRecord(t, session.TypePreSession)
		rec.CSRFSecret = ""
		assert.ErrorIs(t, rec.Validate(), session.ErrInvalidRecord)
	})

	t.Run("session without identity", func(t *testing.T) {
		t.Parallel()
		rec := validRecord(t, session.TypeSession)
		rec.Identity = nil
		assert.ErrorIs(t, rec.Validate(), session.ErrInvalidRecord)
	})

	t.Run("session with nil user id", func(t *testing.T) {
		t.Parallel()
		rec := validRecord(t, session.TypeSession)
		rec.Identity.UserID = uuid.Nil
		assert.ErrorIs(t, rec.Validate(), session.ErrInvalidRecord)
	})

	t.Run("pre-session carrying identity", func(t *testing.T) {
		t.Parallel()
		rec := validRecord(t, session.TypeSession)
		rec.Type = session.TypePreSession
		assert.ErrorIs(t, rec.Validate(), session.ErrInvalidRecord)
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()
		rec := validRecord(t, session.TypePreSession)
		rec.Type = session.Type("weird")
		assert.ErrorIs(t, rec.Validate(), session.ErrInvalidRecord)
	})
}

func TestRecordIsExpired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	rec := session.Record{
		LastSeenAt: now,
		ExpiresAt:  now.Add(time.Hour),
	}

	assert.False(t, rec.IsExpired(now, 30*time.Minute))
	assert.False(t, rec.IsExpired(now.Add(29*time.Minute), 30*time.Minute))
	assert.True(t, rec.IsExpired(now.Add(30*time.Minute), 30*time.Minute), "idle deadline is inclusive")
	assert.True(t, rec.IsExpired(now.Add(time.Hour), 30*time.Minute), "absolute deadline is inclusive")
	assert.True(t, rec.IsExpired(now.Add(2*time.Hour), 0), "absolute applies with idle disabled")
	assert.False(t, rec.IsExpired(now.Add(45*time.Minute), 0), "idle disabled")
}

func TestRecordMatchesFingerprint(t *testing.T) {
	t.Parallel()

	rec := session.Record{IP: "192.0.2.1", UserAgent: "test-agent/1.0"}

	assert.True(t, rec.MatchesFingerprint("192.0.2.1", "test-agent/1.0"))
	assert.False(t, rec.MatchesFingerprint("192.0.2.2", "test-agent/1.0"))
	assert.False(t, rec.MatchesFingerprint("192.0.2.1", "test-agent/2.0"))
	assert.False(t, rec.MatchesFingerprint("", ""))
}

func TestRecordIsAuthenticated(t *testing.T) {
	t.Parallel()

	pre := validRecord(t, session.TypePreSession)
	assert.False(t, pre.IsAuthenticated())

	sess := validRecord(t, session.TypeSession)
	assert.True(t, sess.IsAuthenticated())
}
