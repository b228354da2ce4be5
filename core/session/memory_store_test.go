package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorshare/authcore/core/session"
)

func TestMemoryStoreCreateGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()

	rec := validRecord(t, session.TypePreSession)
	id, err := store.Create(ctx, rec)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.NotEqual(t, rec.ID, id, "store generates its own id")

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, rec.CSRFSecret, got.CSRFSecret)
	assert.Equal(t, session.TypePreSession, got.Type)

	// Mutating the returned record must not affect the stored copy.
	got.CSRFSecret = "tampered"
	again, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.NotEqual(t, "tampered", again.CSRFSecret)
}

func TestMemoryStoreGetMissing(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	got, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()

	rec := validRecord(t, session.TypePreSession)
	rec.ExpiresAt = time.Now().Add(10 * time.Millisecond)
	id, err := store.Create(ctx, rec)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got, "expired record reads as absent")

	exists, err := store.Exists(ctx, id)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryStoreTouch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()

	rec := validRecord(t, session.TypePreSession)
	rec.LastSeenAt = time.Now().Add(-time.Hour)
	id, err := store.Create(ctx, rec)
	require.NoError(t, err)

	now := time.Now()
	ok, err := store.Touch(ctx, id, now)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.LastSeenAt.Equal(now))

	ok, err = store.Touch(ctx, "nope", now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()

	id, err := store.Create(ctx, validRecord(t, session.TypePreSession))
	require.NoError(t, err)

	ok, err := store.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok, "second delete reports absence")
}

func TestMemoryStoreDeleteAllForUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()

	userID := uuid.New()
	for range 3 {
		rec := validRecord(t, session.TypeSession)
		rec.Identity.UserID = userID
		_, err := store.Create(ctx, rec)
		require.NoError(t, err)
	}

	// An unrelated session and an anonymous one must survive.
	otherID, err := store.Create(ctx, validRecord(t, session.TypeSession))
	require.NoError(t, err)
	anonID, err := store.Create(ctx, validRecord(t, session.TypePreSession))
	require.NoError(t, err)

	n, err := store.DeleteAllForUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, store.Len())

	exists, err := store.Exists(ctx, otherID)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = store.Exists(ctx, anonID)
	require.NoError(t, err)
	assert.True(t, exists)

	n, err = store.DeleteAllForUser(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemoryStoreCleanup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()

	expired := validRecord(t, session.TypeSession)
	expired.ExpiresAt = time.Now().Add(10 * time.Millisecond)
	_, err := store.Create(ctx, expired)
	require.NoError(t, err)

	liveID, err := store.Create(ctx, validRecord(t, session.TypePreSession))
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, 1, store.Cleanup())
	assert.Equal(t, 1, store.Len())

	exists, err := store.Exists(ctx, liveID)
	require.NoError(t, err)
	assert.True(t, exists)
}
