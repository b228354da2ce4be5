package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorshare/authcore/pkg/password"
)

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		hash, err := password.Hash("correct horse battery staple")
		require.NoError(t, err)
		require.NotEmpty(t, hash)

		assert.NoError(t, password.Verify(hash, "correct horse battery staple"))
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()

		hash, err := password.Hash("correct horse battery staple")
		require.NoError(t, err)

		assert.ErrorIs(t, password.Verify(hash, "wrong password!"), password.ErrMismatch)
	})

	t.Run("hashes are salted", func(t *testing.T) {
		t.Parallel()

		h1, err := password.Hash("same password!")
		require.NoError(t, err)
		h2, err := password.Hash("same password!")
		require.NoError(t, err)

		assert.NotEqual(t, h1, h2)
	})

	t.Run("too short", func(t *testing.T) {
		t.Parallel()

		_, err := password.Hash("short")
		assert.ErrorIs(t, err, password.ErrTooShort)
	})

	t.Run("too long", func(t *testing.T) {
		t.Parallel()

		_, err := password.Hash(strings.Repeat("x", 73))
		assert.ErrorIs(t, err, password.ErrTooLong)
	})

	t.Run("malformed hash", func(t *testing.T) {
		t.Parallel()

		err := password.Verify("not-a-bcrypt-hash", "whatever password")
		require.Error(t, err)
		assert.NotErrorIs(t, err, password.ErrMismatch)
	})
}
