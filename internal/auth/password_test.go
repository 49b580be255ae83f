package auth_test

import (
	"strings"
	"testing"

	"github.com/hugh/go-collab/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher(t *testing.T) {
	h := auth.NewHasher(bcrypt.MinCost)

	t.Run("round trip", func(t *testing.T) {
		hash, err := h.Hash("pw123")
		require.NoError(t, err)
		assert.NotEqual(t, "pw123", hash)
		assert.True(t, h.Verify("pw123", hash))
		assert.False(t, h.Verify("pw124", hash))
	})

	t.Run("salted", func(t *testing.T) {
		a, err := h.Hash("same")
		require.NoError(t, err)
		b, err := h.Hash("same")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("rejects passwords longer than 72 bytes", func(t *testing.T) {
		_, err := h.Hash(strings.Repeat("x", 73))
		assert.ErrorIs(t, err, auth.ErrPasswordTooLong)
	})

	t.Run("garbage hash never verifies", func(t *testing.T) {
		assert.False(t, h.Verify("pw123", "not-a-hash"))
	})

	t.Run("out of range cost falls back to default", func(t *testing.T) {
		hash, err := auth.NewHasher(99).Hash("pw")
		require.NoError(t, err)
		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.DefaultCost, cost)
	})
}
