package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndCompare(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.True(t, h.Compare("secret1", hash))
	assert.False(t, h.Compare("secret2", hash))
	assert.False(t, h.Compare("secret1", "not-a-bcrypt-hash"))
}

func TestHasher_SaltedHashesDiffer(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Compare("same", a))
	assert.True(t, h.Compare("same", b))
}

func TestNewHasher_CostBounds(t *testing.T) {
	assert.Equal(t, DefaultBcryptCost, NewHasher(0).Cost())
	assert.Equal(t, DefaultBcryptCost, NewHasher(bcrypt.MaxCost+1).Cost())
	assert.Equal(t, 12, NewHasher(12).Cost())
}

func TestHasher_HashUsesConfiguredCost(t *testing.T) {
	h := NewHasher(5)
	hash, err := h.Hash("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 5, cost)
}
