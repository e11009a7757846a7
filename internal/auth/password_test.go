package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, VerifyPassword("correct horse battery staple", hash))
	assert.False(t, VerifyPassword("wrong password", hash))
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	hash1, err := HashPassword("same-input")
	require.NoError(t, err)
	hash2, err := HashPassword("same-input")
	require.NoError(t, err)

	// Random salt means two hashes of the same input differ
	assert.NotEqual(t, hash1, hash2)
	assert.True(t, VerifyPassword("same-input", hash1))
	assert.True(t, VerifyPassword("same-input", hash2))
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	// Corrupted stored value must fail verification, not panic
	assert.False(t, VerifyPassword("anything", "not-a-bcrypt-hash"))
	assert.False(t, VerifyPassword("anything", ""))
}
