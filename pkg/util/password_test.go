package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("my-password")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "my-password", hash)

	// Hashing is salted, so the same input yields different hashes
	hash2, err := HashPassword("my-password")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct-password")
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "correct-password"))
	assert.False(t, VerifyPassword(hash, "wrong-password"))
	assert.False(t, VerifyPassword("not-a-hash", "correct-password"))
}

func TestSecureCompare(t *testing.T) {
	assert.True(t, SecureCompare("admin", "admin"))
	assert.False(t, SecureCompare("admin", "Admin"))
	assert.False(t, SecureCompare("admin", "admin "))
	assert.False(t, SecureCompare("", "admin"))
}

func TestGenerateClaimReference(t *testing.T) {
	ref := GenerateClaimReference()
	assert.Len(t, ref, 10)
	assert.Equal(t, "CLM-", ref[:4])
}
