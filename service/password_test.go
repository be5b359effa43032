package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	digest, err := HashPassword("secret123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", digest)

	assert.NoError(t, ComparePasswordAndHash("secret123", digest))
	assert.ErrorIs(t, ComparePasswordAndHash("secret124", digest), ErrMismatchedHashAndPassword)

	other, err := HashPassword("secret123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, digest, other)
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestComparePasswordAndHash_BadDigest(t *testing.T) {
	err := ComparePasswordAndHash("secret123", "not-a-digest")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMismatchedHashAndPassword)
}
