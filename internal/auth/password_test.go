package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordAndCheck(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)
	// bcrypt output is self-describing: algorithm marker + cost prefix
	assert.True(t, strings.HasPrefix(hash, "$2"))

	assert.True(t, CheckPassword("correct horse battery staple", hash))
	assert.False(t, CheckPassword("wrong password", hash))
}

func TestHashPasswordEmpty(t *testing.T) {
	_, err := HashPassword("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestHashPasswordLongInputTruncated(t *testing.T) {
	long := strings.Repeat("a", 100)
	hash, err := HashPassword(long)
	require.NoError(t, err)

	// everything past byte 72 is ignored on both sides
	assert.True(t, CheckPassword(long, hash))
	assert.True(t, CheckPassword(strings.Repeat("a", 72), hash))
	assert.False(t, CheckPassword(strings.Repeat("a", 71), hash))
}

func TestHashPasswordDistinctSalts(t *testing.T) {
	h1, err := HashPassword("same password")
	require.NoError(t, err)
	h2, err := HashPassword("same password")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
