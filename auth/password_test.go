package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("", "anything"))
}

func TestNewBadgeToken(t *testing.T) {
	a := NewBadgeToken()
	b := NewBadgeToken()
	assert.True(t, strings.HasPrefix(a, "TC-"))
	assert.NotEqual(t, a, b)
}
