package utils_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataroom-ai/dataroom-server/utils"
)

func TestGenerateOpaqueToken(t *testing.T) {
	a, err := utils.GenerateOpaqueToken()
	require.NoError(t, err)
	b, err := utils.GenerateOpaqueToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotEmpty(t, a)
	// URL-safe: no padding or characters that need escaping in a link.
	assert.False(t, strings.ContainsAny(a, "+/="))
}

func TestResetTokenRoundTrip(t *testing.T) {
	token, err := utils.GenerateOpaqueToken()
	require.NoError(t, err)

	hash, err := utils.HashResetToken(token)
	require.NoError(t, err)

	assert.True(t, utils.VerifyResetToken(hash, token))
	assert.False(t, utils.VerifyResetToken(hash, "wrong"))
	assert.False(t, utils.VerifyResetToken("", token))
	assert.False(t, utils.VerifyResetToken(hash, ""))
}

func TestHashResetToken_Empty(t *testing.T) {
	_, err := utils.HashResetToken("")
	assert.Error(t, err)
}
