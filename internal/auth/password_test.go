package auth_test

import (
	"strings"
	"testing"

	"github.com/crewbase/crewbase/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hasher := auth.NewPasswordHasher()

	hash, err := hasher.Hash("correct_password")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.NotContains(t, hash, "correct_password")

	ok, err := hasher.Verify("correct_password", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify("wrong_password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHashIsSalted(t *testing.T) {
	hasher := auth.NewPasswordHasher()

	first, err := hasher.Hash("correct_password")
	require.NoError(t, err)
	second, err := hasher.Hash("correct_password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	hasher := auth.NewPasswordHasher()

	_, err := hasher.Verify("whatever", "not-a-hash")
	assert.Error(t, err)
}
