package security_test

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/cropwatch/cropwatch-backend/pkg/config"
	"github.com/cropwatch/cropwatch-backend/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := security.HashPassword("demo123", testPasswordConfig())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=32768,t=1,p=1$"))

	ok, err := security.VerifyPassword("demo123", hash)
	require.NoError(t, err)
	assert.True(t, ok, "correct password should verify")

	ok, err = security.VerifyPassword("bogus-password", hash)
	require.NoError(t, err)
	assert.False(t, ok, "wrong password should not verify")
}

func TestHashPasswordIsSalted(t *testing.T) {
	first, err := security.HashPassword("demo123", testPasswordConfig())
	require.NoError(t, err)
	second, err := security.HashPassword("demo123", testPasswordConfig())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := security.HashPassword("", testPasswordConfig())
	assert.Error(t, err)
}

func TestVerifyPasswordBadHash(t *testing.T) {
	_, err := security.VerifyPassword("irrelevant", "not-a-hash")
	assert.ErrorIs(t, err, security.ErrInvalidHash)
}

func TestVerifyLegacyDigestAndRehash(t *testing.T) {
	sum := sha256.Sum256([]byte("demo123"))
	legacy := hex.EncodeToString(sum[:])

	ok, err := security.VerifyPassword("demo123", legacy)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = security.VerifyPassword("demo1234", legacy)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, security.NeedsRehash(legacy, testPasswordConfig()))
}

func TestNeedsRehashComparesParams(t *testing.T) {
	cfg := testPasswordConfig()
	hash, err := security.HashPassword("demo123", cfg)
	require.NoError(t, err)
	assert.False(t, security.NeedsRehash(hash, cfg))

	stronger := cfg
	stronger.ArgonTime = 3
	assert.True(t, security.NeedsRehash(hash, stronger))
}
