package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/cropwatch/cropwatch-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret: "secret",
		Issuer: "cropwatch",
		TTL:    720 * time.Hour,
	}
}

func TestMintAndParseSessionToken(t *testing.T) {
	cfg := testSessionConfig()
	now := time.Now().UTC()

	token, err := MintSessionToken(cfg, now, SessionTokenPayload{UserID: 9, Username: "demo", SessionID: "sid-1"})
	require.NoError(t, err)

	claims, err := ParseSessionToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, uint(9), claims.UserID)
	assert.Equal(t, "demo", claims.Username)
	assert.Equal(t, "sid-1", claims.ID)
	assert.Equal(t, cfg.Issuer, claims.Issuer)
	assert.WithinDuration(t, now.Add(cfg.TTL), claims.ExpiresAt.Time, time.Second)
}

func TestMintSessionTokenValidatesInput(t *testing.T) {
	cfg := testSessionConfig()
	now := time.Now()

	_, err := MintSessionToken(cfg, now, SessionTokenPayload{Username: "demo", SessionID: "sid"})
	assert.Error(t, err, "user id required")

	_, err = MintSessionToken(cfg, now, SessionTokenPayload{UserID: 1, SessionID: "  "})
	assert.Error(t, err, "session id required")

	noSecret := cfg
	noSecret.Secret = ""
	_, err = MintSessionToken(noSecret, now, SessionTokenPayload{UserID: 1, SessionID: "sid"})
	assert.Error(t, err)
}

func TestParseSessionTokenInvalidSignature(t *testing.T) {
	cfg := testSessionConfig()
	token, err := MintSessionToken(cfg, time.Now(), SessionTokenPayload{UserID: 1, SessionID: "sid"})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + ".invalidsig"

	_, err = ParseSessionToken(cfg, tampered)
	assert.Error(t, err)

	other := cfg
	other.Secret = "other"
	_, err = ParseSessionToken(other, token)
	assert.Error(t, err)
}

func TestParseSessionTokenExpired(t *testing.T) {
	cfg := testSessionConfig()
	cfg.TTL = time.Minute
	token, err := MintSessionToken(cfg, time.Now().Add(-time.Hour), SessionTokenPayload{UserID: 1, SessionID: "sid"})
	require.NoError(t, err)

	_, err = ParseSessionToken(cfg, token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseSessionTokenRejectsOtherIssuer(t *testing.T) {
	cfg := testSessionConfig()
	token, err := MintSessionToken(cfg, time.Now(), SessionTokenPayload{UserID: 1, SessionID: "sid"})
	require.NoError(t, err)

	other := cfg
	other.Issuer = "someone-else"
	_, err = ParseSessionToken(other, token)
	assert.Error(t, err)
}
