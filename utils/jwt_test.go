package utils

import (
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rottenbot/inference-service/config"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	_ = InitLogger(config.AppConfig{LogLevel: "error"})
	os.Exit(m.Run())
}

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("user-123", false, time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserUID)
	assert.False(t, claims.Refresh)
	assert.NotEmpty(t, claims.ID, "every token must carry a jti for revocation checks")
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken("user-123", false, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token)
	require.Error(t, err)
}

func TestParseTokenPreservesRefreshFlag(t *testing.T) {
	token, err := GenerateToken("user-123", true, time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.True(t, claims.Refresh)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	claims := Claims{
		UserUID: "user-123",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "some-jti",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("another-secret"))
	require.NoError(t, err)

	_, err = ParseToken(token)
	require.Error(t, err)
}

func TestParseTokenRejectsUnsignedToken(t *testing.T) {
	claims := Claims{
		UserUID: "user-123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(token)
	require.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token")
	require.Error(t, err)
}
