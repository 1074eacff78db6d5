package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rottenbot/inference-service/config"
)

// Claims defines the claim set the auth service embeds in its tokens. The
// Refresh flag discriminates refresh tokens from access tokens; only access
// tokens are accepted here.
type Claims struct {
	UserUID string `json:"user_uid"`
	Refresh bool   `json:"refresh"`
	jwt.RegisteredClaims
}

func signingMethod(alg string) *jwt.SigningMethodHMAC {
	switch alg {
	case "HS384":
		return jwt.SigningMethodHS384
	case "HS512":
		return jwt.SigningMethodHS512
	default:
		return jwt.SigningMethodHS256
	}
}

// GenerateToken signs a token the same way the auth service does. The
// inference service never hands these out; this exists for local tooling.
func GenerateToken(userUID string, refresh bool, duration time.Duration) (string, error) {
	cfg := config.Get()

	claims := Claims{
		UserUID: userUID,
		Refresh: refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(signingMethod(cfg.JWTAlgorithm), claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken validates a token's signature and expiry against the shared
// secret and returns its claims.
func ParseToken(tokenStr string) (*Claims, error) {
	cfg := config.Get()
	expected := signingMethod(cfg.JWTAlgorithm)

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != expected.Alg() {
			return nil, fmt.Errorf("unexpected signing method %s", token.Method.Alg())
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
