package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardshop/hotspot-api/internal/models"
	appErrors "github.com/cardshop/hotspot-api/pkg/errors"
)

func signTestToken(t *testing.T, method jwt.SigningMethod, secret string, claims models.JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func testClaims(organization string, ttl time.Duration) models.JWTClaims {
	return models.JWTClaims{
		UserID:       "user-1",
		Organization: organization,
		Role:         models.RoleManager,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
}

func TestTokenServiceValidateToken(t *testing.T) {
	svc := NewTokenService("secret")
	claims, err := svc.ValidateToken(signTestToken(t, jwt.SigningMethodHS256, "secret", testClaims("kiwix", time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "kiwix", claims.Organization)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestTokenServiceRejectsInvalidTokens(t *testing.T) {
	svc := NewTokenService("secret")
	tokens := []string{
		signTestToken(t, jwt.SigningMethodHS256, "other", testClaims("kiwix", time.Hour)),
		signTestToken(t, jwt.SigningMethodHS512, "secret", testClaims("kiwix", time.Hour)),
		signTestToken(t, jwt.SigningMethodHS256, "secret", testClaims("kiwix", -time.Hour)),
		signTestToken(t, jwt.SigningMethodHS256, "secret", testClaims("", time.Hour)),
		"not-a-jwt",
	}
	for _, token := range tokens {
		_, err := svc.ValidateToken(token)
		assert.True(t, errors.Is(err, appErrors.ErrUnauthorized), token)
	}
}
