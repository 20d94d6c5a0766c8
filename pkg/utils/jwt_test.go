package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-16-chars"

func TestNewJWTManager_ShortSecret(t *testing.T) {
	_, err := NewJWTManager("short", 24)
	require.Error(t, err)
}

func TestJWT_RoundTrip(t *testing.T) {
	m, err := NewJWTManager(testSecret, 24)
	require.NoError(t, err)

	userID := uuid.New()
	token, err := m.Generate(userID, "reader", "moderator", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "reader", claims.Username)
	assert.Equal(t, "moderator", claims.Role)
	assert.True(t, claims.Superuser)
}

func TestJWT_WrongSecretRejected(t *testing.T) {
	m1, err := NewJWTManager(testSecret, 24)
	require.NoError(t, err)
	m2, err := NewJWTManager("another-secret-16-chars-long", 24)
	require.NoError(t, err)

	token, err := m1.Generate(uuid.New(), "reader", "user", false)
	require.NoError(t, err)

	_, err = m2.Validate(token)
	require.Error(t, err)
}

func TestJWT_TamperedTokenRejected(t *testing.T) {
	m, err := NewJWTManager(testSecret, 24)
	require.NoError(t, err)

	token, err := m.Generate(uuid.New(), "reader", "user", false)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = m.Validate(tampered)
	require.Error(t, err)
}

func TestJWT_ExpiredTokenRejected(t *testing.T) {
	m, err := NewJWTManager(testSecret, 24)
	require.NoError(t, err)

	// Sign an already-expired token with the same secret
	now := time.Now()
	claims := TokenClaims{
		Username: "reader",
		Role:     "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
			Issuer:    "api-yamdb",
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = m.Validate(signed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestJWT_WrongIssuerRejected(t *testing.T) {
	m, err := NewJWTManager(testSecret, 24)
	require.NoError(t, err)

	claims := TokenClaims{
		Username: "reader",
		Role:     "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    "someone-else",
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = m.Validate(signed)
	require.Error(t, err)
}
