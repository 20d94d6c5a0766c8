package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims is the JWT payload issued on a successful confirmation-code
// exchange. The subject carries the user id; username, role and superuser
// ride along so the auth middleware never needs a database lookup.
type TokenClaims struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	Superuser bool   `json:"superuser"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies HS256 access tokens.
type JWTManager struct {
	secret []byte
	expiry time.Duration
}

func NewJWTManager(secret string, expiryHours int) (*JWTManager, error) {
	if len(secret) < 16 {
		return nil, errors.New("jwt secret must be at least 16 characters")
	}
	if expiryHours <= 0 {
		expiryHours = 24
	}
	return &JWTManager{
		secret: []byte(secret),
		expiry: time.Duration(expiryHours) * time.Hour,
	}, nil
}

// Generate creates and signs a token bound to the user's identity and role.
func (m *JWTManager) Generate(userID uuid.UUID, username, role string, superuser bool) (string, error) {
	now := time.Now()

	claims := TokenClaims{
		Username:  username,
		Role:      role,
		Superuser: superuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			Issuer:    "api-yamdb",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string, returning its claims.
// Rejects anything not signed with HS256 and anything expired.
func (m *JWTManager) Validate(tokenStr string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&TokenClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("api-yamdb"),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token expired")
		}
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	return claims, nil
}
