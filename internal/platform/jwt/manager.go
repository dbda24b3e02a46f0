// Package jwtmw provides session token issuance and the HTTP authentication
// middleware built on it.
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"learnhub_backend/internal/feature/auth/domain/entity"
)

// ErrInvalidToken is returned for tampered, expired or malformed tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the session token payload: identity plus role, with standard
// registered claims for issue and expiry times.
type Claims struct {
	UserID uint        `json:"uid"`
	Role   entity.Role `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and verifies session tokens with a server secret.
type Manager struct {
	secret     []byte
	expiration time.Duration
}

// NewManager creates a Manager with the provided secret and token lifetime.
func NewManager(secret string, expiration time.Duration) *Manager {
	return &Manager{
		secret:     []byte(secret),
		expiration: expiration,
	}
}

// Generate creates a signed session token for the given user.
func (m *Manager) Generate(userID uint, role entity.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature and expiry and returns the claims.
// Tokens signed with anything but HMAC are rejected.
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
