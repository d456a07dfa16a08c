// Package auth mints and verifies session tokens. A token carries only the
// username and role; capabilities are resolved fresh from the permission
// table on every request, never cached in the token.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/TheWildEye/Evidential/internal/domain/custody"
)

type sessionClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration, now func() time.Time) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("session secret is required")
	}
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: now}, nil
}

// Issue signs a session token for a user.
func (m *TokenManager) Issue(user custody.User) (string, error) {
	issuedAt := m.now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.ttl)),
		},
		Role: string(user.Role),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses a session token and returns the embedded identity.
func (m *TokenManager) Verify(tokenString string) (username string, role custody.Role, err error) {
	var claims sessionClaims
	_, err = jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", "", custody.ErrUnauthorized
	}
	if claims.Subject == "" || !custody.KnownRole(custody.Role(claims.Role)) {
		return "", "", custody.ErrUnauthorized
	}
	return claims.Subject, custody.Role(claims.Role), nil
}
