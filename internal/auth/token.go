// Package auth issues and verifies the signed session tokens that carry a
// user's identity and role snapshot between requests. Nothing is persisted
// server-side; the token is the whole session.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskflow/internal/apperr"
	"taskflow/internal/model"
	"taskflow/internal/policy"
)

// Claims embeds the registered JWT claims plus the identity snapshot.
// Role reflects the user row at issue time, not live state.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and parses session tokens with a process-wide secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a token embedding the user's id and current role.
func (m *TokenManager) Issue(user *model.User) (string, error) {
	now := m.now()
	claims := Claims{
		UserID: user.ID,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns the actor it encodes. Any failure —
// bad signature, expiry, wrong algorithm, malformed role — collapses to
// ErrUnauthenticated; callers never learn why a token was rejected.
func (m *TokenManager) Parse(tokenString string) (policy.Actor, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return policy.Actor{}, apperr.ErrUnauthenticated
	}
	role := model.Role(claims.Role)
	if claims.UserID == "" || !role.Valid() {
		return policy.Actor{}, apperr.ErrUnauthenticated
	}
	return policy.Actor{ID: claims.UserID, Role: role}, nil
}
