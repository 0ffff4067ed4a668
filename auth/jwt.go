/*
jwt.go - JWT token issuance and validation

PURPOSE:
  Issues HS256 tokens carrying the user's id, email, and role, and validates
  incoming bearer tokens. The role claim is what the API middleware gates
  routes on, so tokens must be re-issued when a role changes.

REFRESH:
  Refresh takes a still-valid token and issues a fresh one with the same
  identity claims and a new expiry. Expired tokens cannot be refreshed.

SEE ALSO:
  - api/middleware.go: Extracts and validates bearer tokens
  - auth/password.go: Credential verification before issuance
*/
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/warp/mission-engine/core"
	"github.com/warp/mission-engine/user"
)

// JWTManager handles JWT token generation and validation.
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
}

// Claims represents the custom JWT claims for a user session.
type Claims struct {
	UserID string    `json:"user_id"`
	Email  string    `json:"email"`
	Role   user.Role `json:"role"`
	jwt.RegisteredClaims
}

// NewJWTManager creates a new JWT manager with the given secret and token
// duration. secretKey should be a strong random string (e.g., 32 bytes).
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
	}
}

// Generate creates a new JWT token for the given user.
func (m *JWTManager) Generate(u *user.User) (string, error) {
	return m.sign(&Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
	})
}

// Refresh validates the given token and issues a fresh one with the same
// identity claims and a renewed expiry.
func (m *JWTManager) Refresh(tokenString string) (string, error) {
	claims, err := m.Validate(tokenString)
	if err != nil {
		return "", err
	}
	return m.sign(&Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	})
}

func (m *JWTManager) sign(claims *Claims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Validate parses and validates a JWT token, returning the claims if valid.
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Verify the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
	)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, core.ErrInvalidToken
	}

	return claims, nil
}
