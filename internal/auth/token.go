package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/learnlingo/learnlingo/internal/shared"
)

// Claims are the access token claims issued by the auth service.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier validates HS256 access tokens.
type TokenVerifier struct {
	secret   []byte
	audience string
	leeway   time.Duration
}

// NewTokenVerifier builds a verifier. An empty audience disables the aud check.
func NewTokenVerifier(secret, audience string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), audience: audience, leeway: 30 * time.Second}
}

// Verify parses the token and returns its claims. Any failure is reported as
// shared.ErrUnauthorized.
func (v *TokenVerifier) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, fmt.Errorf("auth: empty token: %w", shared.ErrUnauthorized)
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("auth: verify token: %w: %w", shared.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("auth: verify token: %w", shared.ErrUnauthorized)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, fmt.Errorf("auth: token subject: %w", errors.Join(shared.ErrUnauthorized, err))
	}
	return claims, nil
}

// UserID returns the subject as a user id.
func (c *Claims) UserID() uuid.UUID {
	id, _ := uuid.Parse(c.Subject)
	return id
}
