// internal/auth/session.go
package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Sessions signs and verifies the anonymous session tokens handed to players.
// The token's "sub" claim is the session ID.
type Sessions struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey

	// ttl is how long a token stays valid; 0 means it never expires.
	ttl time.Duration
	now func() time.Time
}

// NewSessions generates a fresh ed25519 key pair. Tokens issued by one process
// are therefore not valid in another.
func NewSessions(ttl time.Duration) (*Sessions, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ed25519 key pair: %w", err)
	}
	return &Sessions{
		privateKey: privateKey,
		publicKey:  publicKey,
		ttl:        ttl,
		now:        time.Now,
	}, nil
}

// TTL is the configured token lifetime.
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

// Issue creates a new session ID and its signed token.
func (s *Sessions) Issue() (uuid.UUID, string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("failed to generate session id: %w", err)
	}
	token, err := s.CreateJWT(id)
	if err != nil {
		return uuid.Nil, "", err
	}
	return id, token, nil
}

// CreateJWT signs a token with "sub" = sessionID and, if a TTL is set, an "exp" claim.
func (s *Sessions) CreateJWT(sessionID uuid.UUID) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": sessionID.String(),
		"iat": now.Unix(),
	}
	if s.ttl > 0 {
		claims["exp"] = now.Add(s.ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// AuthenticateJWT verifies a token and returns the session ID it carries.
func (s *Sessions) AuthenticateJWT(tokenString string) (uuid.UUID, error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.publicKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return uuid.Nil, fmt.Errorf("jwt parse error: %w", err)
	}
	if !t.Valid {
		return uuid.Nil, fmt.Errorf("invalid token")
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid jwt claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("missing sub in jwt")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid session id in token: %w", err)
	}
	return id, nil
}
