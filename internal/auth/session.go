package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"resumeforge/internal/config"
)

// SessionService issues and validates the signed tokens carried by the
// session cookie. Each token binds one authenticated username.
type SessionService struct {
	secret []byte
	ttl    time.Duration
}

// SessionClaims are the business fields carried inside the session token.
type SessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// NewSessionService builds the service from configuration.
func NewSessionService(cfg config.SessionConfig) (*SessionService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("session secret is required")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &SessionService{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
	}, nil
}

// IssueToken signs a session token for the given username.
func (s *SessionService) IssueToken(username string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses a session token and returns its claims.
func (s *SessionService) ValidateToken(tokenString string) (*SessionClaims, error) {
	if tokenString == "" {
		return nil, errors.New("token string is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Username == "" {
		return nil, errors.New("session token missing username")
	}

	return claims, nil
}

// TTL exposes the configured session lifetime for cookie max-age.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}
