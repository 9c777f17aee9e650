// Package auth implements the single-operator login: bcrypt credentials
// from configuration, bearer tokens stored in Redis with a TTL.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials rejects a failed login without revealing which part
// was wrong.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

const tokenPrefix = "session:"

// Service wraps authentication business rules.
type Service struct {
	client       *redis.Client
	username     string
	passwordHash string
	ttl          time.Duration
}

// NewService constructs a Service. passwordHash is a bcrypt hash, never the
// plain password.
func NewService(client *redis.Client, username, passwordHash string, ttl time.Duration) *Service {
	return &Service{
		client:       client,
		username:     username,
		passwordHash: passwordHash,
		ttl:          ttl,
	}
}

// TTL reports how long issued tokens live.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Authenticate validates the operator credentials and issues a bearer token.
func (s *Service) Authenticate(ctx context.Context, username, password string) (string, error) {
	if username != s.username {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := uuid.NewString()
	if err := s.client.Set(ctx, tokenPrefix+token, username, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Verify reports whether the token names a live session.
func (s *Service) Verify(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	err := s.client.Get(ctx, tokenPrefix+token).Err()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Revoke removes the session, token reuse fails afterwards.
func (s *Service) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, tokenPrefix+token).Err()
}
