package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/artnebula/artnebula-backend/pkg/config"
	redisclient "github.com/artnebula/artnebula-backend/pkg/redis"
)

// ErrNoSession signals the token was revoked or never issued.
var ErrNoSession = errors.New("session not found")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(userID, tokenID string) string
}

// Manager tracks which minted JWTs still map to a live login session, so
// logout can revoke tokens before they expire.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// Checker exposes the read-only surface needed by middleware.
type Checker interface {
	HasSession(ctx context.Context, userID, tokenID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.SessionTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}

	return &Manager{
		store: client,
		keyer: client,
		ttl:   ttl,
	}, nil
}

// Create records a login session for the user/token pair.
func (m *Manager) Create(ctx context.Context, userID, tokenID string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(tokenID) == "" {
		return fmt.Errorf("user id and token id are required")
	}
	return m.store.Set(ctx, m.keyer.SessionKey(userID, tokenID), "1", m.ttl)
}

// HasSession reports whether the user/token pair still has an active session.
func (m *Manager) HasSession(ctx context.Context, userID, tokenID string) (bool, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(tokenID) == "" {
		return false, fmt.Errorf("user id and token id are required")
	}
	if _, err := m.store.Get(ctx, m.keyer.SessionKey(userID, tokenID)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Revoke deletes the session marker, invalidating the token immediately.
func (m *Manager) Revoke(ctx context.Context, userID, tokenID string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(tokenID) == "" {
		return ErrNoSession
	}
	return m.store.Del(ctx, m.keyer.SessionKey(userID, tokenID))
}

// NewTokenID produces a stable identifier used as the JWT jti/Redis key part.
func NewTokenID() string {
	return uuid.NewString()
}
