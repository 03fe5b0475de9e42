package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cropwatch/cropwatch-backend/pkg/config"
	redisclient "github.com/cropwatch/cropwatch-backend/pkg/redis"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when the session id is unknown, revoked or expired.
var ErrSessionNotFound = errors.New("session not found")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
}

// Manager stores login sessions in Redis, keyed by session id and holding the user id.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.SessionConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{
		store: client,
		keyer: client,
		ttl:   cfg.TTL,
	}, nil
}

// TTL is how long a session stays valid after creation.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create opens a session for userID and returns its id.
func (m *Manager) Create(ctx context.Context, userID uint) (string, error) {
	if userID == 0 {
		return "", fmt.Errorf("user id is required")
	}
	sessionID := NewSessionID()
	if err := m.store.Set(ctx, m.keyer.SessionKey(sessionID), strconv.FormatUint(uint64(userID), 10), m.ttl); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}
	return sessionID, nil
}

// Lookup resolves the user bound to sessionID.
func (m *Manager) Lookup(ctx context.Context, sessionID string) (uint, error) {
	if strings.TrimSpace(sessionID) == "" {
		return 0, ErrSessionNotFound
	}
	stored, err := m.store.Get(ctx, m.keyer.SessionKey(sessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return 0, ErrSessionNotFound
		}
		return 0, err
	}
	userID, err := strconv.ParseUint(stored, 10, 64)
	if err != nil || userID == 0 {
		return 0, ErrSessionNotFound
	}
	return uint(userID), nil
}

// Revoke deletes the session. Revoking an unknown session is not an error.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.Del(ctx, m.keyer.SessionKey(sessionID))
}

// NewSessionID produces the identifier used as the JWT jti and Redis key.
func NewSessionID() string {
	return uuid.NewString()
}
