package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eventplanner/internal/cache"
)

const sessionKeyPrefix = "session:"

// ErrSessionNotFound is returned when a session is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// Session is the server-side record of a signed-in user. It never carries
// credentials.
type Session struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"userId"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionStore defines the interface for session storage operations.
type SessionStore interface {
	Save(ctx context.Context, session *Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Session, error)
	Touch(ctx context.Context, id string, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// CacheSessionStore keeps sessions in the cache under session:<id>.
type CacheSessionStore struct {
	cache *cache.Client
}

// Ensure CacheSessionStore implements SessionStore
var _ SessionStore = (*CacheSessionStore)(nil)

// NewSessionStore creates a new session store.
func NewSessionStore(cache *cache.Client) *CacheSessionStore {
	return &CacheSessionStore{cache: cache}
}

// Save stores a session with TTL.
func (s *CacheSessionStore) Save(ctx context.Context, session *Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.cache.Set(ctx, sessionKeyPrefix+session.ID, payload, ttl)
}

// Get retrieves a session.
func (s *CacheSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.cache.Get(ctx, sessionKeyPrefix+id)
	if err != nil || data == nil {
		return nil, ErrSessionNotFound
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// Touch extends a session's lifetime.
func (s *CacheSessionStore) Touch(ctx context.Context, id string, ttl time.Duration) error {
	return s.cache.Expire(ctx, sessionKeyPrefix+id, ttl)
}

// Delete removes a session.
func (s *CacheSessionStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, sessionKeyPrefix+id)
}
