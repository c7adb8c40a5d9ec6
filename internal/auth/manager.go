package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"eventplanner/internal/metrics"
	"eventplanner/internal/model"
)

// Manager issues, resolves and ends sessions.
type Manager struct {
	tokens   *JWTService
	sessions SessionStore
	ttl      time.Duration
	now      func() time.Time
}

// NewManager creates a session manager. Sessions idle for longer than ttl expire.
func NewManager(tokens *JWTService, sessions SessionStore, ttl time.Duration) *Manager {
	return &Manager{tokens: tokens, sessions: sessions, ttl: ttl, now: time.Now}
}

// TTL returns the idle lifetime of a session.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Start creates a session for user and returns it with its signed token.
func (m *Manager) Start(ctx context.Context, user *model.User) (*Session, string, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, "", fmt.Errorf("generate session id: %w", err)
	}

	now := m.now()
	session := &Session{
		ID:        id,
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: now,
	}
	if err := m.sessions.Save(ctx, session, m.ttl); err != nil {
		return nil, "", fmt.Errorf("store session: %w", err)
	}

	// The token outlives a single idle window; the server-side record is
	// what actually expires.
	token, err := m.tokens.GenerateSessionToken(id, user.ID, now, now.Add(30*m.ttl))
	if err != nil {
		return nil, "", fmt.Errorf("sign session token: %w", err)
	}

	metrics.SessionsCreated.Inc()
	return session, token, nil
}

// Resolve validates token, loads its session and slides its expiry.
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	session, err := m.sessions.Get(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if session.UserID != claims.UserID {
		return nil, ErrSessionNotFound
	}

	_ = m.sessions.Touch(ctx, session.ID, m.ttl)
	return session, nil
}

// End deletes a session.
func (m *Manager) End(ctx context.Context, sessionID string) error {
	return m.sessions.Delete(ctx, sessionID)
}

func newSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
