package services

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kendall-kelly/dress-orders-api/models"
)

// SessionManager issues and validates admin tokens for the single admin password.
// Sessions live in memory only and are lost on restart.
type SessionManager struct {
	password string
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]models.AdminSession
}

// SessionOption configures a SessionManager
type SessionOption func(*SessionManager)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) {
		m.now = now
	}
}

// NewSessionManager creates a session manager for password with the given token lifetime
func NewSessionManager(password string, ttl time.Duration, opts ...SessionOption) *SessionManager {
	m := &SessionManager{
		password: password,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]models.AdminSession),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the lifetime given to new tokens
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Login checks password and returns a fresh token valid for TTL
func (m *SessionManager) Login(password string) (string, time.Duration, error) {
	if m.password == "" || subtle.ConstantTimeCompare([]byte(password), []byte(m.password)) != 1 {
		return "", 0, &OrderError{Kind: ErrInvalidCredentials, Code: "INVALID_CREDENTIALS", Message: "Invalid admin password"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var token string
	for {
		t, err := randomToken()
		if err != nil {
			return "", 0, fmt.Errorf("failed to generate session token: %w", err)
		}
		if _, taken := m.sessions[t]; !taken {
			token = t
			break
		}
	}

	m.sessions[token] = models.AdminSession{Token: token, ExpiresAt: m.now().Add(m.ttl)}
	log.Printf("Admin session issued, %d live", len(m.sessions))
	return token, m.ttl, nil
}

// IsAdmin reports whether token is a live admin session.
// An expired token is evicted the first time it is checked.
func (m *SessionManager) IsAdmin(token string) bool {
	if token == "" {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[token]
	if !ok {
		return false
	}
	if session.Expired(m.now()) {
		delete(m.sessions, token)
		return false
	}
	return true
}

// Logout revokes token. Unknown tokens are ignored.
func (m *SessionManager) Logout(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// Clear drops every session
func (m *SessionManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = make(map[string]models.AdminSession)
}

// Len returns the number of stored sessions, expired ones included
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
