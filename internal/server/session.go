package server

import (
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
)

// sessionTTL matches the room TTL: a session outliving its room is useless.
const sessionTTL = 2 * time.Hour

// Session binds a resumable token to a seat in a room.
type Session struct {
	Token     string
	RoomID    string
	PlayerID  string
	ExpiresAt time.Time
}

// SessionManager issues and resolves reconnect tokens.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
	clock    quartz.Clock
}

// NewSessionManager creates a session manager with the default TTL.
func NewSessionManager() *SessionManager {
	return NewSessionManagerWithClock(sessionTTL, quartz.NewReal())
}

// NewSessionManagerWithClock creates a session manager on an injected clock.
func NewSessionManagerWithClock(ttl time.Duration, clock quartz.Clock) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]Session),
		ttl:      ttl,
		clock:    clock,
	}
}

// Create issues a fresh token for the seat.
func (m *SessionManager) Create(roomID, playerID string) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := Session{
		Token:     uuid.NewString(),
		RoomID:    roomID,
		PlayerID:  playerID,
		ExpiresAt: m.clock.Now().Add(m.ttl),
	}
	m.sessions[session.Token] = session
	return session
}

// Resolve returns the live session for a token, refreshing its expiry.
// Expired or unknown tokens return false.
func (m *SessionManager) Resolve(token string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[token]
	if !ok {
		return Session{}, false
	}
	if m.clock.Now().After(session.ExpiresAt) {
		delete(m.sessions, token)
		return Session{}, false
	}
	session.ExpiresAt = m.clock.Now().Add(m.ttl)
	m.sessions[token] = session
	return session, true
}

// Revoke drops a token.
func (m *SessionManager) Revoke(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}
