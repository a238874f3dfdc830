package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// SessionCookieName is the cookie that binds a browser to its session.
const SessionCookieName = "meetfewer_session"

// DefaultSessionTTL is how long a session survives without activity.
const DefaultSessionTTL = 24 * time.Hour

// stateTTL bounds how long an OAuth login state parameter stays valid.
const stateTTL = 10 * time.Minute

// Session holds the per-user credential state the API handlers need.
type Session struct {
	ID    string
	Email string

	// TokenSource refreshes the Google credential transparently; handlers
	// never see raw tokens.
	TokenSource oauth2.TokenSource

	lastAccess time.Time
}

// SessionManager holds active sessions and pending OAuth states in memory.
// Sessions expire after the configured TTL of inactivity; a background
// goroutine sweeps them out.
type SessionManager struct {
	sessions      map[string]*Session
	states        map[string]time.Time
	mu            sync.RWMutex
	cleanupTicker *time.Ticker
	cleanupDone   chan bool
	ttl           time.Duration
	logger        *slog.Logger

	// onCountChange reports the active-session delta, for metrics.
	onCountChange func(delta int)
}

// NewSessionManager creates a session manager with the default TTL.
func NewSessionManager() *SessionManager {
	return NewSessionManagerWithLogger(DefaultSessionTTL, slog.Default())
}

// NewSessionManagerWithLogger creates a session manager with a custom TTL
// and logger.
func NewSessionManagerWithLogger(ttl time.Duration, logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	m := &SessionManager{
		sessions:      make(map[string]*Session),
		states:        make(map[string]time.Time),
		cleanupTicker: time.NewTicker(10 * time.Minute),
		cleanupDone:   make(chan bool),
		ttl:           ttl,
		logger:        logger,
	}

	// Start cleanup goroutine
	go m.cleanupExpired()

	return m
}

// SetCountCallback registers a callback invoked with +1/-1 when sessions
// are created or removed.
func (m *SessionManager) SetCountCallback(fn func(delta int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onCountChange = fn
}

// Create issues a new session for the given user and returns its ID.
func (m *SessionManager) Create(email string, ts oauth2.TokenSource) string {
	id := uuid.NewString()

	m.mu.Lock()
	m.sessions[id] = &Session{
		ID:          id,
		Email:       email,
		TokenSource: ts,
		lastAccess:  time.Now(),
	}
	cb := m.onCountChange
	m.mu.Unlock()

	if cb != nil {
		cb(1)
	}
	return id
}

// Get returns the session for the given ID and refreshes its activity
// timestamp. Expired sessions are treated as absent.
func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	if time.Since(session.lastAccess) > m.ttl {
		delete(m.sessions, id)
		if m.onCountChange != nil {
			m.onCountChange(-1)
		}
		return nil, false
	}

	session.lastAccess = time.Now()
	return session, true
}

// Remove deletes a session.
func (m *SessionManager) Remove(id string) {
	m.mu.Lock()
	_, existed := m.sessions[id]
	delete(m.sessions, id)
	cb := m.onCountChange
	m.mu.Unlock()

	if existed && cb != nil {
		cb(-1)
	}
}

// Count returns the number of active sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// NewState issues a state parameter for an OAuth login redirect.
func (m *SessionManager) NewState() string {
	state := uuid.NewString()
	m.mu.Lock()
	m.states[state] = time.Now()
	m.mu.Unlock()
	return state
}

// ConsumeState validates and removes a state parameter. It returns false
// for unknown or stale states.
func (m *SessionManager) ConsumeState(state string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	issued, ok := m.states[state]
	if !ok {
		return false
	}
	delete(m.states, state)
	return time.Since(issued) <= stateTTL
}

// cleanupExpired periodically removes expired sessions and stale states.
func (m *SessionManager) cleanupExpired() {
	for {
		select {
		case <-m.cleanupTicker.C:
			m.mu.Lock()
			now := time.Now()
			expiredCount := 0
			for id, session := range m.sessions {
				if now.Sub(session.lastAccess) > m.ttl {
					delete(m.sessions, id)
					expiredCount++
					if m.onCountChange != nil {
						m.onCountChange(-1)
					}
				}
			}
			for state, issued := range m.states {
				if now.Sub(issued) > stateTTL {
					delete(m.states, state)
				}
			}
			m.mu.Unlock()
			if expiredCount > 0 {
				m.logger.Info("Cleaned up expired sessions", "count", expiredCount)
			}
		case <-m.cleanupDone:
			return
		}
	}
}

// Stop stops the session cleanup goroutine
func (m *SessionManager) Stop() {
	if m.cleanupTicker != nil {
		m.cleanupTicker.Stop()
	}
	if m.cleanupDone != nil {
		close(m.cleanupDone)
	}
}
