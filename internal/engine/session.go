package engine

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/fyrsmithlabs/memoryd/internal/history"
)

// Session owns one chat history ledger and serializes turns against
// it. At most one TurnStream may be active per session at a time.
type Session struct {
	id     string
	ledger *history.Ledger
	inTurn atomic.Bool
}

// NewSession creates a session with a fresh ledger and generated ID.
func NewSession() *Session {
	return &Session{
		id:     uuid.NewString(),
		ledger: history.NewLedger(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Ledger returns the session's chat history ledger.
func (s *Session) Ledger() *history.Ledger {
	return s.ledger
}

// beginTurn acquires the turn guard. Returns false when a turn is
// already active.
func (s *Session) beginTurn() bool {
	return s.inTurn.CompareAndSwap(false, true)
}

// endTurn releases the turn guard.
func (s *Session) endTurn() {
	s.inTurn.Store(false)
}

// SessionManager tracks sessions by ID.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionManager returns an empty manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

// Get returns the session with the given ID.
func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// GetOrCreate returns the session with the given ID, creating a new
// one when id is empty or unknown.
func (m *SessionManager) GetOrCreate(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id != "" {
		if s, ok := m.sessions[id]; ok {
			return s
		}
	}
	s := NewSession()
	m.sessions[s.id] = s
	return s
}

// Remove deletes a session.
func (m *SessionManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
