// Package sessions keeps per-user conversation state in memory. History
// is append-only: a turn appears only after it completed, so a failed or
// cancelled turn leaves the transcript exactly as it was.
package sessions

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"codeberg.org/careerintel/server/internal/citations"
)

// one completed question/answer exchange
type Turn struct {
	Question  string               `json:"question"`
	Answer    string               `json:"answer"`
	Citations []citations.Citation `json:"citations,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// represents an anonymous user's conversation
type Session struct {
	ID           string
	LastActivity time.Time
	ExpiresAt    time.Time

	mu     sync.Mutex
	turns  []Turn
	active bool // a turn is being processed
}

// BeginTurn claims the session for one turn. Turns within a session run
// one at a time; a second question while one is in flight is rejected
// rather than queued.
func (s *Session) BeginTurn() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return ErrTurnInFlight
	}

	s.active = true

	return nil
}

// EndTurn releases the session claimed by BeginTurn
func (s *Session) EndTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = false
}

// AppendTurn records a completed exchange
func (s *Session) AppendTurn(turn Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}

	s.turns = append(s.turns, turn)
}

// RecentTurns returns a copy of the last n turns, oldest first
func (s *Session) RecentTurns(n int) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n <= 0 || len(s.turns) == 0 {
		return nil
	}

	start := len(s.turns) - n
	if start < 0 {
		start = 0
	}

	out := make([]Turn, len(s.turns)-start)
	copy(out, s.turns[start:])

	return out
}

// AllTurns returns a copy of the full transcript, oldest first
func (s *Session) AllTurns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Turn, len(s.turns))
	copy(out, s.turns)

	return out
}

// ClearTurns drops the transcript but keeps the session alive
func (s *Session) ClearTurns() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = nil
}

// manages anonymous user sessions in memory
type Manager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	ttl      time.Duration
}

// returns a new session manager
func NewManager(ttl time.Duration) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}

	// start cleanup goroutine
	go m.cleanupExpiredSessions()

	return m
}

// returns a new random session ID
func GenerateSessionID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	return hex.EncodeToString(bytes), nil
}

// creates a new session
func (m *Manager) CreateSession() (*Session, error) {
	id, err := GenerateSessionID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &Session{
		ID:           id,
		LastActivity: now,
		ExpiresAt:    now.Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()

	return session, nil
}

// retrieves a session by ID and extends its lifetime
func (m *Manager) GetSession(sessionID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return nil, false
	}

	now := time.Now()
	if now.After(session.ExpiresAt) {
		delete(m.sessions, sessionID)
		return nil, false
	}

	session.LastActivity = now
	session.ExpiresAt = now.Add(m.ttl)

	return session, true
}

// removes a session
func (m *Manager) DeleteSession(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// returns the number of active sessions
func (m *Manager) GetSessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}

// runs periodically to remove expired sessions
func (m *Manager) cleanupExpiredSessions() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.Lock()

		now := time.Now()

		for id, session := range m.sessions {
			if now.After(session.ExpiresAt) {
				delete(m.sessions, id)
			}
		}

		m.mu.Unlock()
	}
}
