package tutor

import (
	"sync"

	"github.com/google/uuid"

	"github.com/radnus321/learning-by-teaching/internal/pool"
)

// Session is one user's run through a question pool. The mutex serializes
// turns: a second message from the same user waits for the first turn to
// finish, so the cursor and memory never race.
type Session struct {
	ID     string
	UserID string
	Email  string
	Name   string
	Topic  string
	Pool   *pool.Pool

	mu sync.Mutex
}

// NewSession starts a session for a user over a pool.
func NewSession(userID, email, name, topic string, p *pool.Pool) *Session {
	return &Session{
		ID:     uuid.NewString(),
		UserID: userID,
		Email:  email,
		Name:   name,
		Topic:  topic,
		Pool:   p,
	}
}

// Manager tracks the active session per user.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Get returns the user's active session, if any.
func (m *Manager) Get(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// Start replaces the user's session with a fresh one over the given pool.
func (m *Manager) Start(userID, email, name, topic string, p *pool.Pool) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := NewSession(userID, email, name, topic, p)
	m.sessions[userID] = s
	return s
}

// End drops the user's session.
func (m *Manager) End(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
