package session

import "sync"

// Manager holds live sessions keyed by the opaque conversation id assigned
// by the transport. Sessions are created lazily on first contact. The map is
// the only cross-session shared state; individual sessions are processed
// strictly turn-by-turn by their owner.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Get returns the session for a key, creating it if absent. The second
// return value reports whether the session already existed.
func (m *Manager) Get(key string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[key]; ok {
		return s, true
	}
	s := New(key)
	m.sessions[key] = s
	return s, false
}

// Peek returns the session for a key without creating one.
func (m *Manager) Peek(key string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[key]
	return s, ok
}

// Put installs a session (used when restoring from durable storage).
func (m *Manager) Put(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Key] = s
}

// Remove drops a session from memory.
func (m *Manager) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
