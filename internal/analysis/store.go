package analysis

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Store is the keyed in-memory registry of active sessions. It is a passive
// container: all session mutation goes through the Analyzer. Constructed
// once per process and injected, so tests get a fresh store each.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// NewSessionID returns a short opaque session identifier. Collision
// probability at interview scale is negligible and is not re-checked.
func NewSessionID() string {
	return strings.SplitN(uuid.New().String(), "-", 2)[0]
}

// Create registers a session under its ID.
func (st *Store) Create(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
}

// Get returns the session for id, or nil if absent.
func (st *Store) Get(id string) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[id]
}

// Delete removes the session for id, reporting whether it existed.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

// Len returns the number of active sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
