package session

import (
	"sync"

	domainerrors "github.com/unifiedui/docchat-service/internal/domain/errors"
)

// Registry maps connection IDs to their sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Open creates and registers an uninitialized session for id.
func (r *Registry) Open(id string) (*Session, error) {
	if id == "" {
		return nil, domainerrors.NewValidationError("session id is required", "")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; exists {
		return nil, domainerrors.NewConflictError("session already exists", id)
	}

	s := NewSession(id)
	r.sessions[id] = s
	return s, nil
}

// Get returns the session registered for id.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Close unregisters the session for id and returns it so the caller can end it.
func (r *Registry) Close(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	return s, ok
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
