// Package session runs the lifecycle of one chat session: start, model
// changes, user turns and the end-of-session analytics flush.
package session

import (
	"context"
	"sync"

	"github.com/unifiedui/docchat-service/internal/config"
	"github.com/unifiedui/docchat-service/internal/services/analytics"
	"github.com/unifiedui/docchat-service/internal/services/conversation"
)

// State is the lifecycle state of a session.
type State int

const (
	// StateUninitialized is a session that has not been started.
	StateUninitialized State = iota
	// StateActive is a started session accepting turns.
	StateActive
	// StateEnded is a session whose analytics have been flushed.
	StateEnded
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateActive:
		return "active"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Transport delivers user-visible output for a session. Calls are
// fire-and-forget; delivery failures are handled by the transport.
type Transport interface {
	Notify(ctx context.Context, text string)
	StreamFragment(ctx context.Context, text string)
	CompleteStream(ctx context.Context, text string)
	PresentOptions(ctx context.Context, appName, welcome string, models []string, defaultModel string)
}

// Session is the state of one connection. It is owned by a single
// orchestrator and is created through a Registry or NewSession.
type Session struct {
	ID string

	// turnMu is held for the whole of a turn.
	turnMu sync.Mutex

	mu       sync.RWMutex
	state    State
	settings config.ModelSettings
	history  *conversation.History
	tracker  *analytics.Tracker
}

// NewSession creates an uninitialized session.
func NewSession(id string) *Session {
	return &Session{ID: id}
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Settings returns the current model settings.
func (s *Session) Settings() config.ModelSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// History returns the dialogue history, or nil before Start.
func (s *Session) History() *conversation.History {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history
}

// Tracker returns the analytics tracker, or nil before Start.
func (s *Session) Tracker() *analytics.Tracker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracker
}
