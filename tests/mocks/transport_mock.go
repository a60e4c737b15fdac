package mocks

import (
	"context"
	"strings"
	"sync"
)

// Transport event kinds recorded by MockTransport.
const (
	EventNotice   = "notice"
	EventFragment = "fragment"
	EventComplete = "complete"
	EventOptions  = "options"
)

// TransportEvent is one call recorded by MockTransport.
type TransportEvent struct {
	Kind string
	Text string

	// Set for EventOptions only.
	AppName      string
	Models       []string
	DefaultModel string
}

// MockTransport records every outbound call in order. It implements the
// session transport and the streamer output.
type MockTransport struct {
	mu     sync.Mutex
	events []TransportEvent
}

// NewMockTransport creates an empty MockTransport.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// Notify records a notice.
func (m *MockTransport) Notify(ctx context.Context, text string) {
	m.record(TransportEvent{Kind: EventNotice, Text: text})
}

// StreamFragment records a streamed fragment.
func (m *MockTransport) StreamFragment(ctx context.Context, text string) {
	m.record(TransportEvent{Kind: EventFragment, Text: text})
}

// CompleteStream records the end of a stream.
func (m *MockTransport) CompleteStream(ctx context.Context, text string) {
	m.record(TransportEvent{Kind: EventComplete, Text: text})
}

// PresentOptions records the welcome and model options.
func (m *MockTransport) PresentOptions(ctx context.Context, appName, welcome string, models []string, defaultModel string) {
	m.record(TransportEvent{
		Kind:         EventOptions,
		Text:         welcome,
		AppName:      appName,
		Models:       append([]string(nil), models...),
		DefaultModel: defaultModel,
	})
}

// Events returns a copy of the recorded events.
func (m *MockTransport) Events() []TransportEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TransportEvent(nil), m.events...)
}

// Texts returns the texts of all events of the given kind.
func (m *MockTransport) Texts(kind string) []string {
	var texts []string
	for _, event := range m.Events() {
		if event.Kind == kind {
			texts = append(texts, event.Text)
		}
	}
	return texts
}

// Streamed returns the concatenated fragments.
func (m *MockTransport) Streamed() string {
	return strings.Join(m.Texts(EventFragment), "")
}

func (m *MockTransport) record(event TransportEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}
