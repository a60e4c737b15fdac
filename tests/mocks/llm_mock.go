package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/unifiedui/docchat-service/internal/services/llm"
)

// MockLLMClient is a mock implementation of llm.Client.
type MockLLMClient struct {
	mock.Mock
}

// StreamChat opens a chat stream.
func (m *MockLLMClient) StreamChat(ctx context.Context, req *llm.ChatRequest) (llm.Stream, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(llm.Stream), args.Error(1)
}

// Close closes the client.
func (m *MockLLMClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockStream is a scripted llm.Stream. It yields Fragments in order and
// then Err, or io.EOF when Err is nil.
type MockStream struct {
	Fragments []string
	Err       error

	// OnNext, if set, runs before each Next call with the call index.
	OnNext func(i int)

	mu     sync.Mutex
	pos    int
	closed bool
}

// NewMockStream creates a stream that yields the given fragments then io.EOF.
func NewMockStream(fragments ...string) *MockStream {
	return &MockStream{Fragments: fragments}
}

// Next returns the next scripted fragment.
func (s *MockStream) Next() (string, error) {
	s.mu.Lock()
	i := s.pos
	s.pos++
	s.mu.Unlock()

	if s.OnNext != nil {
		s.OnNext(i)
	}

	if i < len(s.Fragments) {
		return s.Fragments[i], nil
	}
	if s.Err != nil {
		return "", s.Err
	}
	return "", io.EOF
}

// Close marks the stream as closed.
func (s *MockStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *MockStream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
