package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSink is a mock implementation of analytics.Sink.
type MockSink struct {
	mock.Mock
}

// Record records an analytics event.
func (m *MockSink) Record(ctx context.Context, event string, fields map[string]interface{}) error {
	args := m.Called(ctx, event, fields)
	return args.Error(0)
}
