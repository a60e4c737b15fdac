package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockConverter is a mock implementation of convert.Converter.
type MockConverter struct {
	mock.Mock
}

// Convert converts the file at path.
func (m *MockConverter) Convert(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}
