// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/unifiedui/docchat-service/internal/core/docdb"
	"github.com/unifiedui/docchat-service/internal/domain/models"
)

// MockCollection is a mock implementation of docdb.Collection.
type MockCollection struct {
	mock.Mock
}

// InsertOne inserts a single document.
func (m *MockCollection) InsertOne(ctx context.Context, document interface{}) (interface{}, error) {
	args := m.Called(ctx, document)
	return args.Get(0), args.Error(1)
}

// MockDatabase is a mock implementation of docdb.Database.
type MockDatabase struct {
	mock.Mock
}

// Collection returns a collection by name.
func (m *MockDatabase) Collection(name string) docdb.Collection {
	args := m.Called(name)
	return args.Get(0).(docdb.Collection)
}

// MockAnalyticsCollection is a mock implementation of docdb.AnalyticsCollection.
type MockAnalyticsCollection struct {
	mock.Mock
}

// Insert stores an analytics event.
func (m *MockAnalyticsCollection) Insert(ctx context.Context, event *models.AnalyticsEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockDocDBClient is a mock implementation of docdb.Client.
type MockDocDBClient struct {
	mock.Mock
	database  *MockDatabase
	analytics *MockAnalyticsCollection
}

// NewMockDocDBClient creates a new MockDocDBClient.
func NewMockDocDBClient() *MockDocDBClient {
	return &MockDocDBClient{
		database:  &MockDatabase{},
		analytics: &MockAnalyticsCollection{},
	}
}

// Database returns the mock database.
func (m *MockDocDBClient) Database() docdb.Database {
	return m.database
}

// Analytics returns the mock analytics collection.
func (m *MockDocDBClient) Analytics() docdb.AnalyticsCollection {
	return m.analytics
}

// AnalyticsMock returns the analytics collection mock for setting expectations.
func (m *MockDocDBClient) AnalyticsMock() *MockAnalyticsCollection {
	return m.analytics
}

// Ping checks the database connection.
func (m *MockDocDBClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close closes the database connection.
func (m *MockDocDBClient) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
