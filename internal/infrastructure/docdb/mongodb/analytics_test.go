package mongodb_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/docchat-service/internal/domain/models"
	"github.com/unifiedui/docchat-service/internal/infrastructure/docdb/mongodb"
	"github.com/unifiedui/docchat-service/tests/mocks"
)

func TestAnalyticsCollection_InsertFillsDefaults(t *testing.T) {
	collection := &mocks.MockCollection{}
	collection.On("InsertOne", mock.Anything, mock.AnythingOfType("*models.AnalyticsEvent")).Return("id", nil)

	analytics := mongodb.NewAnalyticsCollection(collection)
	event := &models.AnalyticsEvent{
		SessionID: "s1",
		Event:     "chat_session_analytics",
		Fields:    map[string]interface{}{"user_message_count": 2},
	}

	err := analytics.Insert(context.Background(), event)
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.WithinDuration(t, time.Now().UTC(), event.CreatedAt, time.Minute)
	collection.AssertExpectations(t)
}

func TestAnalyticsCollection_InsertKeepsProvidedID(t *testing.T) {
	collection := &mocks.MockCollection{}
	collection.On("InsertOne", mock.Anything, mock.Anything).Return("fixed", nil)

	event := &models.AnalyticsEvent{ID: "fixed", Event: "e"}
	require.NoError(t, mongodb.NewAnalyticsCollection(collection).Insert(context.Background(), event))
	assert.Equal(t, "fixed", event.ID)
}

func TestAnalyticsCollection_InsertValidation(t *testing.T) {
	analytics := mongodb.NewAnalyticsCollection(&mocks.MockCollection{})

	err := analytics.Insert(context.Background(), nil)
	assert.EqualError(t, err, "event is required")

	err = analytics.Insert(context.Background(), &models.AnalyticsEvent{})
	assert.EqualError(t, err, "event name is required")
}

func TestAnalyticsCollection_InsertError(t *testing.T) {
	collection := &mocks.MockCollection{}
	collection.On("InsertOne", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	err := mongodb.NewAnalyticsCollection(collection).Insert(context.Background(), &models.AnalyticsEvent{Event: "e"})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name   string
		config *mongodb.ClientConfig
		errMsg string
	}{
		{"nil config", nil, "config cannot be nil"},
		{"missing uri", &mongodb.ClientConfig{DatabaseName: "db"}, "mongodb URI is required"},
		{"missing database", &mongodb.ClientConfig{URI: "mongodb://localhost"}, "database name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := mongodb.NewClient(context.Background(), tt.config)
			require.Error(t, err)
			assert.Nil(t, client)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
