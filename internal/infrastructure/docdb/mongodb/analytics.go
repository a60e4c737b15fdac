package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/unifiedui/docchat-service/internal/core/docdb"
	"github.com/unifiedui/docchat-service/internal/domain/models"
)

// AnalyticsCollectionName is the name of the analytics events collection.
const AnalyticsCollectionName = "analytics_events"

// AnalyticsCollection implements docdb.AnalyticsCollection on top of a generic collection.
type AnalyticsCollection struct {
	collection docdb.Collection
}

// NewAnalyticsCollection creates a new analytics collection wrapper.
func NewAnalyticsCollection(collection docdb.Collection) *AnalyticsCollection {
	return &AnalyticsCollection{
		collection: collection,
	}
}

// Insert stores an analytics event.
func (c *AnalyticsCollection) Insert(ctx context.Context, event *models.AnalyticsEvent) error {
	if event == nil {
		return fmt.Errorf("event is required")
	}
	if event.Event == "" {
		return fmt.Errorf("event name is required")
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	if _, err := c.collection.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to insert analytics event: %w", err)
	}
	return nil
}
