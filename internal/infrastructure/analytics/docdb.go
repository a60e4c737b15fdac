package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/unifiedui/docchat-service/internal/core/docdb"
	"github.com/unifiedui/docchat-service/internal/domain/models"
)

// SessionIDField is the field carrying the session identifier.
const SessionIDField = "session_id"

// DocDBSink persists analytics events in the document database.
type DocDBSink struct {
	events docdb.AnalyticsCollection
}

// NewDocDBSink creates a sink that inserts events into the analytics collection.
func NewDocDBSink(events docdb.AnalyticsCollection) (*DocDBSink, error) {
	if events == nil {
		return nil, fmt.Errorf("analytics collection is required")
	}
	return &DocDBSink{events: events}, nil
}

// Record inserts the event as a models.AnalyticsEvent.
func (s *DocDBSink) Record(ctx context.Context, event string, fields map[string]interface{}) error {
	copied := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		copied[key] = value
	}

	doc := &models.AnalyticsEvent{
		SessionID: sessionIDOf(fields),
		Event:     event,
		Fields:    copied,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.events.Insert(ctx, doc); err != nil {
		return fmt.Errorf("failed to store analytics event: %w", err)
	}
	return nil
}
