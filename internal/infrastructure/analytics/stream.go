package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/unifiedui/docchat-service/internal/core/cache"
)

// DefaultStream is the redis stream analytics events are appended to.
const DefaultStream = "analytics:chat"

// StreamSink appends analytics events to an append-only stream.
type StreamSink struct {
	appender cache.StreamAppender
	stream   string
}

// NewStreamSink creates a sink writing to stream through appender.
func NewStreamSink(appender cache.StreamAppender, stream string) (*StreamSink, error) {
	if appender == nil {
		return nil, fmt.Errorf("stream appender is required")
	}
	if stream == "" {
		stream = DefaultStream
	}
	return &StreamSink{
		appender: appender,
		stream:   stream,
	}, nil
}

// Record appends the event. Fields are stored JSON-encoded under "fields".
func (s *StreamSink) Record(ctx context.Context, event string, fields map[string]interface{}) error {
	encoded, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode analytics fields: %w", err)
	}

	values := map[string]interface{}{
		"event":       event,
		"fields":      string(encoded),
		"recorded_at": time.Now().UTC().Format(time.RFC3339),
	}
	if sessionID := sessionIDOf(fields); sessionID != "" {
		values["session_id"] = sessionID
	}

	if _, err := s.appender.AppendStream(ctx, s.stream, values); err != nil {
		return fmt.Errorf("failed to append analytics event: %w", err)
	}
	return nil
}

func sessionIDOf(fields map[string]interface{}) string {
	if id, ok := fields[SessionIDField].(string); ok {
		return id
	}
	return ""
}
