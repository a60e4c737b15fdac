// Package analytics provides the analytics sinks: structured log, redis
// stream, document database and fan-out.
package analytics

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	coreanalytics "github.com/unifiedui/docchat-service/internal/core/analytics"
)

// LogSink writes analytics events to the structured log.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink creates a sink that logs events with kind=analytics. A nil
// logger uses the global logger.
func NewLogSink(logger *zerolog.Logger) *LogSink {
	l := log.Logger
	if logger != nil {
		l = *logger
	}
	return &LogSink{logger: l}
}

// Record logs the event at Info level with its fields.
func (s *LogSink) Record(ctx context.Context, event string, fields map[string]interface{}) error {
	s.logger.Info().
		Str("kind", coreanalytics.Kind).
		Fields(fields).
		Msg(event)
	return nil
}
