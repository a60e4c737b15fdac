package analytics

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	coreanalytics "github.com/unifiedui/docchat-service/internal/core/analytics"
)

// MultiSink fans an event out to several sinks.
type MultiSink struct {
	sinks  []coreanalytics.Sink
	logger zerolog.Logger
}

// NewMultiSink creates a fan-out sink. A nil logger uses the global logger.
func NewMultiSink(logger *zerolog.Logger, sinks ...coreanalytics.Sink) *MultiSink {
	l := log.Logger
	if logger != nil {
		l = *logger
	}
	return &MultiSink{
		sinks:  sinks,
		logger: l,
	}
}

// Record delivers the event to every sink. Each failure is logged and
// the failures are returned joined.
func (s *MultiSink) Record(ctx context.Context, event string, fields map[string]interface{}) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Record(ctx, event, fields); err != nil {
			s.logger.Error().Err(err).Str("event", event).Msg("analytics sink failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of sinks.
func (s *MultiSink) Len() int {
	return len(s.sinks)
}
