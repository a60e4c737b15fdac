package analytics

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	coreanalytics "github.com/unifiedui/docchat-service/internal/core/analytics"
	"github.com/unifiedui/docchat-service/internal/core/cache"
	"github.com/unifiedui/docchat-service/internal/core/docdb"
)

// FactoryConfig holds what is needed to build the configured sinks.
type FactoryConfig struct {
	Types    []string
	Stream   string
	Appender cache.StreamAppender
	Events   docdb.AnalyticsCollection
	Logger   *zerolog.Logger
}

// NewSink builds the sink set named by cfg.Types. With no types the log
// sink is used. Duplicate types are ignored.
func NewSink(cfg *FactoryConfig) (coreanalytics.Sink, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	types := cfg.Types
	if len(types) == 0 {
		types = []string{string(coreanalytics.TypeLog)}
	}

	var sinks []coreanalytics.Sink
	seen := make(map[coreanalytics.Type]bool, len(types))

	for _, name := range types {
		sinkType := coreanalytics.Type(strings.ToLower(strings.TrimSpace(name)))
		if seen[sinkType] {
			continue
		}
		seen[sinkType] = true

		switch sinkType {
		case coreanalytics.TypeLog:
			sinks = append(sinks, NewLogSink(cfg.Logger))
		case coreanalytics.TypeRedis:
			if cfg.Appender == nil {
				return nil, fmt.Errorf("redis analytics sink requires a cache client")
			}
			sink, err := NewStreamSink(cfg.Appender, cfg.Stream)
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, sink)
		case coreanalytics.TypeDocDB:
			if cfg.Events == nil {
				return nil, fmt.Errorf("docdb analytics sink requires a document database")
			}
			sink, err := NewDocDBSink(cfg.Events)
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, sink)
		default:
			return nil, fmt.Errorf("unsupported analytics sink: %s", name)
		}
	}

	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return NewMultiSink(cfg.Logger, sinks...), nil
}
