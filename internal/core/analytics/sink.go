// Package analytics defines where session analytics events are delivered.
package analytics

import (
	"context"
)

// Kind tags every analytics record so it can be told apart from operational logs.
const Kind = "analytics"

// Sink receives analytics events.
type Sink interface {
	// Record delivers a single event with its fields. Implementations must
	// not retain the fields map after returning.
	Record(ctx context.Context, event string, fields map[string]interface{}) error
}

// Type represents the type of analytics sink.
type Type string

const (
	// TypeLog writes events to the structured log.
	TypeLog Type = "log"
	// TypeRedis appends events to a redis stream.
	TypeRedis Type = "redis"
	// TypeDocDB inserts events into the document database.
	TypeDocDB Type = "docdb"
)
