// Package docdb defines the document database interfaces.
package docdb

import (
	"context"
)

// Collection defines the document operations the service needs.
type Collection interface {
	// InsertOne inserts a single document and returns its ID.
	InsertOne(ctx context.Context, document interface{}) (interface{}, error)
}

// Database defines the interface for database operations.
type Database interface {
	// Collection returns a collection by name.
	Collection(name string) Collection
}
