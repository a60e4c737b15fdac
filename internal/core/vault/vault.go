// Package vault defines secret resolution for credentials referenced from configuration.
package vault

import (
	"context"
)

// Vault resolves secret references such as "dotenv://OPENAI_API_KEY".
type Vault interface {
	// GetSecret retrieves a secret by URI.
	// Returns an error if the secret does not exist.
	GetSecret(ctx context.Context, uri string) (string, error)

	// Ping checks if the vault connection is alive.
	Ping(ctx context.Context) error

	// Close closes the vault connection.
	Close() error
}
