package vault

import (
	"context"
)

// Client is the vault client handed to the process wiring.
type Client interface {
	// GetVault returns the underlying Vault implementation.
	GetVault() Vault

	// GetSecret retrieves a secret by URI.
	GetSecret(ctx context.Context, uri string) (string, error)

	// Ping checks if the vault connection is alive.
	Ping(ctx context.Context) error

	// Close closes the vault client connection.
	Close() error
}
