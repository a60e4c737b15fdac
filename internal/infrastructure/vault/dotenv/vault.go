// Package dotenv provides a vault that resolves secrets from environment variables.
package dotenv

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Scheme is the URI scheme handled by this vault.
const Scheme = "dotenv://"

// Vault implements the vault.Vault interface using environment variables.
// Secrets not present in the environment are looked up in an in-memory map.
type Vault struct {
	secrets map[string]string
	mu      sync.RWMutex
}

// NewVault creates a new DotEnv vault instance seeded with the given secrets.
func NewVault(secrets map[string]string) *Vault {
	v := &Vault{
		secrets: make(map[string]string, len(secrets)),
	}
	for key, value := range secrets {
		v.secrets[key] = value
	}
	return v
}

// GetSecret retrieves a secret from environment variables or the in-memory store.
func (v *Vault) GetSecret(ctx context.Context, uri string) (string, error) {
	key := strings.TrimPrefix(uri, Scheme)
	if key == "" {
		return "", fmt.Errorf("secret key is required")
	}

	// First check environment variables
	if value := os.Getenv(key); value != "" {
		return value, nil
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	if value, ok := v.secrets[key]; ok {
		return value, nil
	}

	return "", fmt.Errorf("secret not found: %s", key)
}

// Ping checks if the vault is available (always returns nil for dotenv).
func (v *Vault) Ping(ctx context.Context) error {
	return nil
}

// Close closes the vault (no-op for dotenv).
func (v *Vault) Close() error {
	return nil
}
