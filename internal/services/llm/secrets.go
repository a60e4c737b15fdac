package llm

import (
	"context"
	"fmt"

	"github.com/unifiedui/docchat-service/internal/core/vault"
)

// ResolveAPIKey reads the backend API key referenced by ref. An empty
// ref means the backend needs no key.
func ResolveAPIKey(ctx context.Context, secrets vault.Client, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	if secrets == nil {
		return "", fmt.Errorf("vault client is required to resolve %s", ref)
	}

	key, err := secrets.GetSecret(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}
	return key, nil
}
