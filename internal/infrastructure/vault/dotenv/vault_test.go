package dotenv_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/docchat-service/internal/infrastructure/vault/dotenv"
)

func TestVault_GetSecretFromEnv(t *testing.T) {
	t.Setenv("DOCCHAT_TEST_KEY", "from-env")

	v := dotenv.NewVault(map[string]string{"DOCCHAT_TEST_KEY": "from-memory"})

	value, err := v.GetSecret(context.Background(), "dotenv://DOCCHAT_TEST_KEY")
	require.NoError(t, err)
	assert.Equal(t, "from-env", value)
}

func TestVault_GetSecretFromMemory(t *testing.T) {
	v := dotenv.NewVault(map[string]string{"DOCCHAT_MEMORY_KEY": "from-memory"})

	value, err := v.GetSecret(context.Background(), "dotenv://DOCCHAT_MEMORY_KEY")
	require.NoError(t, err)
	assert.Equal(t, "from-memory", value)

	// Bare keys without the scheme are accepted.
	value, err = v.GetSecret(context.Background(), "DOCCHAT_MEMORY_KEY")
	require.NoError(t, err)
	assert.Equal(t, "from-memory", value)
}

func TestVault_GetSecretNotFound(t *testing.T) {
	v := dotenv.NewVault(nil)

	_, err := v.GetSecret(context.Background(), "dotenv://DOCCHAT_MISSING_KEY")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret not found")

	_, err = v.GetSecret(context.Background(), "dotenv://")
	assert.EqualError(t, err, "secret key is required")
}

func TestVault_SeedIsCopied(t *testing.T) {
	seed := map[string]string{"DOCCHAT_COPY_KEY": "original"}
	v := dotenv.NewVault(seed)
	seed["DOCCHAT_COPY_KEY"] = "mutated"

	value, err := v.GetSecret(context.Background(), "DOCCHAT_COPY_KEY")
	require.NoError(t, err)
	assert.Equal(t, "original", value)
}

func TestClient_Delegates(t *testing.T) {
	t.Setenv("DOCCHAT_CLIENT_KEY", "secret")

	client, err := dotenv.NewClient()
	require.NoError(t, err)
	assert.NotNil(t, client.GetVault())

	value, err := client.GetSecret(context.Background(), "dotenv://DOCCHAT_CLIENT_KEY")
	require.NoError(t, err)
	assert.Equal(t, "secret", value)

	assert.NoError(t, client.Ping(context.Background()))
	assert.NoError(t, client.Close())
}
