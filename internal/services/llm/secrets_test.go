package llm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/docchat-service/internal/services/llm"
	"github.com/unifiedui/docchat-service/tests/mocks"
)

func TestResolveAPIKey(t *testing.T) {
	ctx := context.Background()
	const ref = "dotenv://OPENAI_API_KEY"

	t.Run("found", func(t *testing.T) {
		secrets := mocks.NewMockVaultClient()
		secrets.On("GetSecret", mock.Anything, ref).Return("sk-test", nil).Once()

		key, err := llm.ResolveAPIKey(ctx, secrets, ref)
		require.NoError(t, err)
		assert.Equal(t, "sk-test", key)
		secrets.AssertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		secrets := mocks.NewMockVaultClient()
		secrets.On("GetSecret", mock.Anything, ref).Return("", assert.AnError).Once()

		key, err := llm.ResolveAPIKey(ctx, secrets, ref)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Empty(t, key)
	})

	t.Run("no reference", func(t *testing.T) {
		key, err := llm.ResolveAPIKey(ctx, nil, "")
		require.NoError(t, err)
		assert.Empty(t, key)
	})

	t.Run("no vault", func(t *testing.T) {
		_, err := llm.ResolveAPIKey(ctx, nil, ref)
		assert.Error(t, err)
	})
}
