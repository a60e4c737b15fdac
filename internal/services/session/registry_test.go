package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/unifiedui/docchat-service/internal/domain/errors"
	"github.com/unifiedui/docchat-service/internal/services/session"
)

func TestRegistry_Lifecycle(t *testing.T) {
	registry := session.NewRegistry()

	s, err := registry.Open("conn-1")
	require.NoError(t, err)
	assert.Equal(t, "conn-1", s.ID)
	assert.Equal(t, session.StateUninitialized, s.State())
	assert.Equal(t, 1, registry.Len())

	got, ok := registry.Get("conn-1")
	require.True(t, ok)
	assert.Same(t, s, got)

	_, err = registry.Open("conn-1")
	require.Error(t, err)
	domainErr, ok := domainerrors.GetDomainError(err)
	require.True(t, ok)
	assert.Equal(t, domainerrors.ErrCodeConflict, domainErr.Code)

	closed, ok := registry.Close("conn-1")
	require.True(t, ok)
	assert.Same(t, s, closed)
	assert.Zero(t, registry.Len())

	_, ok = registry.Close("conn-1")
	assert.False(t, ok)
}

func TestRegistry_RequiresID(t *testing.T) {
	_, err := session.NewRegistry().Open("")
	assert.True(t, domainerrors.IsValidationError(err))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "uninitialized", session.StateUninitialized.String())
	assert.Equal(t, "active", session.StateActive.String())
	assert.Equal(t, "ended", session.StateEnded.String())
}
