package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unifiedui/docchat-service/internal/config"
	"github.com/unifiedui/docchat-service/internal/domain/models"
)

// Test constants
const (
	TestSessionID = "session-test-123"
	TestAppName   = "Test Chat"
	TestWelcome   = "Hi there"
	TestPrompt    = "sys"
)

// TestCatalogYAML is a small two-model chat catalog. The default model has
// a 100 token input budget.
const TestCatalogYAML = `
model:
  default_selection: small
  models:
    - name: small
      max_tokens_context: 100
      max_tokens_output: 64
      temperature: 0.1
    - name: large
      max_tokens_context: 10000
      max_tokens_output: 512
file_format_whitelist: [".txt"]
context_token_buffer: 0
chat:
  app_name: Test Chat
  welcome: Hi there
  system_prompt: sys
`

// NewTestChatConfig parses TestCatalogYAML.
func NewTestChatConfig(t *testing.T) *config.ChatConfig {
	t.Helper()
	chat, err := config.ParseChatConfig([]byte(TestCatalogYAML))
	require.NoError(t, err)
	return chat
}

// WriteAttachment writes content into dir and returns an attachment for it.
func WriteAttachment(t *testing.T, dir, name, content string) models.Attachment {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return models.Attachment{Name: name, Path: path}
}
