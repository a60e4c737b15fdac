package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/docchat-service/internal/config"
)

const testCatalog = `
model:
  default_selection: small
  models:
    - name: small
      max_tokens_context: 8000
      max_tokens_output: 512
      temperature: 0.1
    - name: large
      max_tokens_context: 128000
file_format_whitelist: [".txt", ".md"]
context_token_buffer: 1000
default_max_tokens_output: 2048
default_temperature: 0.7
chat:
  app_name: Test Chat
openai:
  base_url: http://llm.local/v1
logging:
  log_file: chat.log
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseChatConfig_Defaults(t *testing.T) {
	cfg, err := config.ParseChatConfig([]byte(testCatalog))
	require.NoError(t, err)

	assert.Equal(t, "Test Chat", cfg.Chat.AppName)
	assert.Equal(t, config.DefaultSystemPrompt, cfg.Chat.SystemPrompt)
	assert.Equal(t, config.DefaultWelcome, cfg.Chat.Welcome)
	assert.Equal(t, config.DefaultAPIKeyRef, cfg.OpenAI.APIKeyRef)
	assert.Equal(t, []string{".txt", ".md"}, cfg.FileFormatWhitelist)
}

func TestParseChatConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"no models", "model:\n  default_selection: a\n", "at least one model is required"},
		{"unknown default", "model:\n  default_selection: b\n  models:\n    - name: a\n      max_tokens_context: 10\n", "not in the catalog"},
		{"duplicate", "model:\n  default_selection: a\n  models:\n    - name: a\n      max_tokens_context: 10\n    - name: a\n      max_tokens_context: 10\n", "duplicate model"},
		{"zero context", "model:\n  default_selection: a\n  models:\n    - name: a\n", "must be positive"},
		{"bad yaml", "model: [", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.ParseChatConfig([]byte(tt.content))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestModelCatalog_Settings(t *testing.T) {
	cfg, err := config.ParseChatConfig([]byte(testCatalog))
	require.NoError(t, err)
	catalog := cfg.Catalog()

	assert.Equal(t, []string{"small", "large"}, catalog.Names())
	assert.Equal(t, "small", catalog.Default())

	small := catalog.Settings("small")
	assert.Equal(t, "small", small.Model)
	assert.Equal(t, 7000, small.MaxInputTokens)
	assert.Equal(t, 512, small.MaxOutputTokens)
	assert.InDelta(t, 0.1, small.Temperature, 1e-9)

	// Missing per-model values fall back to catalog defaults.
	large := catalog.Settings("large")
	assert.Equal(t, 127000, large.MaxInputTokens)
	assert.Equal(t, 2048, large.MaxOutputTokens)
	assert.InDelta(t, 0.7, large.Temperature, 1e-9)
}

func TestModelCatalog_UnknownModelFallsBackToDefault(t *testing.T) {
	cfg, err := config.ParseChatConfig([]byte(testCatalog))
	require.NoError(t, err)
	catalog := cfg.Catalog()

	_, ok := catalog.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, "small", catalog.Resolve("missing").Name)
	assert.Equal(t, catalog.Settings("small"), catalog.Settings("missing"))
}

func TestModelCatalog_NamesReturnsCopy(t *testing.T) {
	cfg, err := config.ParseChatConfig([]byte(testCatalog))
	require.NoError(t, err)
	catalog := cfg.Catalog()

	names := catalog.Names()
	names[0] = "mutated"
	assert.Equal(t, "small", catalog.Names()[0])
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CHAT_CONFIG_PATH", writeCatalog(t, testCatalog))
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ANALYTICS_SINKS", "log, redis,,docdb")
	t.Setenv("CONVERTER_CACHE_ENABLED", "false")
	t.Setenv("DEFAULT_TEMPERATURE", "0.5")
	t.Setenv("LLM_TIMEOUT_SECONDS", "30")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Address())
	assert.Equal(t, []string{"log", "redis", "docdb"}, cfg.Analytics.Sinks)
	assert.False(t, cfg.Converter.CacheEnabled)
	assert.InDelta(t, 0.5, cfg.Chat.DefaultTemperature, 1e-9)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "http://llm.local/v1", cfg.LLM.BaseURL)
	assert.Equal(t, config.DefaultAPIKeyRef, cfg.LLM.APIKeyRef)
	assert.Equal(t, "chat.log", cfg.Log.File)
}

func TestLoad_EnvOverridesCatalog(t *testing.T) {
	t.Setenv("CHAT_CONFIG_PATH", writeCatalog(t, testCatalog))
	t.Setenv("OPENAI_BASE_URL", "http://override/v1")
	t.Setenv("LOG_FILE", "override.log")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://override/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "override.log", cfg.Log.File)
}

func TestLoad_MissingCatalog(t *testing.T) {
	t.Setenv("CHAT_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := config.Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to load chat config")
}
