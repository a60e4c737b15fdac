// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	Cache     CacheConfig
	DocDB     DocDBConfig
	Vault     VaultConfig
	LLM       LLMConfig
	Converter ConverterConfig
	Tokens    TokensConfig
	Uploads   UploadsConfig
	Analytics AnalyticsConfig
	CORS      CORSConfig
	Log       LogConfig
	Chat      *ChatConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host          string
	Port          int
	GinMode       string
	MaxFrameBytes int64
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds cache-related configuration.
type CacheConfig struct {
	Type     string
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// DocDBConfig holds document database configuration.
type DocDBConfig struct {
	Type     string
	URI      string
	Database string
}

// VaultConfig holds vault configuration.
type VaultConfig struct {
	Type string
}

// LLMConfig holds the model backend configuration.
type LLMConfig struct {
	Type      string
	BaseURL   string
	APIKeyRef string
	Timeout   time.Duration
}

// ConverterConfig holds document converter configuration.
type ConverterConfig struct {
	Type         string
	DoclingURL   string
	Timeout      time.Duration
	CacheEnabled bool
	CacheTTL     time.Duration
}

// TokensConfig holds token counter configuration.
type TokensConfig struct {
	Encoding string
}

// UploadsConfig holds the attachment sandbox configuration.
type UploadsConfig struct {
	Dir      string
	MaxBytes int64
}

// AnalyticsConfig holds analytics sink configuration.
type AnalyticsConfig struct {
	Sinks  []string
	Stream string
}

// CORSConfig holds the allowed browser origins for HTTP and websocket requests.
type CORSConfig struct {
	AllowOrigins []string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// Load loads configuration from environment variables and the chat catalog file.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	chat, err := LoadChatConfig(getEnv("CHAT_CONFIG_PATH", "config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load chat config: %w", err)
	}
	chat.DefaultTemperature = getEnvAsFloat("DEFAULT_TEMPERATURE", chat.DefaultTemperature)

	cfg := &Config{
		Server: ServerConfig{
			Host:          getEnv("SERVER_HOST", "0.0.0.0"),
			Port:          getEnvAsInt("SERVER_PORT", 8080),
			GinMode:       getEnv("GIN_MODE", "debug"),
			MaxFrameBytes: int64(getEnvAsInt("WS_MAX_FRAME_BYTES", 4<<20)),
		},
		Cache: CacheConfig{
			Type:     getEnv("CACHE_TYPE", "redis"),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 3600)) * time.Second,
		},
		DocDB: DocDBConfig{
			Type:     getEnv("DOCDB_TYPE", "none"),
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "docchat"),
		},
		Vault: VaultConfig{
			Type: getEnv("VAULT_TYPE", "dotenv"),
		},
		LLM: LLMConfig{
			Type:      getEnv("LLM_TYPE", "openai"),
			BaseURL:   getEnv("OPENAI_BASE_URL", chat.OpenAI.BaseURL),
			APIKeyRef: getEnv("OPENAI_API_KEY_REF", chat.OpenAI.APIKeyRef),
			Timeout:   time.Duration(getEnvAsInt("LLM_TIMEOUT_SECONDS", 600)) * time.Second,
		},
		Converter: ConverterConfig{
			Type:         getEnv("CONVERTER_TYPE", "docling"),
			DoclingURL:   getEnv("DOCLING_URL", "http://localhost:5001"),
			Timeout:      time.Duration(getEnvAsInt("CONVERTER_TIMEOUT_SECONDS", 120)) * time.Second,
			CacheEnabled: getEnvAsBool("CONVERTER_CACHE_ENABLED", true),
			CacheTTL:     time.Duration(getEnvAsInt("CONVERTER_CACHE_TTL_SECONDS", 86400)) * time.Second,
		},
		Tokens: TokensConfig{
			Encoding: getEnv("TOKEN_ENCODING", "cl100k_base"),
		},
		Uploads: UploadsConfig{
			Dir:      getEnv("UPLOADS_DIR", ".files"),
			MaxBytes: int64(getEnvAsInt("UPLOADS_MAX_BYTES", 32<<20)),
		},
		Analytics: AnalyticsConfig{
			Sinks:  getEnvAsList("ANALYTICS_SINKS", []string{"log"}),
			Stream: getEnv("ANALYTICS_STREAM", "analytics:chat"),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnvAsList("CORS_ALLOW_ORIGINS", []string{
				"http://localhost:5173",
				"http://localhost:3000",
			}),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			File:   getEnv("LOG_FILE", chat.Logging.LogFile),
		},
		Chat: chat,
	}

	return cfg, nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat gets an environment variable as a float with a default value.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as a boolean with a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsList gets a comma-separated environment variable as a list.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
