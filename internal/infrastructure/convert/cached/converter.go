// Package cached provides a converter decorator that caches results by file content.
package cached

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/zeebo/blake3"

	"github.com/unifiedui/docchat-service/internal/core/cache"
	"github.com/unifiedui/docchat-service/internal/core/convert"
)

// KeyPrefix prefixes every converter cache key.
const KeyPrefix = "convert:"

// Config holds configuration for the caching converter.
type Config struct {
	Inner  convert.Converter
	Cache  cache.Cache
	TTL    time.Duration
	Logger *zerolog.Logger
}

// Converter serves conversions from the cache and fills it on a miss.
type Converter struct {
	inner  convert.Converter
	cache  cache.Cache
	ttl    time.Duration
	logger zerolog.Logger
}

// NewConverter creates a new caching converter.
func NewConverter(cfg *Config) (*Converter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Inner == nil {
		return nil, fmt.Errorf("inner converter is required")
	}
	if cfg.Cache == nil {
		return nil, fmt.Errorf("cache is required")
	}

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Converter{
		inner:  cfg.Inner,
		cache:  cfg.Cache,
		ttl:    cfg.TTL,
		logger: logger.With().Str("component", "converter_cache").Logger(),
	}, nil
}

// Convert implements convert.Converter. Cache failures are logged and
// never fail the conversion.
func (c *Converter) Convert(ctx context.Context, path string) (string, error) {
	key, err := Key(path)
	if err != nil {
		c.logger.Debug().Err(err).Str("file", filepath.Base(path)).Msg("skipping cache for unreadable file")
		return c.inner.Convert(ctx, path)
	}

	cached, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("converter cache lookup failed")
	} else if cached != nil {
		c.logger.Debug().Str("key", key).Msg("converter cache hit")
		return string(cached), nil
	}

	text, err := c.inner.Convert(ctx, path)
	if err != nil {
		return "", err
	}

	if text != "" {
		if err := c.cache.Set(ctx, key, []byte(text), c.ttl); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("converter cache store failed")
		}
	}
	return text, nil
}

// Key returns the cache key for the file at path: the blake3 digest of
// its content plus its lower-cased extension.
func Key(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}

	return KeyPrefix + hex.EncodeToString(hasher.Sum(nil)) + ":" + strings.ToLower(filepath.Ext(path)), nil
}
