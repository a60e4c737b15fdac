// Package tokens defines the token counter used as the budget currency
// for documents and dialogue history.
package tokens

import (
	"math"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultCharsPerToken is the average number of characters per token
// for English text with BPE tokenizers.
const DefaultCharsPerToken = 4.0

// Counter converts text to a token count. Implementations must be safe
// for concurrent use.
type Counter interface {
	Count(text string) int
}

// CharCounter estimates tokens from the character count.
type CharCounter struct {
	CharsPerToken float64
}

// NewCharCounter creates a CharCounter with the default ratio.
func NewCharCounter() *CharCounter {
	return &CharCounter{CharsPerToken: DefaultCharsPerToken}
}

// Count returns ceil(runes / CharsPerToken).
func (c *CharCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	ratio := c.CharsPerToken
	if ratio <= 0 {
		ratio = DefaultCharsPerToken
	}
	return int(math.Ceil(float64(utf8.RuneCountInString(text)) / ratio))
}

// Config holds token counter configuration.
type Config struct {
	Encoding string
	Logger   *zerolog.Logger
}

// NewCounter returns a tiktoken counter for the configured encoding, or
// a CharCounter if the encoding cannot be loaded.
func NewCounter(cfg *Config) Counter {
	logger := log.Logger
	encoding := DefaultEncoding
	if cfg != nil {
		if cfg.Logger != nil {
			logger = *cfg.Logger
		}
		if cfg.Encoding != "" {
			encoding = cfg.Encoding
		}
	}

	counter, err := NewTiktokenCounter(encoding)
	if err != nil {
		logger.Warn().Err(err).Str("encoding", encoding).Msg("falling back to character-based token estimate")
		return NewCharCounter()
	}
	return counter
}
