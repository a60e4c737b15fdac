// Package streamer runs a model call and streams its fragments to the
// transport while folding the reply back into the history.
package streamer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unifiedui/docchat-service/internal/config"
	domainerrors "github.com/unifiedui/docchat-service/internal/domain/errors"
	"github.com/unifiedui/docchat-service/internal/domain/prompts"
	"github.com/unifiedui/docchat-service/internal/services/conversation"
	"github.com/unifiedui/docchat-service/internal/services/llm"
)

// Output receives the streamed response.
type Output interface {
	StreamFragment(ctx context.Context, text string)
	CompleteStream(ctx context.Context, text string)
	Notify(ctx context.Context, text string)
}

// Config holds configuration for the streamer.
type Config struct {
	Client llm.Client
	Logger *zerolog.Logger
}

// Result describes a finished stream.
type Result struct {
	Content   string
	Fragments int
	Partial   bool
}

// Streamer drives one model call per turn.
type Streamer struct {
	client llm.Client
	logger zerolog.Logger
}

// NewStreamer creates a new streamer.
func NewStreamer(cfg *Config) (*Streamer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Client == nil {
		return nil, fmt.Errorf("llm client is required")
	}

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Streamer{
		client: cfg.Client,
		logger: logger.With().Str("component", "streamer").Logger(),
	}, nil
}

// Run sends the history to the model and forwards every fragment to out
// as it arrives. On success the full reply is appended to the history.
// If the stream stops after some fragments arrived, the partial reply is
// committed as the assistant message.
func (s *Streamer) Run(ctx context.Context, history *conversation.History, settings config.ModelSettings, out Output) (*Result, error) {
	logger := s.logger.With().Str("model", settings.Model).Logger()

	stream, err := s.client.StreamChat(ctx, &llm.ChatRequest{
		Messages:        history.Messages(),
		Model:           settings.Model,
		Temperature:     settings.Temperature,
		MaxOutputTokens: settings.MaxOutputTokens,
	})
	if err != nil {
		return nil, s.fail(ctx, settings.Model, err, out)
	}
	defer stream.Close()

	var content strings.Builder
	result := &Result{}

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return s.interrupted(ctx, history, &content, result, ctxErr, logger)
		}

		fragment, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return s.interrupted(ctx, history, &content, result, ctxErr, logger)
			}
			if result.Fragments == 0 {
				return nil, s.fail(ctx, settings.Model, err, out)
			}

			result.Content = content.String()
			result.Partial = true
			history.AppendAssistant(result.Content)
			logger.Warn().Err(err).Int("fragments", result.Fragments).Msg("stream interrupted, partial reply committed")
			out.Notify(ctx, prompts.StreamInterrupted)
			return result, domainerrors.NewClientError(settings.Model, err)
		}

		if fragment == "" {
			continue
		}
		result.Fragments++
		content.WriteString(fragment)
		out.StreamFragment(ctx, fragment)
	}

	result.Content = content.String()
	history.AppendAssistant(result.Content)
	out.CompleteStream(ctx, result.Content)

	logger.Debug().Int("fragments", result.Fragments).Int("chars", len(result.Content)).Msg("stream completed")
	return result, nil
}

// interrupted handles cancellation. Partial content is committed; with
// nothing received the history is left untouched.
func (s *Streamer) interrupted(ctx context.Context, history *conversation.History, content *strings.Builder, result *Result, ctxErr error, logger zerolog.Logger) (*Result, error) {
	if result.Fragments == 0 {
		logger.Info().Err(ctxErr).Msg("stream cancelled before any fragment")
		return nil, ctxErr
	}

	result.Content = content.String()
	result.Partial = true
	history.AppendAssistant(result.Content)
	logger.Info().Int("fragments", result.Fragments).Msg("stream cancelled, partial reply committed")
	return result, nil
}

func (s *Streamer) fail(ctx context.Context, model string, err error, out Output) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return ctxErr
	}

	s.logger.Error().Err(err).Str("model", model).Msg("model request failed")
	out.Notify(ctx, prompts.ModelError(err))
	return domainerrors.NewClientError(model, err)
}
