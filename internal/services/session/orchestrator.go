package session

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unifiedui/docchat-service/internal/config"
	coreanalytics "github.com/unifiedui/docchat-service/internal/core/analytics"
	"github.com/unifiedui/docchat-service/internal/core/tokens"
	domainerrors "github.com/unifiedui/docchat-service/internal/domain/errors"
	"github.com/unifiedui/docchat-service/internal/domain/models"
	"github.com/unifiedui/docchat-service/internal/domain/prompts"
	"github.com/unifiedui/docchat-service/internal/services/analytics"
	"github.com/unifiedui/docchat-service/internal/services/conversation"
	"github.com/unifiedui/docchat-service/internal/services/ingest"
	"github.com/unifiedui/docchat-service/internal/services/streamer"
)

// SessionAnalyticsEvent is the event recorded once when a session ends.
const SessionAnalyticsEvent = "chat_session_analytics"

// Ingestor builds the document bundle for a turn.
type Ingestor interface {
	Ingest(ctx context.Context, attachments []models.Attachment, budget int, notify ingest.Notifier) (*ingest.Bundle, error)
}

// Streamer runs the model call for a turn.
type Streamer interface {
	Run(ctx context.Context, history *conversation.History, settings config.ModelSettings, out streamer.Output) (*streamer.Result, error)
}

// Config holds the configuration for the orchestrator.
type Config struct {
	Catalog  *config.ModelCatalog
	Texts    config.ChatSection
	Ingestor Ingestor
	Streamer Streamer
	Counter  tokens.Counter
	Sink     coreanalytics.Sink
	Logger   *zerolog.Logger
}

// Turn is one user message with its attachments.
type Turn struct {
	Content     string
	Attachments []models.Attachment
}

// Orchestrator drives sessions through their lifecycle. It is shared by
// all sessions and holds no per-session state.
type Orchestrator struct {
	catalog  *config.ModelCatalog
	texts    config.ChatSection
	ingestor Ingestor
	streamer Streamer
	counter  tokens.Counter
	sink     coreanalytics.Sink
	logger   zerolog.Logger
}

// NewOrchestrator creates a new orchestrator.
func NewOrchestrator(cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("model catalog is required")
	}
	if cfg.Ingestor == nil {
		return nil, fmt.Errorf("ingestor is required")
	}
	if cfg.Streamer == nil {
		return nil, fmt.Errorf("streamer is required")
	}
	if cfg.Counter == nil {
		return nil, fmt.Errorf("counter is required")
	}
	if cfg.Sink == nil {
		return nil, fmt.Errorf("analytics sink is required")
	}

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Orchestrator{
		catalog:  cfg.Catalog,
		texts:    cfg.Texts,
		ingestor: cfg.Ingestor,
		streamer: cfg.Streamer,
		counter:  cfg.Counter,
		sink:     cfg.Sink,
		logger:   logger,
	}, nil
}

// Start initializes the session with the system prompt and the default
// model, then presents the welcome text and model options.
func (o *Orchestrator) Start(ctx context.Context, s *Session, t Transport) error {
	s.mu.Lock()
	if s.state != StateUninitialized {
		state := s.state
		s.mu.Unlock()
		return domainerrors.NewInvalidStateError("start", state.String())
	}
	s.history = conversation.NewHistory(o.texts.SystemPrompt, o.counter)
	s.settings = o.catalog.Settings(o.catalog.Default())
	s.tracker = analytics.NewTracker()
	s.state = StateActive
	settings := s.settings
	s.mu.Unlock()

	o.logger.Info().
		Str("session_id", s.ID).
		Str("model", settings.Model).
		Int("max_input_tokens", settings.MaxInputTokens).
		Msg("chat_initiated")

	t.PresentOptions(ctx, o.texts.AppName, o.texts.Welcome, o.catalog.Names(), o.catalog.Default())
	return nil
}

// UpdateSettings switches the session to model. Unknown models fall back
// to the catalog default. The history is not changed.
func (o *Orchestrator) UpdateSettings(ctx context.Context, s *Session, model string) (config.ModelSettings, error) {
	logger := o.logger.With().Str("session_id", s.ID).Logger()

	if _, ok := o.catalog.Lookup(model); !ok {
		logger.Warn().Str("model", model).Str("default", o.catalog.Default()).Msg("unknown model, using default")
	}
	settings := o.catalog.Settings(model)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return config.ModelSettings{}, domainerrors.NewInvalidStateError("settings update", s.state.String())
	}
	s.settings = settings

	logger.Info().
		Str("model", settings.Model).
		Int("max_input_tokens", settings.MaxInputTokens).
		Int("max_output_tokens", settings.MaxOutputTokens).
		Float64("temperature", settings.Temperature).
		Msg("model settings updated")
	return settings, nil
}

// HandleTurn processes one user turn: ingest attachments, record
// analytics, append the user message, enforce the token budget and
// stream the reply. Only one turn per session runs at a time.
func (o *Orchestrator) HandleTurn(ctx context.Context, s *Session, t Transport, turn Turn) error {
	if !s.turnMu.TryLock() {
		return domainerrors.NewTurnInFlightError(s.ID)
	}
	defer s.turnMu.Unlock()

	s.mu.RLock()
	state, settings, history, tracker := s.state, s.settings, s.history, s.tracker
	s.mu.RUnlock()

	if state != StateActive {
		return domainerrors.NewInvalidStateError("turn", state.String())
	}

	logger := o.logger.With().Str("session_id", s.ID).Str("model", settings.Model).Logger()

	content := turn.Content
	bundleTokens := 0
	if len(turn.Attachments) > 0 {
		bundle, err := o.ingestor.Ingest(ctx, turn.Attachments, settings.MaxInputTokens, t)
		if err != nil {
			return fmt.Errorf("failed to ingest attachments: %w", err)
		}
		content = prompts.DocumentProcessing(turn.Content, bundle.Text)
		bundleTokens = bundle.Tokens
	}

	fileTypes := make([]string, 0, len(turn.Attachments))
	for _, att := range turn.Attachments {
		fileTypes = append(fileTypes, att.FileType())
	}
	tracker.RecordAttachments(fileTypes, bundleTokens)
	tracker.RecordUserMessage(o.counter.Count(turn.Content))

	history.AppendUser(content)

	logger.Debug().
		Int("tokens", history.TotalTokens()).
		Int("max_tokens", settings.MaxInputTokens).
		Msg("history size before budget check")

	if trimmed, removed := history.EnforceBudget(settings.MaxInputTokens); trimmed {
		logger.Info().Int("removed", removed).Int("tokens", history.TotalTokens()).Msg("history trimmed to fit context window")
		t.Notify(ctx, prompts.ContextTrimmed)
	}

	if _, err := o.streamer.Run(ctx, history, settings, t); err != nil {
		return err
	}
	return nil
}

// End flushes the session analytics once. Later calls do nothing.
func (o *Orchestrator) End(ctx context.Context, s *Session) {
	s.mu.Lock()
	if s.state == StateEnded {
		s.mu.Unlock()
		return
	}
	s.state = StateEnded
	tracker := s.tracker
	s.mu.Unlock()

	logger := o.logger.With().Str("session_id", s.ID).Logger()

	if tracker == nil {
		logger.Warn().Msg("analytics not available at chat end")
		return
	}

	fields := tracker.Summary().Fields()
	fields["session_id"] = s.ID

	// The connection context is usually cancelled by now.
	if err := o.sink.Record(context.WithoutCancel(ctx), SessionAnalyticsEvent, fields); err != nil {
		logger.Error().Err(err).Msg("failed to record session analytics")
	}
}
