// Package ingest turns uploaded attachments into a budget-aware document
// bundle that is merged into the user's turn.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unifiedui/docchat-service/internal/core/convert"
	"github.com/unifiedui/docchat-service/internal/core/tokens"
	domainerrors "github.com/unifiedui/docchat-service/internal/domain/errors"
	"github.com/unifiedui/docchat-service/internal/domain/models"
	"github.com/unifiedui/docchat-service/internal/domain/prompts"
)

// Notifier receives user-visible progress notices.
type Notifier interface {
	Notify(ctx context.Context, text string)
}

// Config holds configuration for the ingestor.
type Config struct {
	// SandboxDir is the only directory attachments may be read from.
	SandboxDir string

	// Whitelist lists extensions (with dot, case-sensitive) read as raw text.
	Whitelist []string

	Converter convert.Converter
	Counter   tokens.Counter
	Logger    *zerolog.Logger
}

// Bundle is the outcome of one ingestion pass.
type Bundle struct {
	Text    string
	Tokens  int
	Results []models.AttachmentResult
}

// Ingestor reads or converts attachments inside the upload sandbox.
type Ingestor struct {
	sandbox   string
	whitelist map[string]bool
	converter convert.Converter
	counter   tokens.Counter
	logger    zerolog.Logger
}

// NewIngestor creates a new ingestor.
func NewIngestor(cfg *Config) (*Ingestor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.SandboxDir == "" {
		return nil, fmt.Errorf("sandbox directory is required")
	}
	if cfg.Converter == nil {
		return nil, fmt.Errorf("converter is required")
	}
	if cfg.Counter == nil {
		return nil, fmt.Errorf("counter is required")
	}

	sandbox, err := filepath.Abs(cfg.SandboxDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sandbox directory: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(sandbox); err == nil {
		sandbox = resolved
	}

	whitelist := make(map[string]bool, len(cfg.Whitelist))
	for _, ext := range cfg.Whitelist {
		whitelist[ext] = true
	}

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Ingestor{
		sandbox:   sandbox,
		whitelist: whitelist,
		converter: cfg.Converter,
		counter:   cfg.Counter,
		logger:    logger.With().Str("component", "ingestor").Logger(),
	}, nil
}

// SandboxDir returns the resolved sandbox directory.
func (i *Ingestor) SandboxDir() string {
	return i.sandbox
}

// Ingest processes attachments in order. Each extracted document adds its
// token count to a running tally; once the tally reaches budget, further
// documents are omitted with a notice. Failed documents leave an error
// block in their position. Processed files are removed from the sandbox.
func (i *Ingestor) Ingest(ctx context.Context, attachments []models.Attachment, budget int, notify Notifier) (*Bundle, error) {
	if notify == nil {
		notify = discard{}
	}

	notify.Notify(ctx, prompts.DocumentProcessingStatus)

	var text strings.Builder
	results := make([]models.AttachmentResult, 0, len(attachments))
	tally := 0

	for idx, att := range attachments {
		if err := ctx.Err(); err != nil {
			i.cleanupRemaining(attachments[idx:])
			return nil, err
		}

		name := displayName(att)
		logger := i.logger.With().Str("file", name).Logger()

		path, err := i.resolve(att.Path)
		if err != nil {
			logger.Warn().Err(err).Msg("skipping attachment outside the upload directory")
			results = append(results, models.AttachmentResult{Name: name, Err: err, Skipped: true})
			continue
		}

		result := models.AttachmentResult{Name: name}
		content, err := i.extract(ctx, path)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to process attachment")
			result.Err = err
			text.WriteString(prompts.DocumentError(name, err))
		} else {
			result.Tokens = i.counter.Count(content)
			tally += result.Tokens

			if tally >= budget {
				logger.Info().Int("tokens", tally).Int("budget", budget).Msg("document omitted, token budget reached")
				notify.Notify(ctx, prompts.DocumentLimitWarning(name))
				result.Omitted = true
			} else {
				result.Text = content
				text.WriteString(prompts.DocumentItem(name, content))
			}
		}

		i.remove(path)
		results = append(results, result)
	}

	notify.Notify(ctx, prompts.DocumentSuccess)

	bundle := &Bundle{
		Text:    text.String(),
		Results: results,
	}
	bundle.Tokens = i.counter.Count(bundle.Text)
	return bundle, nil
}

// resolve returns the absolute, symlink-resolved path of p if it lies
// inside the sandbox.
func (i *Ingestor) resolve(p string) (string, error) {
	if p == "" {
		return "", domainerrors.NewPathViolationError(p, i.sandbox)
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return "", domainerrors.NewPathViolationError(p, i.sandbox)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	rel, err := filepath.Rel(i.sandbox, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", domainerrors.NewPathViolationError(p, i.sandbox)
	}
	return abs, nil
}

func (i *Ingestor) extract(ctx context.Context, path string) (string, error) {
	if i.whitelist[filepath.Ext(path)] {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	}
	return i.converter.Convert(ctx, path)
}

func (i *Ingestor) remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		cleanupErr := domainerrors.NewResourceCleanupError(path, err)
		i.logger.Error().Err(cleanupErr).Str("path", path).Msg("failed to remove attachment")
	}
}

// cleanupRemaining removes unprocessed files after cancellation. Paths
// outside the sandbox are left alone.
func (i *Ingestor) cleanupRemaining(attachments []models.Attachment) {
	for _, att := range attachments {
		if path, err := i.resolve(att.Path); err == nil {
			i.remove(path)
		}
	}
}

func displayName(att models.Attachment) string {
	if att.Name != "" {
		return att.Name
	}
	return filepath.Base(att.Path)
}

type discard struct{}

func (discard) Notify(context.Context, string) {}
