// Package llm defines the streaming chat-completion capability used to talk
// to a model backend.
package llm

import (
	"context"

	"github.com/unifiedui/docchat-service/internal/domain/models"
)

// ChatRequest is a single chat-completion request.
type ChatRequest struct {
	Messages        []models.Message
	Model           string
	Temperature     float64
	MaxOutputTokens int
}

// Stream yields response fragments in order. Next returns io.EOF once the
// response is complete. Closing the stream aborts the underlying request.
type Stream interface {
	Next() (string, error)
	Close() error
}

// Client opens streaming chat completions.
type Client interface {
	// StreamChat sends the request and returns a stream of content fragments.
	StreamChat(ctx context.Context, req *ChatRequest) (Stream, error)

	// Close releases client resources.
	Close() error
}

// Type represents the type of model backend.
type Type string

const (
	// TypeOpenAI is any OpenAI-compatible chat-completions endpoint.
	TypeOpenAI Type = "openai"
)
