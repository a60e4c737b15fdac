// Package openai provides a streaming client for OpenAI-compatible
// chat-completion endpoints (OpenAI, Ollama, vLLM, llama.cpp and others).
package openai

import (
	"time"

	"github.com/unifiedui/docchat-service/internal/domain/models"
)

// ClientConfig holds configuration for the chat-completions client.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// ChatRequest is a streaming chat-completion request.
type ChatRequest struct {
	Model       string
	Messages    []models.Message
	Temperature float64
	MaxTokens   int
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type streamChunk struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Choices []streamChoice `json:"choices"`
	Error   *apiError      `json:"error,omitempty"`
}

type streamChoice struct {
	Index        int         `json:"index"`
	Delta        streamDelta `json:"delta"`
	FinishReason *string     `json:"finish_reason"`
}

type streamDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
