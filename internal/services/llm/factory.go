package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/unifiedui/docchat-service/internal/services/llm/openai"
)

// Config holds configuration for creating a model backend client.
type Config struct {
	Type    Type
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewClient creates the model backend client for the configured type.
func NewClient(config *Config) (Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	switch config.Type {
	case TypeOpenAI, "":
		client, err := openai.NewClient(&openai.ClientConfig{
			BaseURL: config.BaseURL,
			APIKey:  config.APIKey,
			Timeout: config.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
		return &openaiAdapter{client}, nil
	default:
		return nil, fmt.Errorf("unsupported llm type: %s", config.Type)
	}
}

// openaiAdapter adapts openai.Client to the Client interface.
type openaiAdapter struct {
	client *openai.Client
}

func (a *openaiAdapter) StreamChat(ctx context.Context, req *ChatRequest) (Stream, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}

	stream, err := a.client.StreamChat(ctx, &openai.ChatRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxOutputTokens,
	})
	if err != nil {
		return nil, err
	}
	return stream, nil
}

func (a *openaiAdapter) Close() error {
	return a.client.Close()
}
