package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client implements streaming chat completions against an OpenAI-compatible API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new chat-completions client.
func NewClient(config *ClientConfig) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Minute // Long timeout for streaming
	}

	return &Client{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		apiKey:  config.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// StreamChat sends a chat-completion request with stream=true and returns
// a Stream over the content deltas.
func (c *Client) StreamChat(ctx context.Context, req *ChatRequest) (*Stream, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}

	payload := &chatCompletionRequest{
		Model:       req.Model,
		Messages:    make([]chatMessage, 0, len(req.Messages)),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stream:      true,
	}
	for _, msg := range req.Messages {
		payload.Messages = append(payload.Messages, chatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("openai API error: status=%d, body=%s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	return &Stream{
		body:    resp.Body,
		scanner: newSSEScanner(resp.Body),
	}, nil
}

// Close releases any resources held by the client.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// Stream reads content fragments from a chat-completion SSE response.
type Stream struct {
	body    io.ReadCloser
	scanner *sseScanner
	done    bool
	closed  bool
}

// Next returns the next non-empty content fragment. It returns io.EOF
// once the server sends [DONE] or closes the response.
func (s *Stream) Next() (string, error) {
	if s.done || s.closed {
		return "", io.EOF
	}

	for {
		if !s.scanner.Next() {
			if err := s.scanner.Err(); err != nil {
				return "", fmt.Errorf("failed to read stream: %w", err)
			}
			s.done = true
			return "", io.EOF
		}

		event := s.scanner.Event()
		if event.Data == "[DONE]" {
			s.done = true
			return "", io.EOF
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(event.Data), &chunk); err != nil {
			return "", fmt.Errorf("failed to parse stream chunk: %w", err)
		}

		if chunk.Error != nil && chunk.Error.Message != "" {
			return "", fmt.Errorf("openai stream error: %s: %s", chunk.Error.Type, chunk.Error.Message)
		}

		if len(chunk.Choices) == 0 {
			continue
		}
		if content := chunk.Choices[0].Delta.Content; content != "" {
			return content, nil
		}
	}
}

// Close closes the response body, aborting the request if it is still running.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}
