// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"github.com/unifiedui/docchat-service/internal/config"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

// ModelResponse describes one selectable model.
type ModelResponse struct {
	Name             string  `json:"name"`
	MaxTokensContext int     `json:"maxTokensContext"`
	MaxTokensOutput  int     `json:"maxTokensOutput"`
	MaxInputTokens   int     `json:"maxInputTokens"`
	Temperature      float64 `json:"temperature"`
}

// ModelsResponse represents the response for listing models.
type ModelsResponse struct {
	Default string           `json:"default"`
	Models  []*ModelResponse `json:"models"`
}

// UploadResponse represents the response for an uploaded attachment.
type UploadResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// Outgoing websocket frame types.
const (
	FrameConnected = "connected"
	FrameWelcome   = "welcome"
	FrameOptions   = "options"
	FrameNotice    = "notice"
	FrameToken     = "token"
	FrameStreamEnd = "stream_end"
	FrameError     = "error"
)

// OutgoingFrame is a frame sent by the server over the websocket. The
// settings acknowledgement reuses FrameSettings.
type OutgoingFrame struct {
	Type         string                `json:"type"`
	SessionID    string                `json:"sessionId,omitempty"`
	Content      string                `json:"content,omitempty"`
	AppName      string                `json:"appName,omitempty"`
	Models       []string              `json:"models,omitempty"`
	DefaultModel string                `json:"defaultModel,omitempty"`
	Settings     *config.ModelSettings `json:"settings,omitempty"`
	Code         string                `json:"code,omitempty"`
}
