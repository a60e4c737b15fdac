package llm_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/docchat-service/internal/domain/models"
	"github.com/unifiedui/docchat-service/internal/services/llm"
)

func TestNewClient_Validation(t *testing.T) {
	_, err := llm.NewClient(nil)
	assert.EqualError(t, err, "config is required")

	_, err = llm.NewClient(&llm.Config{Type: "bedrock", BaseURL: "http://x"})
	assert.EqualError(t, err, "unsupported llm type: bedrock")

	_, err = llm.NewClient(&llm.Config{Type: llm.TypeOpenAI})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base URL is required")
}

func TestNewClient_OpenAIStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client, err := llm.NewClient(&llm.Config{Type: llm.TypeOpenAI, BaseURL: server.URL})
	require.NoError(t, err)
	defer client.Close()

	stream, err := client.StreamChat(context.Background(), &llm.ChatRequest{
		Model:           "m",
		Messages:        []models.Message{models.NewUserMessage("hi")},
		MaxOutputTokens: 16,
	})
	require.NoError(t, err)
	defer stream.Close()

	fragment, err := stream.Next()
	require.NoError(t, err)
	assert.Equal(t, "ok", fragment)

	_, err = stream.Next()
	assert.Equal(t, io.EOF, err)

	_, err = client.StreamChat(context.Background(), nil)
	assert.EqualError(t, err, "request is required")
}
