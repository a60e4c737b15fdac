// Package docling provides a converter backed by a docling-serve endpoint.
package docling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	domainerrors "github.com/unifiedui/docchat-service/internal/domain/errors"
)

const convertPath = "/v1/convert/file"

// ClientConfig holds configuration for the docling-serve client.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Client converts documents to markdown through docling-serve.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type convertResponse struct {
	Document struct {
		Filename  string `json:"filename"`
		MDContent string `json:"md_content"`
	} `json:"document"`
	Status string        `json:"status"`
	Errors []interface{} `json:"errors"`
}

// NewClient creates a new docling-serve client.
func NewClient(config *ClientConfig) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	return &Client{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Convert uploads the file at path and returns the markdown rendering.
func (c *Client) Convert(ctx context.Context, path string) (string, error) {
	name := filepath.Base(path)

	body, contentType, err := buildMultipart(path)
	if err != nil {
		return "", domainerrors.NewConversionError(name, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+convertPath, body)
	if err != nil {
		return "", domainerrors.NewConversionError(name, fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", domainerrors.NewConversionError(name, fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domainerrors.NewConversionError(name, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return "", domainerrors.NewConversionError(name,
			fmt.Errorf("docling API error: status=%d, body=%s", resp.StatusCode, strings.TrimSpace(string(respBody))))
	}

	var result convertResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", domainerrors.NewConversionError(name, fmt.Errorf("failed to parse response: %w", err))
	}

	if result.Status != "" && result.Status != "success" {
		return "", domainerrors.NewConversionError(name, fmt.Errorf("conversion status %s: %v", result.Status, result.Errors))
	}

	return result.Document.MDContent, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func buildMultipart(path string) (io.Reader, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("to_formats", "md"); err != nil {
		return nil, "", fmt.Errorf("failed to write form field: %w", err)
	}

	part, err := writer.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("failed to copy file: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}
