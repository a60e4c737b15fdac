package docling_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/unifiedui/docchat-service/internal/domain/errors"
	"github.com/unifiedui/docchat-service/internal/infrastructure/convert/docling"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewClient_Validation(t *testing.T) {
	_, err := docling.NewClient(nil)
	assert.EqualError(t, err, "config is required")

	_, err = docling.NewClient(&docling.ClientConfig{})
	assert.EqualError(t, err, "base URL is required")
}

func TestClient_Convert(t *testing.T) {
	var gotFormat, gotFilename, gotContent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/convert/file", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		if assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			gotFormat = r.FormValue("to_formats")
			file, header, err := r.FormFile("files")
			if assert.NoError(t, err) {
				defer file.Close()
				data, _ := io.ReadAll(file)
				gotFilename = header.Filename
				gotContent = string(data)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"document":{"filename":"report.pdf","md_content":"# Report\n\nBody"},"status":"success","errors":[]}`))
	}))
	defer server.Close()

	client, err := docling.NewClient(&docling.ClientConfig{BaseURL: server.URL + "/"})
	require.NoError(t, err)
	defer client.Close()

	markdown, err := client.Convert(context.Background(), writeFile(t, "report.pdf", "%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, "# Report\n\nBody", markdown)
	assert.Equal(t, "md", gotFormat)
	assert.Equal(t, "report.pdf", gotFilename)
	assert.Equal(t, "%PDF-1.4", gotContent)
}

func TestClient_ConvertErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		errPart string
	}{
		{"server error", http.StatusInternalServerError, "boom", "status=500"},
		{"failed status", http.StatusOK, `{"document":{},"status":"failure","errors":["bad file"]}`, "conversion status failure"},
		{"invalid json", http.StatusOK, `not json`, "failed to parse response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := docling.NewClient(&docling.ClientConfig{BaseURL: server.URL})
			require.NoError(t, err)

			_, err = client.Convert(context.Background(), writeFile(t, "a.docx", "data"))
			require.Error(t, err)
			assert.True(t, domainerrors.IsConversionError(err))
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestClient_ConvertMissingFile(t *testing.T) {
	client, err := docling.NewClient(&docling.ClientConfig{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = client.Convert(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.True(t, domainerrors.IsConversionError(err))
	assert.Contains(t, err.Error(), "failed to open file")
}
