package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/docchat-service/internal/api/dto"
	"github.com/unifiedui/docchat-service/internal/api/handlers"
	"github.com/unifiedui/docchat-service/tests/testutils"
)

func TestModelsHandler_ListModels(t *testing.T) {
	handler := handlers.NewModelsHandler(testutils.NewTestChatConfig(t).Catalog())

	router := testutils.SetupTestRouter()
	router.GET("/models", handler.ListModels)

	w := testutils.PerformRequest(router, "GET", "/models", nil, nil)
	testutils.AssertStatusCode(t, http.StatusOK, w)

	var response dto.ModelsResponse
	testutils.ParseJSONResponse(t, w, &response)

	assert.Equal(t, "small", response.Default)
	require.Len(t, response.Models, 2)
	assert.Equal(t, dto.ModelResponse{
		Name:             "small",
		MaxTokensContext: 100,
		MaxTokensOutput:  64,
		MaxInputTokens:   100,
		Temperature:      0.1,
	}, *response.Models[0])
	assert.Equal(t, "large", response.Models[1].Name)
}
