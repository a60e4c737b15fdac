package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unifiedui/docchat-service/internal/api/dto"
	"github.com/unifiedui/docchat-service/internal/config"
)

// ModelsHandler lists the model catalog.
type ModelsHandler struct {
	catalog *config.ModelCatalog
}

// NewModelsHandler creates a new ModelsHandler.
func NewModelsHandler(catalog *config.ModelCatalog) *ModelsHandler {
	return &ModelsHandler{catalog: catalog}
}

// ListModels handles GET /models.
// @Summary List models
// @Description Returns the selectable models with their limits and the default selection
// @Tags Chat
// @Produce json
// @Success 200 {object} dto.ModelsResponse "Model catalog"
// @Router /api/v1/chat/models [get]
func (h *ModelsHandler) ListModels(c *gin.Context) {
	names := h.catalog.Names()
	resp := dto.ModelsResponse{
		Default: h.catalog.Default(),
		Models:  make([]*dto.ModelResponse, 0, len(names)),
	}

	for _, name := range names {
		spec, _ := h.catalog.Lookup(name)
		settings := h.catalog.Settings(name)
		resp.Models = append(resp.Models, &dto.ModelResponse{
			Name:             spec.Name,
			MaxTokensContext: spec.MaxTokensContext,
			MaxTokensOutput:  spec.MaxTokensOutput,
			MaxInputTokens:   settings.MaxInputTokens,
			Temperature:      spec.Temperature,
		})
	}

	c.JSON(http.StatusOK, resp)
}
