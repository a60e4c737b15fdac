// Package handlers provides HTTP handlers for the API.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unifiedui/docchat-service/internal/api/dto"
	"github.com/unifiedui/docchat-service/internal/core/cache"
	"github.com/unifiedui/docchat-service/internal/core/docdb"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints. The cache and document
// database are optional; a nil client is left out of the report.
type HealthHandler struct {
	components map[string]pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(cacheClient cache.Client, docDBClient docdb.Client) *HealthHandler {
	components := make(map[string]pinger)
	if cacheClient != nil {
		components["cache"] = cacheClient
	}
	if docDBClient != nil {
		components["docdb"] = docDBClient
	}
	return &HealthHandler{components: components}
}

// Health handles the /health endpoint.
// @Summary Health check
// @Description Returns the overall health status and component statuses
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service healthy"
// @Failure 503 {object} dto.HealthResponse "Service unhealthy"
// @Router /api/v1/chat/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	components := make(map[string]string, len(h.components))
	healthy := true

	for name, component := range h.components {
		if err := component.Ping(c.Request.Context()); err != nil {
			components[name] = "unhealthy"
			healthy = false
		} else {
			components[name] = "healthy"
		}
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, dto.HealthResponse{
		Status:     status,
		Components: components,
	})
}

// Ready handles the /ready endpoint.
// @Summary Readiness check
// @Description Returns 200 if the service is ready to accept traffic
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Service ready"
// @Failure 503 {object} map[string]string "Service not ready"
// @Router /api/v1/chat/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	for name, component := range h.components {
		if err := component.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": name + " unavailable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// Live handles the /live endpoint.
// @Summary Liveness check
// @Description Returns 200 if the service is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Service alive"
// @Router /api/v1/chat/live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
