// Package routes defines the HTTP routes for the DocChat service.
package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/unifiedui/docchat-service/internal/api/handlers"
	"github.com/unifiedui/docchat-service/internal/api/middleware"
)

// Health check paths, registered under /api/v1/chat.
const (
	LivePath  = "/api/v1/chat/live"
	ReadyPath = "/api/v1/chat/ready"
)

// Config holds the dependencies for setting up routes.
type Config struct {
	HealthHandler  *handlers.HealthHandler
	ModelsHandler  *handlers.ModelsHandler
	UploadsHandler *handlers.UploadsHandler
	ChatHandler    *handlers.ChatHandler
}

// Setup configures all routes on the Gin engine.
func Setup(r *gin.Engine, cfg *Config) {
	// API v1 routes - all routes under /api/v1/chat
	v1 := r.Group("/api/v1/chat")
	{
		v1.GET("/health", cfg.HealthHandler.Health)
		v1.GET("/ready", cfg.HealthHandler.Ready)
		v1.GET("/live", cfg.HealthHandler.Live)

		v1.GET("/models", cfg.ModelsHandler.ListModels)
		v1.POST("/uploads", cfg.UploadsHandler.Upload)

		// Websocket session
		v1.GET("/ws", cfg.ChatHandler.ServeWS)
	}

	// Swagger documentation endpoint
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.NoRoute(middleware.NotFound())
	r.NoMethod(middleware.MethodNotAllowed())
}

// SetupWithMiddleware sets up routes with common middleware.
func SetupWithMiddleware(r *gin.Engine, cfg *Config, loggingMw *middleware.LoggingMiddleware, errorMw *middleware.ErrorMiddleware, cors middleware.CORSConfig) {
	// Apply global middleware
	r.Use(loggingMw.RequestLogger())
	r.Use(loggingMw.Logger())
	r.Use(errorMw.Recovery())
	r.Use(middleware.NewCORSMiddleware(cors))

	// Setup routes
	Setup(r, cfg)
}
