package middleware_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/unifiedui/docchat-service/internal/api/middleware"
	"github.com/unifiedui/docchat-service/tests/testutils"
)

func newCORSRouter(origins ...string) *gin.Engine {
	router := testutils.SetupTestRouter()
	router.Use(middleware.NewCORSMiddleware(middleware.NewCORSConfig(origins)))
	router.GET("/models", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestCORS_AllowedOrigin(t *testing.T) {
	router := newCORSRouter("http://localhost:5173")

	w := testutils.PerformRequest(router, http.MethodGet, "/models", nil, map[string]string{"Origin": "http://localhost:5173"})

	testutils.AssertStatusCode(t, http.StatusOK, w)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_RejectedOrigin(t *testing.T) {
	router := newCORSRouter("http://localhost:5173")

	w := testutils.PerformRequest(router, http.MethodGet, "/models", nil, map[string]string{"Origin": "http://evil.example"})

	testutils.AssertStatusCode(t, http.StatusOK, w)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Wildcard(t *testing.T) {
	router := newCORSRouter("*")

	w := testutils.PerformRequest(router, http.MethodGet, "/models", nil, map[string]string{"Origin": "http://anywhere.example"})

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	router := newCORSRouter("http://localhost:5173")

	w := testutils.PerformRequest(router, http.MethodOptions, "/models", nil, map[string]string{"Origin": "http://localhost:5173"})

	testutils.AssertStatusCode(t, http.StatusNoContent, w)
	assert.Equal(t, "GET, POST, HEAD, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), middleware.RequestIDHeader)
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_NoOriginPassesThrough(t *testing.T) {
	router := newCORSRouter("http://localhost:5173")

	w := testutils.PerformRequest(router, http.MethodGet, "/models", nil, nil)

	testutils.AssertStatusCode(t, http.StatusOK, w)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
