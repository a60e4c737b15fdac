// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

const (
	requestIDKey = "request_id"
	loggerKey    = "logger"
)

// LoggingMiddleware handles request logging.
type LoggingMiddleware struct {
	logger    zerolog.Logger
	quietPath map[string]bool
}

// NewLoggingMiddleware creates a new LoggingMiddleware. A nil logger uses
// the global logger. Requests to quietPaths, typically liveness and
// readiness checks, are logged at debug level.
func NewLoggingMiddleware(logger *zerolog.Logger, quietPaths ...string) *LoggingMiddleware {
	m := &LoggingMiddleware{
		logger:    log.Logger,
		quietPath: make(map[string]bool, len(quietPaths)),
	}
	if logger != nil {
		m.logger = *logger
	}
	for _, p := range quietPaths {
		m.quietPath[p] = true
	}
	return m
}

// RequestLogger assigns a request ID and stores a request-scoped logger
// in the gin context.
func (m *LoggingMiddleware) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Set(loggerKey, m.logger.With().Str("request_id", requestID).Logger())

		c.Next()
	}
}

// Logger returns a gin middleware that logs completed requests. Websocket
// upgrades are logged when the session closes, with the upgrade status.
func (m *LoggingMiddleware) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		logger := GetRequestLogger(c)

		event := logger.Info()
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		case m.quietPath[path]:
			event = logger.Debug()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Int("body_size", c.Writer.Size()).
			Msg("request completed")
	}
}

// GetRequestLogger retrieves the request-scoped logger from context.
func GetRequestLogger(c *gin.Context) zerolog.Logger {
	if logger, ok := c.Get(loggerKey); ok {
		if l, ok := logger.(zerolog.Logger); ok {
			return l
		}
	}
	return log.Logger
}

// GetRequestID retrieves the request ID from context.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
