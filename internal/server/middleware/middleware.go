package middleware

import (
	"crypto/subtle"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

const (
	// APIKeyHeader carries the shared secret on every /api request.
	APIKeyHeader = "X-API-KEY"
	// RequestIDHeader is echoed back on every response.
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
)

// APIKey rejects requests whose X-API-KEY header does not match expected.
// status is the code used for rejections.
func APIKey(expected string, status int) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(APIKeyHeader)
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(status, models.APIResponse{Code: status, Message: "invalid or missing API key"})
			return
		}
		c.Next()
	}
}

// RequestID propagates the caller's X-Request-ID or generates one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// ZapLogger writes one access log line per request.
func ZapLogger(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(requestIDKey)))
	}
}
