package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request correlation id.
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
)

// RequestID reuses the incoming correlation id or generates one, and
// echoes it back on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Request.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID returns the correlation id for the request, or "".
func GetRequestID(c *gin.Context) string {
	if requestID, ok := c.Get(requestIDKey); ok {
		if s, ok := requestID.(string); ok {
			return s
		}
	}
	return ""
}
