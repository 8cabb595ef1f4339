package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"

	maxRequestIDLen = 128
)

// RequestID is a Gin middleware that attaches an identifier to every request.
//
// Behavior:
//   - Reuses an inbound X-Request-ID header when it is present and at most
//     128 characters long, so ids propagate across services.
//   - Otherwise generates a new UUID (v4).
//   - Stores it in the Gin context under the key "request_id".
//   - Adds it to the response headers as "X-Request-ID".
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RequestID())
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}

		c.Set(RequestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)

		c.Next()
	}
}
