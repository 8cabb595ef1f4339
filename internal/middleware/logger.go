package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/hffactors/internal/logger"
	"github.com/guttosm/hffactors/internal/metrics"
)

// RequestLogger is a Gin middleware that logs method, path, status code,
// request latency, and request ID (if available), and records the request
// in the HTTP Prometheus collectors.
//
// Behavior:
//   - Captures start time before request handling.
//   - After request is processed, calculates latency.
//   - Logs with the "api" component logger.
//   - Labels metrics with the matched route template (e.g. /api/v1/factors/:id/series)
//     to keep label cardinality bounded; unmatched paths use "unmatched".
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RequestID(), middleware.RequestLogger())
//
// Example log output:
//
//	request_id=123e4567-e89b-12d3-a456-426614174000 method=GET path=/api/v1/factors status=200 latency_ms=15
func RequestLogger() gin.HandlerFunc {
	log := logger.Component("api")
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTP(method, route, status, latency)

		rid, _ := c.Get(RequestIDKey)

		log.Info().
			Str("request_id", toString(rid)).
			Str("method", method).
			Str("path", path).
			Int("status", status).
			Int64("latency_ms", latency.Milliseconds()).
			Str("client_ip", c.ClientIP()).
			Msg("http_request")
	}
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
