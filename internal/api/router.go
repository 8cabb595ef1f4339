package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/hffactors/config"
	"github.com/guttosm/hffactors/internal/metrics"
	"github.com/guttosm/hffactors/internal/middleware"
)

// requestTimeout bounds every API request context.
const requestTimeout = 10 * time.Second

// NewRouter creates a Gin engine with routes configured.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, RateLimiter).
//   - Adds request timeout handling.
//   - Mounts Swagger docs (/swagger/*any) and Prometheus metrics (/metrics).
//   - Configures API v1 routes (/api/v1).
//
// Health and readiness endpoints are registered in app.InitializeApp().
func NewRouter(handler *Handler, rl config.RateLimitConfig) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.RateLimiter(rl.RPS, rl.Burst),
	)

	// ─── Timeout ──────────────────────────────────
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// ─── Docs & metrics ───────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ─── API v1 ───────────────────────────────────
	v1 := router.Group("/api/v1")
	{
		v1.GET("/factors", handler.ListFactors)
		v1.GET("/factors/:id/series", handler.GetSeries)
		v1.GET("/factors/:id/summary", handler.GetSummary)
	}

	return router
}
