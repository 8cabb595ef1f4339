package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// readyTimeout bounds the dependency check behind /readyz.
const readyTimeout = 2 * time.Second

// HealthHandler provides liveness and readiness endpoints.
//
// Responsibilities:
//   - /healthz: liveness probe, always 200.
//   - /readyz: readiness probe, 503 when the factor store is unreachable.
type HealthHandler struct {
	ping func(ctx context.Context) error
}

// NewHealthHandler constructs a HealthHandler. ping is typically
// FactorRepository.Ping; nil means the service has no dependencies to check.
func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// Register mounts /healthz and /readyz on r.
func (h *HealthHandler) Register(r *gin.Engine) {
	// @Summary      Liveness probe
	// @Description  Always returns OK if the service is running
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Router       /healthz [get]
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// @Summary      Readiness probe
	// @Description  Returns ready if the factor store is reachable
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Failure      503  {object}  map[string]string
	// @Router       /readyz [get]
	r.GET("/readyz", func(c *gin.Context) {
		if h.ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
			defer cancel()
			if err := h.ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
}
