package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/hffactors/internal/domain/dto"
	"github.com/guttosm/hffactors/internal/logger"
)

// RecoveryMiddleware returns a Gin middleware that recovers from panics,
// logs the stack trace with the request id, and returns a standardized JSON
// 500 response.
//
// Example:
//
//	router := gin.New()
//	router.Use(middleware.RecoveryMiddleware())
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				rid, _ := c.Get(RequestIDKey)
				logger.L().Error().
					Str("request_id", toString(rid)).
					Str("path", c.Request.URL.Path).
					Str("panic", fmt.Sprintf("%v", r)).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dto.NewErrorResponse("Internal server error", fmt.Errorf("%v", r)))
			}
		}()

		c.Next()
	}
}
