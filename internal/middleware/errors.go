package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/hffactors/internal/domain/dto"
	"github.com/guttosm/hffactors/internal/logger"
)

// ErrorHandler turns errors attached with c.Error into a JSON response
// when the handler did not write one itself.
//
// Behavior:
//   - Runs after the handler chain.
//   - Uses the status already set when it is an error status, else 500.
//   - Logs the last error with the request id.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 {
		return
	}
	last := c.Errors.Last()
	rid, _ := c.Get(RequestIDKey)
	logger.L().Error().Str("request_id", toString(rid)).Err(last.Err).Msg("request failed")

	if c.Writer.Written() {
		return
	}
	status := c.Writer.Status()
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}
	c.JSON(status, dto.NewErrorResponse(http.StatusText(status), last.Err))
}

// AbortWithError stops the chain and writes a standardized error body.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
