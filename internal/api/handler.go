package api

import (
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/hffactors/internal/domain/dto"
	"github.com/guttosm/hffactors/internal/factor"
	"github.com/guttosm/hffactors/internal/ingestion"
	"github.com/guttosm/hffactors/internal/middleware"
	"github.com/guttosm/hffactors/internal/service"
	"github.com/guttosm/hffactors/internal/storage"
)

// Handler provides HTTP handlers for the factor catalog and persisted
// factor values.
//
// Responsibilities:
//   - Validate incoming path and query parameters
//   - Delegate to the service layer
//   - Translate results into response DTOs
type Handler struct {
	svc service.FactorService
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.FactorService) *Handler {
	return &Handler{svc: svc}
}

// ListFactors godoc
// @Summary      List factor catalog
// @Description  Returns every factor the engine can compute, in catalog order
// @Tags         factors
// @Produce      json
// @Success      200  {array}   dto.FactorDefinitionResponse
// @Router       /api/v1/factors [get]
func (h *Handler) ListFactors(c *gin.Context) {
	defs := h.svc.ListFactors()
	out := make([]dto.FactorDefinitionResponse, 0, len(defs))
	for _, d := range defs {
		out = append(out, dto.FactorDefinitionResponse{
			ID:          d.ID,
			Description: d.Description,
			Mode:        d.Mode.String(),
		})
	}
	c.JSON(http.StatusOK, out)
}

// GetSeries godoc
// @Summary      Get a factor series
// @Description  Returns the per-second values of one factor for a ticker on a trading day
// @Tags         factors
// @Produce      json
// @Param        id      path      string  true  "Factor identifier" example(A17)
// @Param        ticker  query     string  true  "Ticker, with or without market suffix" example(000001)
// @Param        date    query     string  true  "Trading day, YYYYMMDD or YYYY-MM-DD" example(20230301)
// @Success      200     {object}  dto.FactorSeriesResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      500     {object}  dto.ErrorResponse
// @Router       /api/v1/factors/{id}/series [get]
func (h *Handler) GetSeries(c *gin.Context) {
	id := strings.ToUpper(strings.TrimSpace(c.Param("id")))
	ticker := strings.TrimSpace(c.Query("ticker"))
	if ticker == "" {
		middleware.AbortWithError(c, http.StatusBadRequest, "ticker is required", nil)
		return
	}
	date, err := ingestion.ParseDate(c.Query("date"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid date, expected YYYYMMDD", err)
		return
	}

	rows, err := h.svc.GetSeries(c.Request.Context(), id, ticker, storage.DateOf(date))
	switch {
	case errors.Is(err, factor.ErrUnknownFactor):
		middleware.AbortWithError(c, http.StatusNotFound, "unknown factor", err)
		return
	case err != nil:
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to fetch factor series", err)
		return
	case len(rows) == 0:
		middleware.AbortWithError(c, http.StatusNotFound, "no data found", nil)
		return
	}

	resp := dto.FactorSeriesResponse{
		Factor: id,
		Ticker: factor.Ticker(ticker),
		Date:   date,
		Points: make([]dto.FactorPoint, 0, len(rows)),
	}
	for _, r := range rows {
		resp.Points = append(resp.Points, toPoint(r.Time, r.Value))
	}
	c.JSON(http.StatusOK, resp)
}

// toPoint keeps nulls and infinities representable in JSON.
func toPoint(clock int, v float64) dto.FactorPoint {
	p := dto.FactorPoint{Time: clock}
	switch {
	case math.IsNaN(v):
	case math.IsInf(v, 1):
		p.Infinite = "+Inf"
	case math.IsInf(v, -1):
		p.Infinite = "-Inf"
	default:
		val := v
		p.Value = &val
	}
	return p
}

// GetSummary godoc
// @Summary      Summarize a factor
// @Description  Returns row counts and min/max/mean of finite values over an optional date range
// @Tags         factors
// @Produce      json
// @Param        id      path      string  true   "Factor identifier" example(A1)
// @Param        ticker  query     string  true   "Ticker" example(000001)
// @Param        start   query     string  false  "First trade date, YYYY-MM-DD" example(2023-03-01)
// @Param        end     query     string  false  "Last trade date, YYYY-MM-DD" example(2023-03-31)
// @Success      200     {object}  models.FactorSummary
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      500     {object}  dto.ErrorResponse
// @Router       /api/v1/factors/{id}/summary [get]
func (h *Handler) GetSummary(c *gin.Context) {
	id := strings.ToUpper(strings.TrimSpace(c.Param("id")))
	ticker := strings.TrimSpace(c.Query("ticker"))
	if ticker == "" {
		middleware.AbortWithError(c, http.StatusBadRequest, "ticker is required", nil)
		return
	}

	start, err := optionalDate(c.Query("start"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid start format, expected YYYY-MM-DD", err)
		return
	}
	end, err := optionalDate(c.Query("end"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid end format, expected YYYY-MM-DD", err)
		return
	}
	if start != nil && end != nil && end.Before(*start) {
		middleware.AbortWithError(c, http.StatusBadRequest, "end is before start", nil)
		return
	}

	sum, err := h.svc.GetSummary(c.Request.Context(), id, ticker, start, end)
	switch {
	case errors.Is(err, factor.ErrUnknownFactor):
		middleware.AbortWithError(c, http.StatusNotFound, "unknown factor", err)
		return
	case err != nil:
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to fetch factor summary", err)
		return
	case sum == nil:
		middleware.AbortWithError(c, http.StatusNotFound, "no data found", nil)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
