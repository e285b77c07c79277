package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/hyfhx/stock-screener/internal/scheduler/service"
	"github.com/hyfhx/stock-screener/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ScreeningHandler handles HTTP requests for screening results and weight
// tables.
type ScreeningHandler struct {
	insightService service.ScreeningInsightService
	logger         *logger.Logger
}

// NewScreeningHandler creates a new ScreeningHandler.
func NewScreeningHandler(insightService service.ScreeningInsightService, logger *logger.Logger) *ScreeningHandler {
	return &ScreeningHandler{insightService: insightService, logger: logger}
}

// RegisterRoutes registers the screening routes to the Echo group.
func (h *ScreeningHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/results", h.GetResultsByDate)
	g.GET("/accuracy", h.GetAccuracyBySignal)
}

// RegisterWeightRoutes registers the weight table routes.
func (h *ScreeningHandler) RegisterWeightRoutes(g *echo.Group) {
	g.GET("", h.GetWeightTables)
	g.POST("/:id/commit", h.CommitWeightTable)
}

// GetResultsByDate godoc
// @Summary Get screening results for a day
// @Description Get all screening results evaluated on the given date
// @Tags screening
// @Produce  json
// @Param   date  query    string false    "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {array} dto.ScreeningResultResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /screening/results [get]
func (h *ScreeningHandler) GetResultsByDate(c echo.Context) error {
	date := time.Now()
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid date, expected YYYY-MM-DD"})
		}
		date = parsed
	}

	results, err := h.insightService.GetResultsByDate(c.Request().Context(), date)
	if err != nil {
		h.logger.Error("Failed to get screening results", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get screening results"})
	}
	return c.JSON(http.StatusOK, results)
}

// GetAccuracyBySignal godoc
// @Summary Get per-signal accuracy
// @Description Get hit rate and average return per signal over reconciled outcomes
// @Tags screening
// @Produce  json
// @Param   since_days  query    int false    "Lookback window in days (default 30)"
// @Success 200 {array} dto.SignalAccuracyResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /screening/accuracy [get]
func (h *ScreeningHandler) GetAccuracyBySignal(c echo.Context) error {
	sinceDays, _ := strconv.Atoi(c.QueryParam("since_days"))

	stats, err := h.insightService.GetAccuracyBySignal(c.Request().Context(), sinceDays)
	if err != nil {
		h.logger.Error("Failed to get signal accuracy", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get signal accuracy"})
	}
	return c.JSON(http.StatusOK, stats)
}

// GetWeightTables godoc
// @Summary Get weight table versions
// @Description Get recent weight table versions, newest first
// @Tags weights
// @Produce  json
// @Param   limit  query    int false    "Maximum number of versions (default 20)"
// @Success 200 {array} dto.WeightTableResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /weights [get]
func (h *ScreeningHandler) GetWeightTables(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	tables, err := h.insightService.GetWeightTables(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to get weight tables", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get weight tables"})
	}
	return c.JSON(http.StatusOK, tables)
}

// CommitWeightTable godoc
// @Summary Commit a weight table version
// @Description Activate a proposed weight table version, deactivating the current one
// @Tags weights
// @Produce  json
// @Param   id  path    int true    "Weight table version ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /weights/{id}/commit [post]
func (h *ScreeningHandler) CommitWeightTable(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid version ID"})
	}

	if err := h.insightService.CommitWeightTable(c.Request().Context(), uint(id)); err != nil {
		h.logger.Error("Failed to commit weight table", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to commit weight table"})
	}
	return c.NoContent(http.StatusNoContent)
}
