package api

import (
	"net/http"
	"strconv"

	"nutrifit/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func daysQuery(c *gin.Context) int {
	if raw := c.Query("days"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return 0
}

// Counts godoc
// @Summary Entity counts over the caller's visible data
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} repository.EntityCounts
// @Router /reports/counts [get]
func (h *ReportHandler) Counts(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}

	counts, err := h.reportService.Counts(c.Request.Context(), userID, roles)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// WorkoutTrend godoc
// @Summary Per-day workout log counts, oldest first
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param days query int false "Window in days (default 30)"
// @Success 200 {array} repository.DateCount
// @Router /reports/workout-trend [get]
func (h *ReportHandler) WorkoutTrend(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}

	trend, err := h.reportService.WorkoutTrend(c.Request.Context(), userID, roles, daysQuery(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, trend)
}

// DietTrend godoc
// @Summary Per-day diet entry counts, oldest first
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param days query int false "Window in days (default 30)"
// @Success 200 {array} repository.DateCount
// @Router /reports/diet-trend [get]
func (h *ReportHandler) DietTrend(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}

	trend, err := h.reportService.DietTrend(c.Request.Context(), userID, roles, daysQuery(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, trend)
}

// ClientBreakdown godoc
// @Summary Per-client plan counts
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {array} repository.ClientBreakdown
// @Router /reports/client-breakdown [get]
func (h *ReportHandler) ClientBreakdown(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}

	breakdown, err := h.reportService.ClientBreakdown(c.Request.Context(), userID, roles)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}
