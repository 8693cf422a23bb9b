package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/services"
)

// AnalyticsHandler serves aggregate statistics.
type AnalyticsHandler struct {
	statisticsService services.StatisticsServicer
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(statisticsService services.StatisticsServicer) *AnalyticsHandler {
	return &AnalyticsHandler{statisticsService: statisticsService}
}

type statisticsQuery struct {
	dateRangeQuery
	Period string `form:"period" binding:"omitempty,stats_period"`
}

// GetStatistics handles period-bucketed statistics.
// @Summary     Period statistics
// @Description Income and expense totals per day, week, month or year, newest bucket first
// @Tags        analytics
// @Produce     json
// @Param       period    query string false "day, week, month (default) or year"
// @Param       date_from query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       date_to   query string false "Inclusive end date (YYYY-MM-DD)"
// @Success     200 {object} Response{data=[]services.PeriodStat} "Buckets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/statistics [get]
func (h *AnalyticsHandler) GetStatistics(c *gin.Context) {
	var q statisticsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	r, err := q.toRange()
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.statisticsService.PeriodStatistics(q.Period, r)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, stats, "")
}

// GetExpensesByCategory handles the per-category expense rollup.
// @Summary     Expenses by category
// @Description Expense count, total and average per category, largest total first. Categories without expenses are omitted.
// @Tags        analytics
// @Produce     json
// @Param       date_from query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       date_to   query string false "Inclusive end date (YYYY-MM-DD)"
// @Success     200 {object} Response{data=[]services.CategoryExpense} "Rollup"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/expenses-by-category [get]
func (h *AnalyticsHandler) GetExpensesByCategory(c *gin.Context) {
	r, err := bindDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rows, err := h.statisticsService.ExpensesByCategory(r)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, rows, "")
}

// GetSummary handles the lifetime summary.
// @Summary     Summary
// @Description Lifetime totals, counts, first and last operation dates, and balance
// @Tags        analytics
// @Produce     json
// @Success     200 {object} Response{data=services.Summary} "Summary"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/summary [get]
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	summary, err := h.statisticsService.Summary()
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, summary, "")
}
