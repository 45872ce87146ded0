package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Saewt/university-visitor-system/internal/app/services"
	"github.com/Saewt/university-visitor-system/internal/middleware"
	"github.com/Saewt/university-visitor-system/internal/pkg/apperrors"
)

// StatsController handles the reporting endpoints
type StatsController struct {
	statsService *services.StatsService
}

// NewStatsController creates a new StatsController
func NewStatsController(statsService *services.StatsService) *StatsController {
	return &StatsController{
		statsService: statsService,
	}
}

// Combined returns the full dashboard payload
// @Summary Dashboard stats
// @Description Returns summary, quality, distributions and funnel in one call
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StatsResponse "Dashboard data"
// @Router /stats [get]
func (c *StatsController) Combined(ctx *gin.Context) {
	response, err := c.statsService.Combined(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// Summary returns the headline counters
// @Summary Summary counters
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StatsSummary "Counters"
// @Router /stats/summary [get]
func (c *StatsController) Summary(ctx *gin.Context) {
	summary, err := c.statsService.Summary(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, summary)
}

// Quality returns the data quality metrics
// @Summary Data quality
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DataQualityStats "Quality metrics"
// @Router /stats/quality [get]
func (c *StatsController) Quality(ctx *gin.Context) {
	quality, err := c.statsService.Quality(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, quality)
}

// Duplicates returns records sharing identifiers
// @Summary Duplicate records
// @Description Lists registrations sharing an email or phone; empty for teachers
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum records (1-200)"
// @Success 200 {array} dto.DuplicateRecord "Duplicates"
// @Router /stats/duplicates [get]
func (c *StatsController) Duplicates(ctx *gin.Context) {
	caller, _ := middleware.CurrentUser(ctx)

	limit, ok := queryInt(ctx, "limit", 50, 1, 200)
	if !ok {
		return
	}

	records, err := c.statsService.Duplicates(ctx.Request.Context(), caller, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, records)
}

// Funnel returns the tour conversion funnel
// @Summary Conversion funnel
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ConversionFunnel "Funnel"
// @Router /stats/funnel [get]
func (c *StatsController) Funnel(ctx *gin.Context) {
	funnel, err := c.statsService.Funnel(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, funnel)
}

// ByDepartment returns the busiest departments
// @Summary Department distribution
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum departments (1-50)"
// @Success 200 {array} dto.DepartmentStats "Counts"
// @Router /stats/by-department [get]
func (c *StatsController) ByDepartment(ctx *gin.Context) {
	limit, ok := queryInt(ctx, "limit", 10, 1, 50)
	if !ok {
		return
	}

	stats, err := c.statsService.ByDepartment(ctx.Request.Context(), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// ByType returns the exam type distribution
// @Summary Exam type distribution
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.YksTypeStats "Counts"
// @Router /stats/by-type [get]
func (c *StatsController) ByType(ctx *gin.Context) {
	stats, err := c.statsService.ByType(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// TourRequests returns tour requests per department
// @Summary Tour requests
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TourRequestStats "Counts"
// @Router /stats/tour-requests [get]
func (c *StatsController) TourRequests(ctx *gin.Context) {
	stats, err := c.statsService.TourRequests(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// Hourly returns the hourly registration distribution
// @Summary Hourly distribution
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param days query int false "Trailing window in days (1-7)"
// @Success 200 {array} dto.HourlyStats "Counts"
// @Router /stats/hourly [get]
func (c *StatsController) Hourly(ctx *gin.Context) {
	days, ok := queryInt(ctx, "days", 1, 1, 7)
	if !ok {
		return
	}

	stats, err := c.statsService.Hourly(ctx.Request.Context(), days)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// ByTeacher returns registrations per registering user
// @Summary Teacher distribution
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TeacherStats "Counts"
// @Router /stats/by-teacher [get]
func (c *StatsController) ByTeacher(ctx *gin.Context) {
	stats, err := c.statsService.ByTeacher(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// Comparison contrasts the current week against an earlier period
// @Summary Period comparison
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "Period start (YYYY-MM-DD), defaults to 6 days ago"
// @Param end_date query string false "Period end (YYYY-MM-DD), defaults to today"
// @Param compare_with query string false "yesterday, last_week or last_month"
// @Success 200 {object} dto.ComparisonResponse "Comparison"
// @Failure 400 {object} dto.ErrorResponse "Unknown comparison period"
// @Router /stats/comparison [get]
func (c *StatsController) Comparison(ctx *gin.Context) {
	caller, _ := middleware.CurrentUser(ctx)

	response, err := c.statsService.Comparison(
		ctx.Request.Context(),
		caller,
		ctx.Query("start_date"),
		ctx.Query("end_date"),
		ctx.DefaultQuery("compare_with", "yesterday"),
	)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// Range returns aggregated stats for a custom date range
// @Summary Range stats
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param start_date query string true "Range start (YYYY-MM-DD)"
// @Param end_date query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} dto.RangeStatsResponse "Range report"
// @Failure 400 {object} dto.ErrorResponse "Invalid dates"
// @Router /stats/range [get]
func (c *StatsController) Range(ctx *gin.Context) {
	caller, _ := middleware.CurrentUser(ctx)

	startStr := ctx.Query("start_date")
	endStr := ctx.Query("end_date")
	if startStr == "" || endStr == "" {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("start_date", "start_date and end_date are required"))
		return
	}

	response, err := c.statsService.Range(ctx.Request.Context(), caller, startStr, endStr)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// Heatmap returns the weekly activity matrix
// @Summary Activity heatmap
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param days query int false "Trailing window in days (1-365)"
// @Success 200 {object} dto.HeatmapResponse "Heatmap"
// @Router /stats/heatmap [get]
func (c *StatsController) Heatmap(ctx *gin.Context) {
	caller, _ := middleware.CurrentUser(ctx)

	days, ok := queryInt(ctx, "days", 30, 1, 365)
	if !ok {
		return
	}

	response, err := c.statsService.Heatmap(ctx.Request.Context(), caller, days)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// DepartmentTrends returns per-day series for the busiest departments
// @Summary Department trends
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param days query int false "Trailing window in days (7-365)"
// @Param limit query int false "Maximum departments (1-20)"
// @Success 200 {object} dto.DepartmentTrendsResponse "Trends"
// @Router /stats/department-trends [get]
func (c *StatsController) DepartmentTrends(ctx *gin.Context) {
	caller, _ := middleware.CurrentUser(ctx)

	days, ok := queryInt(ctx, "days", 30, 7, 365)
	if !ok {
		return
	}
	limit, ok := queryInt(ctx, "limit", 10, 1, 20)
	if !ok {
		return
	}

	response, err := c.statsService.DepartmentTrends(ctx.Request.Context(), caller, days, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// Day returns the dashboard payload for one calendar day
// @Summary Single day stats
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param date_str path string true "Date (YYYY-MM-DD or DD.MM.YYYY)"
// @Success 200 {object} dto.StatsResponse "Day report"
// @Failure 400 {object} dto.ErrorResponse "Invalid date"
// @Router /stats/day/{date_str} [get]
func (c *StatsController) Day(ctx *gin.Context) {
	caller, _ := middleware.CurrentUser(ctx)

	response, err := c.statsService.Day(ctx.Request.Context(), caller, ctx.Param("date_str"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}
