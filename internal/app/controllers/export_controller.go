package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Saewt/university-visitor-system/internal/app/services"
	"github.com/Saewt/university-visitor-system/internal/middleware"
	"github.com/Saewt/university-visitor-system/internal/pkg/helpers"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportController serves spreadsheet downloads
type ExportController struct {
	exportService *services.ExportService
}

// NewExportController creates a new ExportController
func NewExportController(exportService *services.ExportService) *ExportController {
	return &ExportController{
		exportService: exportService,
	}
}

func serveWorkbook(ctx *gin.Context, file *services.ExportFile) {
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", file.Filename))
	ctx.Data(http.StatusOK, excelContentType, file.Content)
}

// Excel exports registrations with optional filters
// @Summary Excel export
// @Description Downloads registrations and summary stats as a workbook
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_date query string false "Registrations from this date (YYYY-MM-DD)"
// @Param end_date query string false "Registrations up to this date (YYYY-MM-DD)"
// @Param department_id query int false "Filter by department"
// @Success 200 {file} file "Workbook"
// @Failure 400 {object} dto.ErrorResponse "Invalid parameters"
// @Failure 403 {object} dto.ErrorResponse "Requires admin"
// @Router /export/excel [get]
func (c *ExportController) Excel(ctx *gin.Context) {
	var start, end *time.Time
	var departmentID *int64

	if raw := ctx.Query("start_date"); raw != "" {
		day, err := helpers.ParseDate(raw)
		if err != nil {
			invalidParam(ctx, "start_date", "invalid date format")
			return
		}
		from := helpers.DayStart(day)
		start = &from
	}
	if raw := ctx.Query("end_date"); raw != "" {
		day, err := helpers.ParseDate(raw)
		if err != nil {
			invalidParam(ctx, "end_date", "invalid date format")
			return
		}
		to := helpers.DayEnd(day)
		end = &to
	}
	if raw := ctx.Query("department_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			invalidParam(ctx, "department_id", "department_id must be a number")
			return
		}
		departmentID = &id
	}

	file, err := c.exportService.Excel(ctx.Request.Context(), start, end, departmentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	serveWorkbook(ctx, file)
}

// Daily exports a single day's registrations
// @Summary Daily Excel export
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {file} file "Workbook"
// @Failure 400 {object} dto.ErrorResponse "Invalid date"
// @Failure 403 {object} dto.ErrorResponse "Requires admin"
// @Router /export/daily/{date} [get]
func (c *ExportController) Daily(ctx *gin.Context) {
	file, err := c.exportService.Daily(ctx.Request.Context(), ctx.Param("date"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	serveWorkbook(ctx, file)
}
