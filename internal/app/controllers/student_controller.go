package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Saewt/university-visitor-system/internal/app/models"
	"github.com/Saewt/university-visitor-system/internal/app/models/dto"
	"github.com/Saewt/university-visitor-system/internal/app/repositories"
	"github.com/Saewt/university-visitor-system/internal/app/services"
	"github.com/Saewt/university-visitor-system/internal/middleware"
	"github.com/Saewt/university-visitor-system/internal/pkg/helpers"
)

// StudentController handles visitor registration endpoints
type StudentController struct {
	studentService *services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

func invalidParam(ctx *gin.Context, field, message string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message).WithField(field)
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

// queryInt parses an integer query parameter with a default and bounds
func queryInt(ctx *gin.Context, name string, def, min, max int) (int, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return def, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < min || value > max {
		invalidParam(ctx, name, name+" is out of range")
		return 0, false
	}
	return value, true
}

func pathID(ctx *gin.Context, field string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		invalidParam(ctx, field, field+" must be a positive number")
		return 0, false
	}
	return id, true
}

// List returns students matching the query filters
// @Summary List students
// @Description Lists registrations with filtering, sorting and pagination
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (1-500)"
// @Param department_id query int false "Filter by department"
// @Param yks_type query string false "Filter by exam type"
// @Param wants_tour query bool false "Filter by tour request"
// @Param search query string false "Search in name, email and phone"
// @Param teacher query string false "Filter by registering user (admin only)"
// @Param start_date query string false "Registrations from this date (YYYY-MM-DD)"
// @Param end_date query string false "Registrations up to this date (YYYY-MM-DD)"
// @Param sort_by query string false "Sort column"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} dto.StudentListResponse "Students"
// @Failure 400 {object} dto.ErrorResponse "Invalid parameters"
// @Failure 403 {object} dto.ErrorResponse "Teacher filter requires admin"
// @Router /students [get]
func (c *StudentController) List(ctx *gin.Context) {
	caller, _ := middleware.CurrentUser(ctx)

	skip, ok := queryInt(ctx, "skip", 0, 0, 1<<30)
	if !ok {
		return
	}
	limit, ok := queryInt(ctx, "limit", 50, 1, 500)
	if !ok {
		return
	}

	filter := repositories.StudentFilter{
		Search:          ctx.Query("search"),
		TeacherUsername: ctx.Query("teacher"),
		SortBy:          ctx.DefaultQuery("sort_by", "created_at"),
		SortOrder:       ctx.DefaultQuery("sort_order", "desc"),
		Skip:            skip,
		Limit:           limit,
	}

	if raw := ctx.Query("department_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			invalidParam(ctx, "department_id", "department_id must be a number")
			return
		}
		filter.DepartmentID = &id
	}
	if raw := ctx.Query("yks_type"); raw != "" {
		yksType := models.YKSType(raw)
		if !yksType.IsValid() {
			invalidParam(ctx, "yks_type", "unknown exam type")
			return
		}
		filter.YKSType = &yksType
	}
	if raw := ctx.Query("wants_tour"); raw != "" {
		wantsTour, err := strconv.ParseBool(raw)
		if err != nil {
			invalidParam(ctx, "wants_tour", "wants_tour must be a boolean")
			return
		}
		filter.WantsTour = &wantsTour
	}
	if raw := ctx.Query("start_date"); raw != "" {
		day, err := helpers.ParseDate(raw)
		if err != nil {
			invalidParam(ctx, "start_date", "invalid date format")
			return
		}
		start := helpers.DayStart(day)
		filter.StartDate = &start
	}
	if raw := ctx.Query("end_date"); raw != "" {
		day, err := helpers.ParseDate(raw)
		if err != nil {
			invalidParam(ctx, "end_date", "invalid date format")
			return
		}
		end := helpers.DayEnd(day)
		filter.EndDate = &end
	}

	students, total, err := c.studentService.List(ctx.Request.Context(), caller, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStudentListResponse(students, total, skip, limit))
}

// CheckDuplicate reports existing records matching an email or phone
// @Summary Check duplicates
// @Description Looks for existing registrations sharing the given email or phone
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param email query string false "Email to probe"
// @Param phone query string false "Phone to probe"
// @Success 200 {object} dto.DuplicateCheckResponse "Match report"
// @Failure 400 {object} dto.ErrorResponse "Neither email nor phone given"
// @Router /students/check-duplicate [get]
func (c *StudentController) CheckDuplicate(ctx *gin.Context) {
	response, err := c.studentService.CheckDuplicate(ctx.Request.Context(), ctx.Query("email"), ctx.Query("phone"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// Departments lists active departments for registration forms
// @Summary Active departments
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.DepartmentOptionResponse "Departments"
// @Router /students/departments/list [get]
func (c *StudentController) Departments(ctx *gin.Context) {
	options, err := c.studentService.ActiveDepartments(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, options)
}

// HistoryDates lists the calendar days with registrations
// @Summary Registration days
// @Description Returns the days that have registrations, newest first
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.HistoryDateResponse "Days"
// @Router /students/history/dates [get]
func (c *StudentController) HistoryDates(ctx *gin.Context) {
	caller, _ := middleware.CurrentUser(ctx)

	dates, err := c.studentService.HistoryDates(ctx.Request.Context(), caller)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dates)
}

// HistoryByDate lists one day's registrations
// @Summary Registrations of a day
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param date_str path string true "Date (YYYY-MM-DD or DD.MM.YYYY)"
// @Param skip query int false "Offset"
// @Param limit query int false "Page size"
// @Success 200 {array} dto.StudentResponse "Students"
// @Failure 400 {object} dto.ErrorResponse "Invalid date"
// @Router /students/history/by-date/{date_str} [get]
func (c *StudentController) HistoryByDate(ctx *gin.Context) {
	caller, _ := middleware.CurrentUser(ctx)

	skip, ok := queryInt(ctx, "skip", 0, 0, 1<<30)
	if !ok {
		return
	}
	limit, ok := queryInt(ctx, "limit", 100, 1, 500)
	if !ok {
		return
	}

	students, err := c.studentService.HistoryByDate(ctx.Request.Context(), caller, ctx.Param("date_str"), skip, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, dto.NewStudentResponse(student))
	}
	ctx.JSON(http.StatusOK, responses)
}

// Get returns a single student
// @Summary Get student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.StudentResponse "Student"
// @Failure 403 {object} dto.ErrorResponse "Not the registering user"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) Get(ctx *gin.Context) {
	caller, _ := middleware.CurrentUser(ctx)

	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	student, err := c.studentService.Get(ctx.Request.Context(), caller, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStudentResponse(student))
}

// Create registers a new student
// @Summary Create student
// @Description Registers a visitor and broadcasts the change to live clients
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Registration data"
// @Success 201 {object} dto.StudentResponse "Created student"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Router /students [post]
func (c *StudentController) Create(ctx *gin.Context) {
	caller, _ := middleware.CurrentUser(ctx)

	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	student, err := c.studentService.Create(ctx.Request.Context(), caller, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStudentResponse(student))
}

// Update applies a partial update to a student
// @Summary Update student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} dto.StudentResponse "Updated student"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not the registering user"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [put]
func (c *StudentController) Update(ctx *gin.Context) {
	caller, _ := middleware.CurrentUser(ctx)

	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	student, err := c.studentService.Update(ctx.Request.Context(), caller, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStudentResponse(student))
}

// Delete removes a student record
// @Summary Delete student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.SuccessResponse "Deleted"
// @Failure 403 {object} dto.ErrorResponse "Requires admin"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [delete]
func (c *StudentController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.studentService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Student deleted successfully"})
}
