package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Saewt/university-visitor-system/internal/app/models"
	"github.com/Saewt/university-visitor-system/internal/app/models/dto"
	"github.com/Saewt/university-visitor-system/internal/app/services"
	"github.com/Saewt/university-visitor-system/internal/middleware"
)

// ManagementController handles user and department administration
type ManagementController struct {
	managementService *services.ManagementService
}

// NewManagementController creates a new ManagementController
func NewManagementController(managementService *services.ManagementService) *ManagementController {
	return &ManagementController{
		managementService: managementService,
	}
}

// ListUsers returns users with their registration counts
// @Summary List users
// @Tags management
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role"
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (1-100)"
// @Success 200 {array} dto.UserWithStatsResponse "Users"
// @Failure 403 {object} dto.ErrorResponse "Requires admin"
// @Router /management/users [get]
func (c *ManagementController) ListUsers(ctx *gin.Context) {
	skip, ok := queryInt(ctx, "skip", 0, 0, 1<<30)
	if !ok {
		return
	}
	limit, ok := queryInt(ctx, "limit", 50, 1, 100)
	if !ok {
		return
	}

	var role *models.Role
	if raw := ctx.Query("role"); raw != "" {
		r := models.Role(raw)
		role = &r
	}

	users, err := c.managementService.ListUsers(ctx.Request.Context(), role, skip, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, users)
}

// GetUser returns a single user account with its registration count
// @Summary Get user
// @Tags management
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.UserWithStatsResponse "User"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /management/users/{id} [get]
func (c *ManagementController) GetUser(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	user, err := c.managementService.GetUser(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// CreateUser registers a new user account
// @Summary Create user
// @Tags management
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateUserRequest true "User data"
// @Success 201 {object} dto.UserWithStatsResponse "Created user"
// @Failure 400 {object} dto.ErrorResponse "Invalid data or username taken"
// @Router /management/users [post]
func (c *ManagementController) CreateUser(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	user, err := c.managementService.CreateUser(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, user)
}

// UpdateUser modifies an existing user account
// @Summary Update user
// @Tags management
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.UpdateUserRequest true "Fields to change"
// @Success 200 {object} dto.UserWithStatsResponse "Updated user"
// @Failure 400 {object} dto.ErrorResponse "Invalid data or own role change"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /management/users/{id} [put]
func (c *ManagementController) UpdateUser(ctx *gin.Context) {
	caller, _ := middleware.CurrentUser(ctx)

	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	user, err := c.managementService.UpdateUser(ctx.Request.Context(), caller.ID, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// DeleteUser removes a user account without registrations
// @Summary Delete user
// @Tags management
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.SuccessResponse "Deleted"
// @Failure 400 {object} dto.ErrorResponse "Own account or user has students"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /management/users/{id} [delete]
func (c *ManagementController) DeleteUser(ctx *gin.Context) {
	caller, _ := middleware.CurrentUser(ctx)

	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.managementService.DeleteUser(ctx.Request.Context(), caller.ID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "User deleted successfully"})
}

// ListDepartments returns departments with their registration counts
// @Summary List departments
// @Tags management
// @Produce json
// @Security BearerAuth
// @Param active_only query bool false "Limit to active departments"
// @Success 200 {array} dto.DepartmentWithCountResponse "Departments"
// @Router /management/departments [get]
func (c *ManagementController) ListDepartments(ctx *gin.Context) {
	activeOnly := false
	if raw := ctx.Query("active_only"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			invalidParam(ctx, "active_only", "active_only must be a boolean")
			return
		}
		activeOnly = parsed
	}

	departments, err := c.managementService.ListDepartments(ctx.Request.Context(), activeOnly)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, departments)
}

// GetDepartment returns a single department with its registration count
// @Summary Get department
// @Tags management
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Success 200 {object} dto.DepartmentWithCountResponse "Department"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Router /management/departments/{id} [get]
func (c *ManagementController) GetDepartment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	department, err := c.managementService.GetDepartment(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, department)
}

// CreateDepartment adds a new department
// @Summary Create department
// @Tags management
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDepartmentRequest true "Department data"
// @Success 201 {object} dto.DepartmentWithCountResponse "Created department"
// @Failure 400 {object} dto.ErrorResponse "Invalid data or name taken"
// @Router /management/departments [post]
func (c *ManagementController) CreateDepartment(ctx *gin.Context) {
	var req dto.CreateDepartmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	department, err := c.managementService.CreateDepartment(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, department)
}

// UpdateDepartment modifies an existing department
// @Summary Update department
// @Tags management
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Param request body dto.UpdateDepartmentRequest true "Fields to change"
// @Success 200 {object} dto.DepartmentWithCountResponse "Updated department"
// @Failure 400 {object} dto.ErrorResponse "Invalid data or name taken"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Router /management/departments/{id} [put]
func (c *ManagementController) UpdateDepartment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateDepartmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	department, err := c.managementService.UpdateDepartment(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, department)
}

// DeleteDepartment removes a department without registrations
// @Summary Delete department
// @Tags management
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Success 200 {object} dto.SuccessResponse "Deleted"
// @Failure 400 {object} dto.ErrorResponse "Department has students"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Router /management/departments/{id} [delete]
func (c *ManagementController) DeleteDepartment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.managementService.DeleteDepartment(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Department deleted successfully"})
}
