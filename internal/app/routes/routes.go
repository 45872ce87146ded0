package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Saewt/university-visitor-system/internal/app/controllers"
	"github.com/Saewt/university-visitor-system/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	managementController *controllers.ManagementController,
	statsController *controllers.StatsController,
	exportController *controllers.ExportController,
	eventsController *controllers.EventsController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.Me)
		authenticated.POST("/auth/logout", authController.Logout)

		// The event stream authenticates via query parameter since EventSource
		// clients cannot set headers
		authenticated.GET("/events/stream", eventsController.Stream)

		students := authenticated.Group("/students")
		{
			// Static paths must be registered before the :id route
			students.GET("/check-duplicate", studentController.CheckDuplicate)
			students.GET("/departments/list", studentController.Departments)
			students.GET("/history/dates", studentController.HistoryDates)
			students.GET("/history/by-date/:date_str", studentController.HistoryByDate)

			students.GET("", studentController.List)
			students.POST("", studentController.Create)
			students.GET("/:id", studentController.Get)
			students.PUT("/:id", studentController.Update)

			studentsAdmin := students.Group("")
			studentsAdmin.Use(authMiddleware.RequireAdmin())
			{
				studentsAdmin.DELETE("/:id", studentController.Delete)
			}
		}

		stats := authenticated.Group("/stats")
		{
			stats.GET("", statsController.Combined)
			stats.GET("/summary", statsController.Summary)
			stats.GET("/quality", statsController.Quality)
			stats.GET("/duplicates", statsController.Duplicates)
			stats.GET("/funnel", statsController.Funnel)
			stats.GET("/by-department", statsController.ByDepartment)
			stats.GET("/by-type", statsController.ByType)
			stats.GET("/tour-requests", statsController.TourRequests)
			stats.GET("/hourly", statsController.Hourly)
			stats.GET("/by-teacher", statsController.ByTeacher)
			stats.GET("/comparison", statsController.Comparison)
			stats.GET("/range", statsController.Range)
			stats.GET("/heatmap", statsController.Heatmap)
			stats.GET("/department-trends", statsController.DepartmentTrends)
			stats.GET("/day/:date_str", statsController.Day)
		}

		management := authenticated.Group("/management")
		management.Use(authMiddleware.RequireAdmin())
		{
			management.GET("/users", managementController.ListUsers)
			management.POST("/users", managementController.CreateUser)
			management.GET("/users/:id", managementController.GetUser)
			management.PUT("/users/:id", managementController.UpdateUser)
			management.DELETE("/users/:id", managementController.DeleteUser)

			management.GET("/departments", managementController.ListDepartments)
			management.POST("/departments", managementController.CreateDepartment)
			management.GET("/departments/:id", managementController.GetDepartment)
			management.PUT("/departments/:id", managementController.UpdateDepartment)
			management.DELETE("/departments/:id", managementController.DeleteDepartment)
		}

		export := authenticated.Group("/export")
		export.Use(authMiddleware.RequireAdmin())
		{
			export.GET("/excel", exportController.Excel)
			export.GET("/daily/:date", exportController.Daily)
		}
	}
}
