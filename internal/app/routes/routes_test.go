package routes

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Saewt/university-visitor-system/internal/app/controllers"
	"github.com/Saewt/university-visitor-system/internal/middleware"
)

// buildRouter registers the route table with empty controllers. Handlers are
// never invoked, only the registered paths are inspected.
func buildRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRouter(router,
		&controllers.AuthController{},
		&controllers.StudentController{},
		&controllers.ManagementController{},
		&controllers.StatsController{},
		&controllers.ExportController{},
		&controllers.EventsController{},
		&middleware.AuthMiddleware{},
	)
	return router
}

func TestRouteTable(t *testing.T) {
	registered := make(map[string]bool)
	for _, route := range buildRouter().Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"GET /health",
		"POST /api/v1/auth/login",
		"GET /api/v1/auth/me",
		"GET /api/v1/events/stream",
		"GET /api/v1/students",
		"POST /api/v1/students",
		"GET /api/v1/students/:id",
		"PUT /api/v1/students/:id",
		"DELETE /api/v1/students/:id",
		"GET /api/v1/students/check-duplicate",
		"GET /api/v1/stats",
		"GET /api/v1/stats/day/:date_str",
		"GET /api/v1/management/users",
		"GET /api/v1/management/users/:id",
		"PUT /api/v1/management/users/:id",
		"GET /api/v1/management/departments",
		"GET /api/v1/management/departments/:id",
		"DELETE /api/v1/management/departments/:id",
		"GET /api/v1/export/excel",
		"GET /api/v1/export/daily/:date",
	}
	for _, want := range expected {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestStaticStudentPathsResolve(t *testing.T) {
	// a literal path must not be captured by the :id parameter route
	router := buildRouter()

	for _, path := range []string{
		"/api/v1/students/check-duplicate",
		"/api/v1/students/departments/list",
		"/api/v1/students/history/dates",
	} {
		handlers := router.Routes()
		found := false
		for _, route := range handlers {
			if route.Method == http.MethodGet && route.Path == path {
				found = true
			}
		}
		assert.True(t, found, "static path %s not registered", path)
	}
}
