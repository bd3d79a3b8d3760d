package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gradebook-api/internal/config"
	"github.com/noah-isme/gradebook-api/internal/handler"
	"github.com/noah-isme/gradebook-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler        *handler.AuthHandler
	UserHandler        *handler.UserHandler
	GradeHandler       *handler.GradeHandler
	ImportHandler      *handler.ImportHandler
	RankingHandler     *handler.RankingHandler
	StudentHandler     *handler.StudentHandler
	DashboardHandler   *handler.DashboardHandler
	MaintenanceHandler *handler.MaintenanceHandler
	ActivityHandler    *handler.ActivityHandler
	JWTMiddleware      fiber.Handler
	TeacherOnly        fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.ScrapeHandler())

	// Use provided middleware, or no-ops if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	teacherOnly := deps.TeacherOnly
	if teacherOnly == nil {
		teacherOnly = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Authentication (login is public, user management is teacher-only)
	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		deps.AuthHandler.Register(auth)
	}
	if deps.UserHandler != nil {
		users := api.Group("/users", jwtMiddleware, teacherOnly)
		deps.UserHandler.Register(users)
	}

	// Grades (import/export routes registered first so the literal paths
	// win over /:id)
	if deps.GradeHandler != nil {
		grades := api.Group("/grades", jwtMiddleware)
		if deps.ImportHandler != nil {
			deps.ImportHandler.Register(grades, teacherOnly)
		}
		deps.GradeHandler.Register(grades, teacherOnly)
	}

	// Rankings
	if deps.RankingHandler != nil {
		rankings := api.Group("/rankings", jwtMiddleware)
		deps.RankingHandler.Register(rankings)
	}

	// Per-student views
	if deps.StudentHandler != nil {
		students := api.Group("/students", jwtMiddleware)
		deps.StudentHandler.Register(students)
	}

	// Dashboard analytics
	if deps.DashboardHandler != nil {
		dashboard := api.Group("/dashboard", jwtMiddleware)
		deps.DashboardHandler.Register(dashboard)
	}

	// Maintenance & audit trail
	if deps.MaintenanceHandler != nil {
		maintenance := api.Group("/maintenance", jwtMiddleware, teacherOnly)
		deps.MaintenanceHandler.Register(maintenance)
	}
	if deps.ActivityHandler != nil {
		activity := api.Group("/activity", jwtMiddleware, teacherOnly)
		deps.ActivityHandler.Register(activity)
	}
}
