package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/academic-evaluator-api/internal/config"
	"github.com/noah-isme/academic-evaluator-api/internal/handler"
	"github.com/noah-isme/academic-evaluator-api/internal/middleware"
	"github.com/noah-isme/academic-evaluator-api/internal/models"
	"github.com/noah-isme/academic-evaluator-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler             *handler.AuthHandler
	StudentHandler          *handler.StudentHandler
	SubjectHandler          *handler.SubjectHandler
	AcademicHandler         *handler.AcademicHandler
	FeedbackHandler         *handler.FeedbackHandler
	ActivityHandler         *handler.ActivityHandler
	StaffDashboardHandler   *handler.StaffDashboardHandler
	StudentDashboardHandler *handler.StudentDashboardHandler
	RealtimeHandler         *handler.RealtimeHandler
	SeedHandler             *handler.SeedHandler
	JWTMiddleware           fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		limiter := middleware.RateLimit("login", cfg.LoginRateLimit, time.Minute)
		deps.AuthHandler.Register(api.Group("/auth"), limiter, jwtMiddleware)
	}

	staff := api.Group("/staff", jwtMiddleware, middleware.RequireRole(models.RoleStaff))
	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(staff.Group("/students"))
	}
	if deps.SubjectHandler != nil {
		deps.SubjectHandler.Register(staff)
	}
	if deps.AcademicHandler != nil {
		deps.AcademicHandler.Register(staff)
	}
	if deps.FeedbackHandler != nil {
		deps.FeedbackHandler.RegisterStaff(staff)
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(staff)
	}
	if deps.StaffDashboardHandler != nil {
		deps.StaffDashboardHandler.Register(staff)
	}
	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(staff)
	}

	student := api.Group("/student", jwtMiddleware)
	if deps.StudentDashboardHandler != nil {
		deps.StudentDashboardHandler.Register(student)
	}
	if deps.FeedbackHandler != nil {
		deps.FeedbackHandler.RegisterStudent(student)
	}
	if deps.RealtimeHandler != nil {
		deps.RealtimeHandler.Register(student)
	}
}
