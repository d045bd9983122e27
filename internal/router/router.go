package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/praxis-api/internal/config"
	"github.com/noah-isme/praxis-api/internal/handler"
	"github.com/noah-isme/praxis-api/internal/middleware"
	"github.com/noah-isme/praxis-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AssignmentHandler   *handler.AssignmentHandler
	GradingHandler      *handler.GradingHandler
	AttachmentHandler   *handler.AttachmentHandler
	RubricHandler       *handler.RubricHandler
	NotificationHandler *handler.NotificationHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AssignmentHandler != nil {
		assignments := api.Group("/assignments", jwtMiddleware)
		deps.AssignmentHandler.Register(assignments)

		if deps.AttachmentHandler != nil {
			deps.AttachmentHandler.Register(assignments)
		}

		if deps.GradingHandler != nil {
			grading := api.Group("/assignments", jwtMiddleware, middleware.RequireStaff())
			deps.GradingHandler.Register(grading)
		}
	}

	if deps.RubricHandler != nil {
		rubrics := api.Group("/rubrics", jwtMiddleware, middleware.RequireStaff())
		deps.RubricHandler.Register(rubrics)
	}

	if deps.NotificationHandler != nil {
		notifications := api.Group("/notifications", jwtMiddleware)
		deps.NotificationHandler.Register(notifications)
	}
}
