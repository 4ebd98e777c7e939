package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sla-engine/internal/api/http/handlers"
	"github.com/spec-kit/sla-engine/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Metrics        *handlers.MetricsHandler
	Auth           *handlers.AuthHandler
	Evaluations    *handlers.EvaluationsHandler
	Holidays       *handlers.HolidaysHandler
	Results        *handlers.ResultsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Snapshot)

	app.Post("/auth/token", cfg.Auth.Token)

	v1 := app.Group("/v1", cfg.AuthMiddleware.Handle)
	v1.Post("/evaluations", cfg.Evaluations.EvaluateBatch)
	v1.Get("/holidays/:year", cfg.Holidays.GetYear)
	v1.Post("/holidays/:year/refresh", cfg.Holidays.RefreshYear)
	v1.Get("/results", cfg.Results.ListRecent)
	v1.Get("/results/:issue_id", cfg.Results.ListByIssue)
}
