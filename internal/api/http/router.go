package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/memberops/memberops-api/internal/api/http/handlers"
	"github.com/memberops/memberops-api/internal/auth"
	"github.com/memberops/memberops-api/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Auth            *handlers.AuthHandler
	Members         *handlers.MembersHandler
	Flags           *handlers.FlagsHandler
	ServiceRequests *handlers.ServiceRequestsHandler
	AuditLog        *handlers.AuditLogHandler
	Staff           *handlers.StaffHandler
	AuthMiddleware  *auth.AuthMiddleware
	Metrics         *observability.Metrics

	LoginRatePerSecond float64
	LoginBurst         int
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api")
	api.Post("/auth/login", LoginRateLimit(cfg.LoginRatePerSecond, cfg.LoginBurst), cfg.Auth.Login)

	protected := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole())
	supervisor := auth.RequireSupervisor()

	protected.Post("/auth/logout", cfg.Auth.Logout)

	protected.Get("/members", cfg.Members.List)
	protected.Get("/members/:id", cfg.Members.Get)
	protected.Put("/members/:id/lock", supervisor, cfg.Members.Lock)
	protected.Put("/members/:id/unlock", supervisor, cfg.Members.Unlock)
	protected.Put("/members/:id/notes", supervisor, cfg.Members.UpdateNotes)

	protected.Get("/members/:memberId/flags", cfg.Flags.List)
	protected.Post("/members/:memberId/flags", cfg.Flags.Create)
	protected.Put("/members/:memberId/flags/:flagId/resolve", supervisor, cfg.Flags.Resolve)

	protected.Get("/service-requests", cfg.ServiceRequests.List)
	protected.Post("/service-requests", cfg.ServiceRequests.Create)
	protected.Get("/service-requests/:id", cfg.ServiceRequests.Get)
	protected.Put("/service-requests/:id", cfg.ServiceRequests.Update)
	protected.Put("/service-requests/:id/assign", supervisor, cfg.ServiceRequests.Assign)
	protected.Put("/service-requests/:id/status", cfg.ServiceRequests.UpdateStatus)
	protected.Put("/service-requests/:id/resolve", supervisor, cfg.ServiceRequests.Resolve)
	protected.Post("/service-requests/:id/comments", cfg.ServiceRequests.AddComment)

	protected.Get("/audit-log", supervisor, cfg.AuditLog.List)

	protected.Get("/staff", cfg.Staff.List)
	protected.Get("/staff/:id", cfg.Staff.Get)
}
