package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/api/http/handlers"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/auth"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Evidence       *handlers.EvidenceHandler
	Users          *handlers.UsersHandler
	Statistics     *handlers.StatisticsHandler
	Upload         *handlers.UploadHandler
	AuthMiddleware fiber.Handler
	LoginLimiter   *IPRateLimiter
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	if cfg.LoginLimiter != nil {
		authGroup.Post("/login", cfg.LoginLimiter.Handle, cfg.Auth.Login)
	} else {
		authGroup.Post("/login", cfg.Auth.Login)
	}
	authGroup.Get("/me", cfg.AuthMiddleware, cfg.Auth.Me)
	authGroup.Post("/me", cfg.AuthMiddleware, cfg.Auth.Me)
	authGroup.Post("/logout", cfg.AuthMiddleware, cfg.Auth.Logout)

	protected := api.Group("", cfg.AuthMiddleware, auth.RequireRole())
	managers := auth.RequireRole(domain.RoleAdmin, domain.RoleInvestigator)

	evidence := protected.Group("/evidence")
	evidence.Get("/", cfg.Evidence.List)
	evidence.Get("/expiring", cfg.Evidence.Expiring)
	evidence.Get("/:id", cfg.Evidence.Get)
	evidence.Get("/:id/history", cfg.Evidence.History)
	evidence.Post("/", managers, cfg.Evidence.Create)
	evidence.Patch("/:id", managers, cfg.Evidence.Update)
	evidence.Post("/:id/complete", managers, cfg.Evidence.Complete)
	evidence.Post("/:id/remove", managers, cfg.Evidence.Remove)
	evidence.Delete("/:id", managers, cfg.Evidence.Remove)

	users := protected.Group("/users", auth.RequireRole(domain.RoleAdmin))
	users.Get("/", cfg.Users.List)
	users.Post("/", cfg.Users.Create)
	users.Get("/:id", cfg.Users.Get)
	users.Patch("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)

	stats := protected.Group("/statistics")
	stats.Get("/dashboard", cfg.Statistics.Dashboard)
	stats.Get("/users/:id", cfg.Statistics.ForUser)
	stats.Get("/monthly", cfg.Statistics.Monthly)

	protected.Post("/upload/image", managers, cfg.Upload.Image)
}
