package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-service/internal/api/http/handlers"
	"github.com/spec-kit/identity-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Identity       *handlers.IdentityHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")

	authGroup.Post("/users/register", cfg.Identity.RegisterUser)
	authGroup.Post("/users/verify", cfg.Identity.VerifyUser)
	authGroup.Post("/users/login", cfg.Identity.LoginUser)

	authGroup.Post("/admin/register", cfg.Identity.RegisterAdmin)
	authGroup.Post("/admin/verify", cfg.Identity.VerifyAdmin)
	authGroup.Post("/admin/login", cfg.Identity.LoginAdmin)

	authGroup.Post("/password/forgot", cfg.Identity.ForgotPassword)
	authGroup.Post("/password/verify", cfg.Identity.VerifyPassword)

	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Identity.Me)

	// Lenient attach: logout must accept tokens that fail validation so they
	// can still be revoked.
	authGroup.Post("/logout", cfg.AuthMiddleware.Attach, cfg.Identity.Logout)
}
