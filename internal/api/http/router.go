package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gramseva/grievance-service/internal/api/http/handlers"
	"github.com/gramseva/grievance-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Complaints     *handlers.ComplaintsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	users := app.Group("/users")
	users.Post("/register-otp", cfg.Users.SendRegisterOTP)
	users.Post("/register-verify", cfg.Users.RegisterVerify)
	users.Post("/login", cfg.Users.Login)
	users.Post("/login-otp", cfg.Users.SendLoginOTP)
	users.Post("/verify-otp", cfg.Users.VerifyLoginOTP)
	users.Get("/me", cfg.AuthMiddleware.Handle, cfg.Users.Me)

	complaints := app.Group("/complaints")
	complaints.Get("/feed", cfg.Complaints.Feed)
	complaints.Get("/upload-signature", cfg.AuthMiddleware.Handle, cfg.Complaints.UploadSignature)
	complaints.Get("/my", cfg.AuthMiddleware.Handle, cfg.Complaints.ListMine)
	complaints.Post("/", cfg.AuthMiddleware.Handle, cfg.Complaints.Create)
	complaints.Get("/", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Complaints.ListAll)
	complaints.Put("/:id", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Complaints.Update)
}
