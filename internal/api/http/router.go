package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/billing-portal/internal/api/http/handlers"
	"github.com/spec-kit/billing-portal/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Account        *handlers.AccountHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. It must be called after RegisterMiddlewares
// because the trailing fallback answers every unmatched path.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Root)
	app.Get("/api/ping", cfg.Health.Ping)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/api/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	authGroup.Get("/stats", cfg.AuthMiddleware.Handle, cfg.Account.Stats)
	authGroup.Get("/receipts", cfg.AuthMiddleware.Handle, cfg.Account.Receipts)
	authGroup.Post("/support", cfg.AuthMiddleware.Handle, cfg.Account.SubmitTicket)
	authGroup.Get("/support", cfg.AuthMiddleware.Handle, cfg.Account.Tickets)
	authGroup.Post("/payment", cfg.AuthMiddleware.Handle, cfg.Account.Pay)

	admin := app.Group("/api/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/customers", cfg.Admin.ListCustomers)
	admin.Get("/customers/:id", cfg.Admin.CustomerDetail)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Post("/stats/update", cfg.Admin.UpdateStats)
	admin.Post("/receipts/generate", cfg.Admin.GenerateReceipt)
	admin.Get("/receipts", cfg.Admin.ListReceipts)
	admin.Get("/support/tickets", cfg.Admin.ListTickets)
	admin.Post("/support/respond", cfg.Admin.RespondTicket)
	admin.Get("/dashboard/stats", cfg.Admin.DashboardStats)

	app.Use(notFoundHandler)
}
