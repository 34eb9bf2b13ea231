package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/satyamkumarjha2002/help-desk-portal/internal/api/http/handlers"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/auth"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Admin          *handlers.AdminHandler
	Org            *handlers.OrgHandler
	Users          *handlers.UsersHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Route guards only fence coarse role
// groups; the fine-grained decisions live in the policy package and are
// enforced by the services.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	authProtected.Get("/me", cfg.Auth.Me)
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Patch("/:id/status", cfg.Tickets.UpdateStatus)
	tickets.Post("/:id/assign", auth.RequireStaff(), cfg.Tickets.Assign)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Delete("/:id", auth.RequireStaff(), cfg.Tickets.Delete)

	admin := app.Group("/admin/tickets/bulk", cfg.AuthMiddleware.Handle, auth.RequireStaff())
	admin.Post("/status", cfg.Admin.BulkStatus)
	admin.Post("/assign", cfg.Admin.BulkAssign)
	admin.Post("/transfer", cfg.Admin.BulkTransfer)

	departments := app.Group("/departments", cfg.AuthMiddleware.Handle)
	departments.Get("", cfg.Org.ListDepartments)
	departments.Get("/:id", cfg.Org.GetDepartment)
	departments.Get("/:id/categories", cfg.Org.ListCategories)
	departments.Post("", auth.RequireRole(domain.RoleAdmin, domain.RoleSuperAdmin), cfg.Org.CreateDepartment)
	departments.Patch("/:id", auth.RequireRole(domain.RoleAdmin, domain.RoleSuperAdmin), cfg.Org.UpdateDepartment)
	departments.Delete("/:id", auth.RequireRole(domain.RoleSuperAdmin), cfg.Org.DeleteDepartment)

	categories := app.Group("/categories", cfg.AuthMiddleware.Handle)
	categories.Post("", auth.RequireRole(domain.RoleAdmin, domain.RoleSuperAdmin), cfg.Org.CreateCategory)
	categories.Patch("/:id", auth.RequireRole(domain.RoleAdmin, domain.RoleSuperAdmin), cfg.Org.UpdateCategory)
	categories.Delete("/:id", auth.RequireRole(domain.RoleSuperAdmin), cfg.Org.DeleteCategory)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("", auth.RequireStaff(), cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Post("", auth.RequireRole(domain.RoleAdmin, domain.RoleSuperAdmin), cfg.Users.Create)
	users.Patch("/:id", auth.RequireRole(domain.RoleAdmin, domain.RoleSuperAdmin), cfg.Users.Update)
	users.Post("/:id/deactivate", auth.RequireRole(domain.RoleAdmin, domain.RoleSuperAdmin), cfg.Users.Deactivate)

	notifications := app.Group("/notifications", cfg.AuthMiddleware.Handle)
	notifications.Get("", cfg.Notifications.List)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)
}
