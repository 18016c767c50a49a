package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/communix/communix-api/internal/config"
	"github.com/communix/communix-api/internal/handler"
	"github.com/communix/communix-api/internal/middleware"
	"github.com/communix/communix-api/internal/models"
	"github.com/communix/communix-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler           *handler.AuthHandler
	UserHandler           *handler.UserHandler
	CommunityHandler      *handler.CommunityHandler
	GroupHandler          *handler.GroupHandler
	ReportHandler         *handler.ReportHandler
	AdminUserHandler      *handler.AdminUserHandler
	AdminCommunityHandler *handler.AdminCommunityHandler
	AdminDashboardHandler *handler.AdminDashboardHandler
	AdminSettingsHandler  *handler.AdminSettingsHandler
	AdminReportHandler    *handler.AdminReportHandler
	AdminActivityHandler  *handler.AdminActivityHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	protected := middleware.JWTProtected(cfg.JWTSecret)

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", 20, time.Minute))
		deps.AuthHandler.Register(auth)
	}

	if deps.UserHandler != nil {
		users := api.Group("/users", protected)
		deps.UserHandler.Register(users)

		onboarding := api.Group("/onboarding", protected)
		deps.UserHandler.RegisterOnboarding(onboarding)
	}

	if deps.CommunityHandler != nil {
		deps.CommunityHandler.Register(api.Group("/communities"), protected)
	}

	if deps.GroupHandler != nil {
		groups := api.Group("/groups", protected)
		deps.GroupHandler.Register(groups)
	}

	if deps.ReportHandler != nil {
		reports := api.Group("/reports", protected)
		deps.ReportHandler.Register(reports)
	}

	admin := api.Group("/admin", protected, middleware.RequireRole(models.RoleAdmin))

	if deps.AdminUserHandler != nil {
		deps.AdminUserHandler.Register(admin.Group("/users"))
	}
	if deps.AdminCommunityHandler != nil {
		deps.AdminCommunityHandler.Register(admin.Group("/communities"))
		deps.AdminCommunityHandler.RegisterJoinRequests(admin.Group("/join-requests"))
	}
	if deps.AdminDashboardHandler != nil {
		deps.AdminDashboardHandler.Register(admin.Group("/dashboard"))
	}
	if deps.AdminSettingsHandler != nil {
		deps.AdminSettingsHandler.Register(admin)
	}
	if deps.AdminReportHandler != nil {
		deps.AdminReportHandler.Register(admin.Group("/reports"))
	}
	if deps.AdminActivityHandler != nil {
		deps.AdminActivityHandler.Register(admin.Group("/activity"))
	}
}
