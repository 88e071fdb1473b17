package http

import (
	"time"

	"github.com/earngage/backend/internal/api"
	"github.com/earngage/backend/internal/config"
	"github.com/earngage/backend/internal/http/handlers"
	"github.com/earngage/backend/internal/middleware"
	"github.com/earngage/backend/internal/rbac"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SetupRouter mounts the REST API over a. rdb may be nil (in-process rate limiting)
// and so may wsHub (no /ws endpoint).
func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	a *api.API,
	wsHub *handlers.WSHub,
) {
	authHandler := handlers.NewAuthHandler(a.Auth, log)
	userHandler := handlers.NewUserHandler(a.Users, a.Analytics, log)
	campaignHandler := handlers.NewCampaignHandler(a.Campaigns, a.Analytics, log)
	applicationHandler := handlers.NewApplicationHandler(a.Applications, a.Campaigns, log)
	analyticsHandler := handlers.NewAnalyticsHandler(a.Analytics, a.Campaigns, log)
	notificationHandler := handlers.NewNotificationHandler(a.Notifications, log)
	metricsHandler := handlers.NewMetricsHandler(a.Metrics, log)
	metaHandler := handlers.NewMetaHandler()

	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID, " + middleware.HeaderRowsToken,
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")
	v1.Use(middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMinute, time.Minute))

	// Public
	v1.Post("/auth/register", authHandler.Register)
	v1.Post("/auth/login", authHandler.Login)
	v1.Get("/meta/categories", metaHandler.GetCategories)
	v1.Get("/meta/statuses", metaHandler.GetStatuses)

	protected := v1.Group("", middleware.AuthMiddleware(a.Auth, log))
	perm := middleware.RequirePermission

	// Auth
	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/change-password", authHandler.ChangePassword)
	protected.Post("/auth/logout", authHandler.Logout)

	// Users & profiles
	protected.Get("/me/profile", userHandler.GetMyProfile)
	protected.Post("/me/profile", userHandler.CreateMyProfile)
	protected.Patch("/me/profile", userHandler.UpdateMyProfile)
	protected.Get("/me/stats", userHandler.GetMyStats)
	protected.Get("/users/:id/profile", userHandler.GetProfile)
	protected.Post("/users/search", userHandler.Search)
	protected.Get("/creators", userHandler.ListCreators)
	protected.Get("/creators/:id", userHandler.GetCreator)
	protected.Get("/brands", userHandler.ListBrands)
	protected.Get("/brands/:id", userHandler.GetBrand)
	protected.Get("/brands/:id/campaigns", campaignHandler.BrandCampaigns)

	// Campaigns
	protected.Post("/campaigns", perm(rbac.PermCreateCampaign), campaignHandler.CreateCampaign)
	protected.Get("/campaigns", campaignHandler.ListCampaigns)
	protected.Get("/campaigns/active", campaignHandler.ListActive)
	protected.Get("/campaigns/mine", perm(rbac.PermCreateCampaign), campaignHandler.MyCampaigns)
	protected.Get("/campaigns/recommended", perm(rbac.PermApply), campaignHandler.Recommended)
	protected.Post("/campaigns/search", campaignHandler.Search)
	protected.Get("/campaigns/:id", campaignHandler.GetCampaign)
	protected.Patch("/campaigns/:id", perm(rbac.PermManageCampaign), campaignHandler.UpdateCampaign)
	protected.Delete("/campaigns/:id", perm(rbac.PermManageCampaign), campaignHandler.DeleteCampaign)
	protected.Post("/campaigns/:id/status", perm(rbac.PermManageCampaign), campaignHandler.ChangeStatus)
	protected.Get("/campaigns/:id/stats", perm(rbac.PermManageCampaign), campaignHandler.GetStats)
	protected.Get("/campaigns/:id/applications", perm(rbac.PermReviewApplication), applicationHandler.CampaignApplications)
	protected.Get("/campaigns/:id/applications/analytics", perm(rbac.PermReviewApplication), applicationHandler.CampaignApplicationAnalytics)
	protected.Get("/campaigns/:id/applied", perm(rbac.PermApply), applicationHandler.HasApplied)

	// Applications
	protected.Post("/applications", perm(rbac.PermApply), applicationHandler.Apply)
	protected.Get("/applications", perm(rbac.PermViewPlatformAnalytics), applicationHandler.ByStatus)
	protected.Get("/applications/mine", perm(rbac.PermApply), applicationHandler.MyApplications)
	protected.Get("/applications/:id", applicationHandler.GetApplication)
	protected.Patch("/applications/:id", applicationHandler.UpdateApplication)
	protected.Delete("/applications/:id", applicationHandler.WithdrawApplication)
	protected.Post("/applications/:id/status", perm(rbac.PermReviewApplication), applicationHandler.ChangeStatus)

	// Analytics
	protected.Post("/analytics/events", analyticsHandler.RecordEvent)
	protected.Get("/analytics/events", perm(rbac.PermViewPlatformAnalytics), analyticsHandler.Events)
	protected.Get("/analytics/platform", perm(rbac.PermViewPlatformAnalytics), analyticsHandler.Platform)
	protected.Get("/analytics/creators/:id", perm(rbac.PermViewCreatorAnalytics), analyticsHandler.Creator)
	protected.Get("/analytics/brands/:id", perm(rbac.PermViewBrandAnalytics), analyticsHandler.Brand)
	protected.Get("/analytics/campaigns/:id/views", perm(rbac.PermViewBrandAnalytics), analyticsHandler.CampaignViews)
	protected.Get("/analytics/campaigns/:id/applications", perm(rbac.PermViewBrandAnalytics), analyticsHandler.CampaignApplications)

	// Notifications
	protected.Get("/notifications", notificationHandler.List)
	protected.Get("/notifications/unread-count", notificationHandler.UnreadCount)
	protected.Post("/notifications/read-all", notificationHandler.MarkAllRead)
	protected.Post("/notifications/:id/read", notificationHandler.MarkRead)

	// Creator metrics
	protected.Post("/metrics/refresh", perm(rbac.PermRefreshMetrics), metricsHandler.RefreshMine)
	protected.Post("/metrics/refresh-all", perm(rbac.PermViewPlatformAnalytics), metricsHandler.RefreshAll)

	if wsHub != nil {
		app.Use("/ws", handlers.WSUpgradeMiddleware())
		app.Get("/ws", websocket.New(wsHub.HandleWS))
	}
}
