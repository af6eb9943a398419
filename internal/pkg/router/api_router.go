package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ManuelReschke/Pitchside/app/controllers"
	"github.com/ManuelReschke/Pitchside/internal/pkg/entitlements"
	"github.com/ManuelReschke/Pitchside/internal/pkg/env"
	"github.com/ManuelReschke/Pitchside/internal/pkg/middleware"
)

const defaultRateLimit = 120

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        env.GetInt("API_RATE_LIMIT", defaultRateLimit),
		Expiration: time.Minute,
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")

	// Catalog
	v1.Get("/plans", controllers.HandleListPlans)
	v1.Get("/plans/:tier", controllers.HandleGetPlan)
	v1.Get("/plans/:tier/features/:feature", controllers.HandleGetPlanFeature)
	v1.Get("/roles/:role", controllers.HandleGetRole)

	// Session hook for the auth service
	v1.Post("/session", middleware.HookTokenAuthMiddleware(env.GetEnv("SESSION_HOOK_TOKEN", "")), controllers.HandleSetSessionUser)
	v1.Delete("/session", controllers.HandleClearSessionUser)

	// Current session
	v1.Get("/me/entitlements", controllers.HandleGetEntitlements)
	v1.Get("/me/capacity", middleware.RequireAuth(), controllers.HandleGetCapacity)

	// Guarded regions
	v1.Get("/grassroots", middleware.RequireFeature(entitlements.FeatureCanAccessGrassroots), controllers.HandleGrassroots)
	v1.Get("/partner/dashboard", middleware.RequirePlan([]entitlements.PlanTier{entitlements.PlanPartner}), controllers.HandlePartnerDashboard)
	v1.Get("/premium", middleware.RequirePlan([]entitlements.PlanTier{entitlements.PlanPro, entitlements.PlanPartner}), controllers.HandlePremium)
	v1.Get("/admin/entitlements/stats", middleware.RequirePermission(entitlements.PermissionManagePlatform), controllers.HandleEntitlementStats)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
