package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/Pitchside/app/controllers"
	"github.com/ManuelReschke/Pitchside/internal/pkg/constants"
	"github.com/ManuelReschke/Pitchside/internal/pkg/entitlements"
	"github.com/ManuelReschke/Pitchside/internal/pkg/middleware"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get(constants.PricingRoute, controllers.HandlePricing)
	app.Get(constants.PartnerRoute,
		middleware.RequirePlan([]entitlements.PlanTier{entitlements.PlanPartner}, middleware.DenyWeb(constants.PricingRoute)),
		controllers.HandlePartnerHome,
	)
}
