package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/ManuelReschke/Pitchside/internal/pkg/entitlements"
	"github.com/ManuelReschke/Pitchside/internal/pkg/guard"
	"github.com/ManuelReschke/Pitchside/internal/pkg/usercontext"
)

// HandlePricing returns the pricing page model. The browsing frontend renders
// it; the flash carries the reason for a guard redirect.
func HandlePricing(c *fiber.Ctx) error {
	uc := usercontext.FromFiber(c)

	plans := make([]fiber.Map, 0, len(entitlements.Tiers()))
	for _, cfg := range entitlements.Plans() {
		view := planView(cfg, entitlements.Monthly)
		view["current"] = uc.IsAuthenticated() && uc.Entitlements().Tier == cfg.Tier
		plans = append(plans, view)
	}

	cta := guard.Select(guard.Plans(entitlements.PlanPartner), uc, "Go to dashboard", "Become a partner")
	return c.JSON(fiber.Map{
		"page":  "pricing",
		"plans": plans,
		"cta":   cta,
		"flash": flash.Get(c),
	})
}

// HandlePartnerHome is the partner landing page.
func HandlePartnerHome(c *fiber.Ctx) error {
	uc := usercontext.FromFiber(c)
	banner := guard.Render(guard.Feature(entitlements.FeatureRequiresVerification), uc, func() string {
		if uc.Entitlements().PendingVerification {
			return "Your organization is awaiting verification"
		}
		return ""
	}, "")

	return c.JSON(fiber.Map{
		"page":   "partner",
		"tier":   uc.Entitlements().Tier,
		"banner": banner,
		"flash":  flash.Get(c),
	})
}
