package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/Pitchside/internal/pkg/entitlements"
)

// HandleListPlans returns the plan catalog. The optional cycle query picks
// the headline price shown per plan.
func HandleListPlans(c *fiber.Ctx) error {
	cycle := entitlements.Monthly
	if raw := c.Query("cycle"); raw != "" {
		parsed, err := entitlements.ParseBillingCycle(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_cycle", "message": err.Error()})
		}
		cycle = parsed
	}

	plans := make([]fiber.Map, 0, len(entitlements.Tiers()))
	for _, cfg := range entitlements.Plans() {
		plans = append(plans, planView(cfg, cycle))
	}
	return c.JSON(fiber.Map{"cycle": cycle, "plans": plans})
}

// HandleGetPlan returns a single plan by tier.
func HandleGetPlan(c *fiber.Ctx) error {
	tier, err := entitlements.ParsePlanTier(c.Params("tier"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_plan", "message": err.Error()})
	}
	return c.JSON(planView(entitlements.MustPlanConfig(tier), entitlements.Monthly))
}

// HandleGetPlanFeature answers whether a tier grants a feature.
func HandleGetPlanFeature(c *fiber.Ctx) error {
	tier, err := entitlements.ParsePlanTier(c.Params("tier"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_plan", "message": err.Error()})
	}
	key, err := entitlements.ParseFeatureKey(c.Params("feature"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_feature", "message": err.Error()})
	}

	v, err := entitlements.MustPlanConfig(tier).Features.Value(key)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to resolve feature"})
	}
	return c.JSON(fiber.Map{
		"tier":    tier,
		"feature": key,
		"kind":    v.Kind().String(),
		"value":   v.Raw(),
		"enabled": entitlements.HasFeature(tier, key),
	})
}

// HandleGetRole returns the permissions of a role.
func HandleGetRole(c *fiber.Ctx) error {
	role, err := entitlements.ParseRole(c.Params("role"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_role", "message": err.Error()})
	}
	return c.JSON(fiber.Map{
		"role":        role,
		"permissions": entitlements.MustRolePermissions(role),
	})
}

func planView(cfg entitlements.PlanConfig, cycle entitlements.BillingCycle) fiber.Map {
	features := fiber.Map{}
	for _, key := range entitlements.FeatureKeys() {
		v, err := cfg.Features.Value(key)
		if err != nil {
			continue
		}
		features[string(key)] = v.Raw()
	}

	return fiber.Map{
		"tier":        cfg.Tier,
		"name":        cfg.Name,
		"description": cfg.Description,
		"badge":       cfg.Badge,
		"price":       entitlements.FormatPrice(cfg.Price(cycle), cycle),
		"prices": fiber.Map{
			"monthly": priceView(cfg, entitlements.Monthly),
			"yearly":  priceView(cfg, entitlements.Yearly),
		},
		"features": features,
	}
}

func priceView(cfg entitlements.PlanConfig, cycle entitlements.BillingCycle) fiber.Map {
	return fiber.Map{
		"amount":      cfg.Price(cycle),
		"display":     entitlements.FormatPrice(cfg.Price(cycle), cycle),
		"billing_ref": cfg.BillingRef(cycle),
	}
}
