package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/Pitchside/internal/pkg/entitlements"
	"github.com/ManuelReschke/Pitchside/internal/pkg/usercontext"
)

// HandleGetEntitlements returns the current session's entitlements. Anonymous
// sessions get the empty bundle.
func HandleGetEntitlements(c *fiber.Ctx) error {
	return c.JSON(entitlementsView(usercontext.FromFiber(c)))
}

// HandleGetCapacity checks a numeric limit against the caller's current count.
func HandleGetCapacity(c *fiber.Ctx) error {
	key, err := entitlements.ParseFeatureKey(c.Query("feature"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_feature", "message": err.Error()})
	}
	current := c.QueryInt("current", 0)
	if current < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_current", "message": "current must not be negative"})
	}

	tier := usercontext.FromFiber(c).Entitlements().Tier
	limit, err := entitlements.LimitFor(tier, key)
	if err != nil {
		if errors.Is(err, entitlements.ErrNotALimit) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "not_a_limit", "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to resolve limit"})
	}

	remaining := limit - current
	if remaining < 0 {
		remaining = 0
	}
	return c.JSON(fiber.Map{
		"tier":      tier,
		"feature":   key,
		"limit":     limit,
		"current":   current,
		"remaining": remaining,
		"allowed":   entitlements.WithinLimit(tier, key, current),
	})
}
