package middleware

import (
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/ManuelReschke/Pitchside/internal/pkg/entitlements"
	"github.com/ManuelReschke/Pitchside/internal/pkg/guard"
	"github.com/ManuelReschke/Pitchside/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/Pitchside/internal/pkg/usercontext"
)

// RequireAuth admits any logged-in session.
func RequireAuth(fallback ...fiber.Handler) fiber.Handler {
	return Require(guard.Authenticated(), fallback...)
}

// RequireFeature admits sessions whose plan grants key.
func RequireFeature(key entitlements.FeatureKey, fallback ...fiber.Handler) fiber.Handler {
	return Require(guard.Feature(key), fallback...)
}

// RequirePlan admits sessions on one of the listed tiers.
func RequirePlan(tiers []entitlements.PlanTier, fallback ...fiber.Handler) fiber.Handler {
	return Require(guard.Plans(tiers...), fallback...)
}

// RequirePermission admits sessions whose role grants perm.
func RequirePermission(perm entitlements.Permission, fallback ...fiber.Handler) fiber.Handler {
	return Require(guard.Permission(perm), fallback...)
}

// Require wraps a guard as route middleware. Denied requests are handed to
// the first fallback, DenyAPI when none is given.
func Require(g guard.Guard, fallback ...fiber.Handler) fiber.Handler {
	deny := DenyAPI
	if len(fallback) > 0 && fallback[0] != nil {
		deny = fallback[0]
	}
	return func(c *fiber.Ctx) error {
		if g.Admits(usercontext.FromFiber(c)) {
			return c.Next()
		}
		if err := counter.AddGuardDenial(g.Name()); err != nil {
			fiberlog.Warnf("[Entitlements] failed to count denial for %s: %v", g.Name(), err)
		}
		return deny(c)
	}
}

// DenyAPI answers with JSON 401 for anonymous sessions and 403 otherwise.
func DenyAPI(c *fiber.Ctx) error {
	if !usercontext.FromFiber(c).IsAuthenticated() {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error":   "forbidden",
		"message": "your plan or role does not include this feature",
	})
}

// DenyWeb redirects to path with a flash message.
func DenyWeb(path string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fm := fiber.Map{
			"type":    "error",
			"message": "Upgrade your plan to open this page",
		}
		if !usercontext.FromFiber(c).IsAuthenticated() {
			fm["message"] = "Please log in to continue"
		}
		return flash.WithError(c, fm).Redirect(path, fiber.StatusSeeOther)
	}
}
