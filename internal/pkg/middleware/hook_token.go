package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
)

// HookTokenHeader carries the shared secret of the auth service.
const HookTokenHeader = "X-Session-Hook-Token"

// HookTokenAuthMiddleware admits requests carrying the configured hook token.
// With an empty token every request is rejected.
func HookTokenAuthMiddleware(token string) fiber.Handler {
	if token == "" {
		fiberlog.Warn("[Session] SESSION_HOOK_TOKEN is empty, session hook is disabled")
	}
	return func(c *fiber.Ctx) error {
		got := extractHookToken(c)
		if got == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing hook token"})
		}
		if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid hook token"})
		}
		return c.Next()
	}
}

func extractHookToken(c *fiber.Ctx) string {
	token := strings.TrimSpace(c.Get(HookTokenHeader))
	if token != "" {
		return token
	}
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
