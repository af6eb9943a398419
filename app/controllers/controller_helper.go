package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// clientIP returns the caller address, preferring proxy headers.
func clientIP(c *fiber.Ctx) string {
	if ip := strings.TrimSpace(c.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if xff := c.Get(fiber.HeaderXForwardedFor); xff != "" {
		// the first entry is the original client
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	return strings.TrimPrefix(c.IP(), "::ffff:")
}
