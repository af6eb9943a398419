package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/Pitchside/app/models"
	"github.com/ManuelReschke/Pitchside/internal/pkg/usercontext"
)

// HandleSetSessionUser is called by the auth service after login, signup or
// a session refresh. It replaces the session user and returns the new
// entitlements.
func HandleSetSessionUser(c *fiber.Ctx) error {
	var u models.User
	if err := c.BodyParser(&u); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_body", "message": "Request body must be a user record"})
	}

	uc := usercontext.FromFiber(c)
	if err := uc.SetUser(&u); err != nil {
		if errors.Is(err, usercontext.ErrInvalidUser) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid_user", "message": err.Error()})
		}
		fiberlog.Errorf("[Session] failed to set user %q from %s: %v", u.ID, clientIP(c), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to store session"})
	}

	fiberlog.Infof("[Session] user %s signed in on plan %s (hook from %s)", u.ID, uc.Entitlements().Tier, clientIP(c))
	return c.JSON(entitlementsView(uc))
}

// HandleClearSessionUser logs the session out.
func HandleClearSessionUser(c *fiber.Ctx) error {
	if err := usercontext.FromFiber(c).SetUser(nil); err != nil {
		fiberlog.Errorf("[Session] failed to clear session user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to clear session"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func entitlementsView(uc *usercontext.Context) fiber.Map {
	return fiber.Map{
		"user":         uc.User(),
		"entitlements": uc.Entitlements(),
	}
}
