package controllers

import (
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/Pitchside/internal/pkg/entitlements"
	"github.com/ManuelReschke/Pitchside/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/Pitchside/internal/pkg/usercontext"
)

// Handlers behind guards. Content itself is served by the browsing service;
// these return the entitlement view of each region.

func HandleGrassroots(c *fiber.Ctx) error {
	ent := usercontext.FromFiber(c).Entitlements()
	return c.JSON(fiber.Map{
		"region":               "grassroots",
		"tier":                 ent.Tier,
		"pending_verification": ent.PendingVerification,
	})
}

func HandlePremium(c *fiber.Ctx) error {
	ent := usercontext.FromFiber(c).Entitlements()
	return c.JSON(fiber.Map{
		"region": "premium",
		"tier":   ent.Tier,
	})
}

// HandlePartnerDashboard summarizes what a partner may manage.
func HandlePartnerDashboard(c *fiber.Ctx) error {
	uc := usercontext.FromFiber(c)
	ent := uc.Entitlements()
	return c.JSON(fiber.Map{
		"region":                   "partner_dashboard",
		"tier":                     ent.Tier,
		"pending_verification":     ent.PendingVerification,
		"max_organizations":        ent.Features.MaxOrganizations,
		"max_teams_per_org":        ent.Features.MaxTeamsPerOrg,
		"can_manage_teams":         uc.HasFeature(entitlements.FeatureCanManageTeams),
		"can_manage_competitions":  uc.HasFeature(entitlements.FeatureCanManageCompetitions),
		"can_access_analytics":     uc.HasFeature(entitlements.FeatureCanAccessAnalytics),
		"can_edit_organization":    uc.Allows(entitlements.PermissionEditOrganizationData),
		"can_manage_organizations": uc.Allows(entitlements.PermissionManageOwnOrganization),
	})
}

// HandleEntitlementStats returns guard denial and fallback counters.
func HandleEntitlementStats(c *fiber.Ctx) error {
	stats, err := counter.Snapshot()
	if err != nil {
		fiberlog.Errorf("[Entitlements] failed to read counters: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to read counters"})
	}
	return c.JSON(stats)
}
