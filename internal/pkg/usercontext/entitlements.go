package usercontext

import (
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/Pitchside/app/models"
	"github.com/ManuelReschke/Pitchside/internal/pkg/entitlements"
)

// Entitlements is the bundle derived from the current user. It is rebuilt
// on every user change and never modified afterwards.
type Entitlements struct {
	Authenticated       bool                          `json:"authenticated"`
	Tier                entitlements.PlanTier         `json:"tier,omitempty"`
	Plan                *entitlements.PlanConfig      `json:"plan"`
	Features            *entitlements.PlanFeatures    `json:"features"`
	Role                entitlements.Role             `json:"role,omitempty"`
	Permissions         *entitlements.RolePermissions `json:"permissions"`
	IsPartner           bool                          `json:"is_partner"`
	IsPro               bool                          `json:"is_pro"`
	CanAccessGrassroots bool                          `json:"can_access_grassroots"`
	PendingVerification bool                          `json:"pending_verification"`
	PlanFallback        bool                          `json:"plan_fallback"`
	RoleFallback        bool                          `json:"role_fallback"`
}

// HasFeature is false for anonymous sessions.
func (e *Entitlements) HasFeature(key entitlements.FeatureKey) bool {
	if e == nil || e.Features == nil {
		return false
	}
	return e.Features.Has(key)
}

// Allows reports a role permission; false for anonymous sessions.
func (e *Entitlements) Allows(perm entitlements.Permission) bool {
	if e == nil || e.Permissions == nil {
		return false
	}
	return e.Permissions.Allows(perm)
}

func anonymousEntitlements() *Entitlements {
	return &Entitlements{}
}

// deriveEntitlements resolves a user record. Unrecognized plan tiers fall
// back to free and unrecognized roles to a plain user.
func deriveEntitlements(u *models.User, report func(FallbackEvent)) *Entitlements {
	tier, err := entitlements.ParsePlanTier(u.Plan)
	planFallback := err != nil
	if planFallback {
		fiberlog.Warnf("[Entitlements] user %s has unrecognized plan %q, falling back to %s", u.ID, u.Plan, entitlements.PlanFree)
		report(FallbackEvent{Reason: FallbackUnknownPlan, UserID: u.ID, Value: u.Plan})
		tier = entitlements.PlanFree
	}

	role := entitlements.RoleUser
	roleFallback := false
	if u.Role != "" {
		r, err := entitlements.ParseRole(u.Role)
		if err != nil {
			fiberlog.Warnf("[Entitlements] user %s has unrecognized role %q, falling back to %s", u.ID, u.Role, entitlements.RoleUser)
			report(FallbackEvent{Reason: FallbackUnknownRole, UserID: u.ID, Value: u.Role})
			roleFallback = true
		} else {
			role = r
		}
	}

	cfg := entitlements.MustPlanConfig(tier)
	features := cfg.Features
	perms := entitlements.MustRolePermissions(role)

	return &Entitlements{
		Authenticated:       true,
		Tier:                tier,
		Plan:                &cfg,
		Features:            &features,
		Role:                role,
		Permissions:         &perms,
		IsPartner:           tier == entitlements.PlanPartner,
		IsPro:               entitlements.TierAtLeast(tier, entitlements.PlanPro),
		CanAccessGrassroots: features.CanAccessGrassroots,
		PendingVerification: features.RequiresVerification && !u.IdentityVerified,
		PlanFallback:        planFallback,
		RoleFallback:        roleFallback,
	}
}
