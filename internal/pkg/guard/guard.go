// Package guard decides whether a session may enter a protected region.
// Guards hold no state: every call re-reads the session context, so plan
// changes apply on the next evaluation.
package guard

import (
	"strings"

	"github.com/ManuelReschke/Pitchside/internal/pkg/entitlements"
	"github.com/ManuelReschke/Pitchside/internal/pkg/usercontext"
)

type Guard interface {
	Admits(uc *usercontext.Context) bool
	// Name identifies the guard in logs and counters.
	Name() string
}

type authenticatedGuard struct{}

// Authenticated admits any logged-in session.
func Authenticated() Guard {
	return authenticatedGuard{}
}

func (authenticatedGuard) Admits(uc *usercontext.Context) bool {
	return uc != nil && uc.IsAuthenticated()
}

func (authenticatedGuard) Name() string {
	return "authenticated"
}

type featureGuard struct {
	key entitlements.FeatureKey
}

// Feature admits sessions whose plan grants key.
func Feature(key entitlements.FeatureKey) Guard {
	return featureGuard{key: key}
}

func (g featureGuard) Admits(uc *usercontext.Context) bool {
	return uc != nil && uc.HasFeature(g.key)
}

func (g featureGuard) Name() string {
	return "feature:" + string(g.key)
}

type planGuard struct {
	allowed []entitlements.PlanTier
}

// Plans admits authenticated sessions whose effective tier is listed.
func Plans(tiers ...entitlements.PlanTier) Guard {
	allowed := make([]entitlements.PlanTier, len(tiers))
	copy(allowed, tiers)
	return planGuard{allowed: allowed}
}

func (g planGuard) Admits(uc *usercontext.Context) bool {
	if uc == nil {
		return false
	}
	ent := uc.Entitlements()
	if !ent.Authenticated {
		return false
	}
	for _, t := range g.allowed {
		if t == ent.Tier {
			return true
		}
	}
	return false
}

func (g planGuard) Name() string {
	names := make([]string, len(g.allowed))
	for i, t := range g.allowed {
		names[i] = string(t)
	}
	return "plans:" + strings.Join(names, ",")
}

type permissionGuard struct {
	perm entitlements.Permission
}

// Permission admits sessions whose role grants perm.
func Permission(perm entitlements.Permission) Guard {
	return permissionGuard{perm: perm}
}

func (g permissionGuard) Admits(uc *usercontext.Context) bool {
	return uc != nil && uc.Allows(g.perm)
}

func (g permissionGuard) Name() string {
	return "permission:" + string(g.perm)
}

// Select returns admitted when g admits the session, fallback otherwise.
// Pass the zero value as fallback to yield nothing.
func Select[T any](g Guard, uc *usercontext.Context, admitted, fallback T) T {
	if g.Admits(uc) {
		return admitted
	}
	return fallback
}

// Render is Select with a lazily built admitted value.
func Render[T any](g Guard, uc *usercontext.Context, admitted func() T, fallback T) T {
	if g.Admits(uc) {
		return admitted()
	}
	return fallback
}
