// Package entitlements maps plan tiers and roles to capabilities and limits.
// Catalogs are static and never mutated after package initialization.
package entitlements

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownPlan    = errors.New("unknown plan tier")
	ErrUnknownRole    = errors.New("unknown role")
	ErrUnknownFeature = errors.New("unknown feature")
	ErrNotALimit      = errors.New("feature is not a numeric limit")
)

// HasFeature reports whether the tier grants the feature. Numeric limits
// count as granted when greater than zero. The tier and key must come from
// trusted code; use LookupFeature for request input.
func HasFeature(tier PlanTier, key FeatureKey) bool {
	ok, err := LookupFeature(tier, key)
	if err != nil {
		panic(err)
	}
	return ok
}

// LookupFeature is HasFeature with errors instead of panics.
func LookupFeature(tier PlanTier, key FeatureKey) (bool, error) {
	features, err := PlanFeaturesFor(tier)
	if err != nil {
		return false, err
	}
	v, err := features.Value(key)
	if err != nil {
		return false, err
	}
	return v.Enabled(), nil
}

// CanAccessRestrictedTier reports access to the grassroots data tier.
func CanAccessRestrictedTier(tier PlanTier) bool {
	return HasFeature(tier, FeatureCanAccessGrassroots)
}

// LimitFor returns the numeric limit of a limit feature.
func LimitFor(tier PlanTier, key FeatureKey) (int, error) {
	features, err := PlanFeaturesFor(tier)
	if err != nil {
		return 0, err
	}
	v, err := features.Value(key)
	if err != nil {
		return 0, err
	}
	n, ok := v.Limit()
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotALimit, string(key))
	}
	return n, nil
}

// WithinLimit reports whether one more item fits under the limit given the
// current count. Unknown tiers and non-limit keys never fit.
func WithinLimit(tier PlanTier, key FeatureKey, current int) bool {
	n, err := LimitFor(tier, key)
	if err != nil {
		return false
	}
	if current < 0 {
		current = 0
	}
	return current < n
}
