package entitlements

import (
	"fmt"
	"strings"
)

type PlanTier string

const (
	PlanFree    PlanTier = "free"
	PlanPro     PlanTier = "pro"
	PlanPartner PlanTier = "partner"
)

// PlanConfig is the catalog entry of a plan tier. Billing refs are opaque
// identifiers owned by the payment provider and are passed through untouched.
type PlanConfig struct {
	Tier              PlanTier     `json:"tier"`
	Name              string       `json:"name"`
	Description       string       `json:"description"`
	MonthlyPrice      float64      `json:"monthly_price"`
	YearlyPrice       float64      `json:"yearly_price"`
	MonthlyBillingRef string       `json:"monthly_billing_ref"`
	YearlyBillingRef  string       `json:"yearly_billing_ref"`
	Badge             string       `json:"badge,omitempty"`
	Features          PlanFeatures `json:"features"`
}

// tierOrder lists every tier from lowest to highest privilege.
var tierOrder = []PlanTier{PlanFree, PlanPro, PlanPartner}

var planCatalog = map[PlanTier]PlanConfig{
	PlanFree: {
		Tier:        PlanFree,
		Name:        "Free",
		Description: "Browse leagues, teams, players and matches worldwide",
	},
	PlanPro: {
		Tier:              PlanPro,
		Name:              "Pro",
		Description:       "Ad-free browsing with the full match archive",
		MonthlyPrice:      2.99,
		YearlyPrice:       29.99,
		MonthlyBillingRef: "price_pro_monthly",
		YearlyBillingRef:  "price_pro_yearly",
		Badge:             "Most popular",
	},
	PlanPartner: {
		Tier:              PlanPartner,
		Name:              "Partner",
		Description:       "Run an organization, manage teams and competitions, access grassroots data",
		MonthlyPrice:      9.99,
		YearlyPrice:       99,
		MonthlyBillingRef: "price_partner_monthly",
		YearlyBillingRef:  "price_partner_yearly",
		Badge:             "Partner",
		Features: PlanFeatures{
			CanCreateOrganization: true,
			CanManageTeams:        true,
			CanManageCompetitions: true,
			CanAccessAnalytics:    true,
			CanAccessGrassroots:   true,
			MaxOrganizations:      1,
			MaxTeamsPerOrg:        50,
			RequiresVerification:  true,
		},
	},
}

// Tiers returns all plan tiers ordered by rank.
func Tiers() []PlanTier {
	out := make([]PlanTier, len(tierOrder))
	copy(out, tierOrder)
	return out
}

// Valid reports whether the tier has a catalog entry.
func (t PlanTier) Valid() bool {
	_, ok := planCatalog[t]
	return ok
}

// ParsePlanTier validates untrusted input.
func ParsePlanTier(s string) (PlanTier, error) {
	t := PlanTier(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlan, s)
	}
	return t, nil
}

// NormalizeTier maps anything outside the catalog to the free tier.
func NormalizeTier(s string) PlanTier {
	t, err := ParsePlanTier(s)
	if err != nil {
		return PlanFree
	}
	return t
}

// TierRank orders tiers by privilege; unknown tiers rank with free.
func TierRank(t PlanTier) int {
	switch t {
	case PlanPartner:
		return 2
	case PlanPro:
		return 1
	default:
		return 0
	}
}

// TierAtLeast reports whether t is min or a superset of it.
func TierAtLeast(t, min PlanTier) bool {
	return t.Valid() && TierRank(t) >= TierRank(min)
}

// PlanConfigFor resolves a tier to its configuration.
func PlanConfigFor(t PlanTier) (PlanConfig, error) {
	cfg, ok := planCatalog[t]
	if !ok {
		return PlanConfig{}, fmt.Errorf("%w: %q", ErrUnknownPlan, string(t))
	}
	return cfg, nil
}

// MustPlanConfig is PlanConfigFor for tiers known at compile time. A missing
// catalog entry is a programming error and panics.
func MustPlanConfig(t PlanTier) PlanConfig {
	cfg, err := PlanConfigFor(t)
	if err != nil {
		panic(err)
	}
	return cfg
}

// PlanFeaturesFor returns the features embedded in the tier's configuration.
func PlanFeaturesFor(t PlanTier) (PlanFeatures, error) {
	cfg, err := PlanConfigFor(t)
	if err != nil {
		return PlanFeatures{}, err
	}
	return cfg.Features, nil
}

// ResolveFeatures is the collaborator-facing name of PlanFeaturesFor.
func ResolveFeatures(t PlanTier) (PlanFeatures, error) {
	return PlanFeaturesFor(t)
}

// Plans returns the whole catalog ordered by rank.
func Plans() []PlanConfig {
	out := make([]PlanConfig, 0, len(tierOrder))
	for _, t := range tierOrder {
		out = append(out, planCatalog[t])
	}
	return out
}
