package entitlements

import (
	"fmt"
	"strings"
)

type FeatureKey string

const (
	FeatureCanCreateOrganization FeatureKey = "canCreateOrganization"
	FeatureCanManageTeams        FeatureKey = "canManageTeams"
	FeatureCanManageCompetitions FeatureKey = "canManageCompetitions"
	FeatureCanAccessAnalytics    FeatureKey = "canAccessAnalytics"
	FeatureCanAccessGrassroots   FeatureKey = "canAccessGrassroots"
	FeatureMaxOrganizations      FeatureKey = "maxOrganizations"
	FeatureMaxTeamsPerOrg        FeatureKey = "maxTeamsPerOrg"
	FeatureRequiresVerification  FeatureKey = "requiresVerification"
)

var featureKeys = []FeatureKey{
	FeatureCanCreateOrganization,
	FeatureCanManageTeams,
	FeatureCanManageCompetitions,
	FeatureCanAccessAnalytics,
	FeatureCanAccessGrassroots,
	FeatureMaxOrganizations,
	FeatureMaxTeamsPerOrg,
	FeatureRequiresVerification,
}

// FeatureKeys returns every known feature key in declaration order.
func FeatureKeys() []FeatureKey {
	out := make([]FeatureKey, len(featureKeys))
	copy(out, featureKeys)
	return out
}

// ParseFeatureKey matches keys case-insensitively.
func ParseFeatureKey(s string) (FeatureKey, error) {
	in := strings.TrimSpace(s)
	for _, k := range featureKeys {
		if strings.EqualFold(string(k), in) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFeature, s)
}

type FeatureKind uint8

const (
	BooleanFeature FeatureKind = iota + 1
	LimitFeature
)

func (k FeatureKind) String() string {
	switch k {
	case BooleanFeature:
		return "boolean"
	case LimitFeature:
		return "limit"
	default:
		return "unknown"
	}
}

// FeatureValue is either a boolean capability or a numeric limit.
type FeatureValue struct {
	kind  FeatureKind
	flag  bool
	limit int
}

func Bool(b bool) FeatureValue { return FeatureValue{kind: BooleanFeature, flag: b} }

func Limit(n int) FeatureValue { return FeatureValue{kind: LimitFeature, limit: n} }

func (v FeatureValue) Kind() FeatureKind { return v.kind }

// Enabled applies the truthiness rule: booleans as stored, limits when > 0.
func (v FeatureValue) Enabled() bool {
	switch v.kind {
	case BooleanFeature:
		return v.flag
	case LimitFeature:
		return v.limit > 0
	default:
		return false
	}
}

// Limit returns the numeric limit; ok is false for boolean features.
func (v FeatureValue) Limit() (int, bool) {
	if v.kind != LimitFeature {
		return 0, false
	}
	return v.limit, true
}

// Raw returns the value as bool or int, for JSON responses.
func (v FeatureValue) Raw() any {
	if v.kind == LimitFeature {
		return v.limit
	}
	return v.flag
}

// PlanFeatures is the fixed-shape capability record of a plan.
// Limits are never negative; zero means the capability is absent.
type PlanFeatures struct {
	CanCreateOrganization bool `json:"canCreateOrganization"`
	CanManageTeams        bool `json:"canManageTeams"`
	CanManageCompetitions bool `json:"canManageCompetitions"`
	CanAccessAnalytics    bool `json:"canAccessAnalytics"`
	CanAccessGrassroots   bool `json:"canAccessGrassroots"`
	MaxOrganizations      int  `json:"maxOrganizations"`
	MaxTeamsPerOrg        int  `json:"maxTeamsPerOrg"`
	RequiresVerification  bool `json:"requiresVerification"`
}

// Value looks up a single feature of the record.
func (f PlanFeatures) Value(key FeatureKey) (FeatureValue, error) {
	switch key {
	case FeatureCanCreateOrganization:
		return Bool(f.CanCreateOrganization), nil
	case FeatureCanManageTeams:
		return Bool(f.CanManageTeams), nil
	case FeatureCanManageCompetitions:
		return Bool(f.CanManageCompetitions), nil
	case FeatureCanAccessAnalytics:
		return Bool(f.CanAccessAnalytics), nil
	case FeatureCanAccessGrassroots:
		return Bool(f.CanAccessGrassroots), nil
	case FeatureMaxOrganizations:
		return Limit(f.MaxOrganizations), nil
	case FeatureMaxTeamsPerOrg:
		return Limit(f.MaxTeamsPerOrg), nil
	case FeatureRequiresVerification:
		return Bool(f.RequiresVerification), nil
	default:
		return FeatureValue{}, fmt.Errorf("%w: %q", ErrUnknownFeature, string(key))
	}
}

// Has is Value(key).Enabled(); unknown keys are never enabled.
func (f PlanFeatures) Has(key FeatureKey) bool {
	v, err := f.Value(key)
	if err != nil {
		return false
	}
	return v.Enabled()
}
