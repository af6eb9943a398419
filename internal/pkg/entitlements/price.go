package entitlements

import (
	"fmt"
	"strings"
)

type BillingCycle string

const (
	Monthly BillingCycle = "monthly"
	Yearly  BillingCycle = "yearly"
)

// ParseBillingCycle accepts the common spellings of both cycles.
func ParseBillingCycle(s string) (BillingCycle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly", "month", "mo":
		return Monthly, nil
	case "yearly", "year", "annual", "yr":
		return Yearly, nil
	default:
		return "", fmt.Errorf("unknown billing cycle %q", s)
	}
}

// FormatPrice renders a plan price for display, e.g. "$2.99/mo".
func FormatPrice(amount float64, cycle BillingCycle) string {
	if amount == 0 {
		return "Free"
	}
	suffix := "/mo"
	if cycle == Yearly {
		suffix = "/yr"
	}
	return fmt.Sprintf("$%.2f%s", amount, suffix)
}

// Price returns the plan price for the cycle.
func (c PlanConfig) Price(cycle BillingCycle) float64 {
	if cycle == Yearly {
		return c.YearlyPrice
	}
	return c.MonthlyPrice
}

// BillingRef returns the opaque provider reference for the cycle.
func (c PlanConfig) BillingRef(cycle BillingCycle) string {
	if cycle == Yearly {
		return c.YearlyBillingRef
	}
	return c.MonthlyBillingRef
}
