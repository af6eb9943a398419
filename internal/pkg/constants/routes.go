package constants

// Web route constants
const (
	PricingRoute = "/pricing"
	PartnerRoute = "/partner"
	// Swagger UI base, the v1 document is served below it
	DocsRoute = "/docs/api/"
)
