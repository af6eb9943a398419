package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/Pitchside/internal/pkg/entitlements"
	"github.com/ManuelReschke/Pitchside/internal/pkg/middleware"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewUserContextMiddleware(fibersession.New()))

	app.Get("/plans", HandleListPlans)
	app.Get("/plans/:tier", HandleGetPlan)
	app.Get("/plans/:tier/features/:feature", HandleGetPlanFeature)
	app.Get("/roles/:role", HandleGetRole)
	app.Post("/session", HandleSetSessionUser)
	app.Delete("/session", HandleClearSessionUser)
	app.Get("/me/entitlements", HandleGetEntitlements)
	app.Get("/me/capacity", middleware.RequireAuth(), HandleGetCapacity)
	app.Get("/partner/dashboard", middleware.RequirePlan([]entitlements.PlanTier{entitlements.PlanPartner}), HandlePartnerDashboard)
	app.Get("/admin/stats", middleware.RequirePermission(entitlements.PermissionManagePlatform), HandleEntitlementStats)
	app.Get("/pricing", HandlePricing)
	app.Get("/partner", HandlePartnerHome)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, cookie *http.Cookie) (*http.Response, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	out := map[string]any{}
	if resp.StatusCode != fiber.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	return resp, out
}

func signIn(t *testing.T, app *fiber.App, user map[string]any) *http.Cookie {
	t.Helper()
	resp, _ := doJSON(t, app, fiber.MethodPost, "/session", user, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			return c
		}
	}
	t.Fatalf("no session cookie after sign in")
	return nil
}

func TestHandleListPlans(t *testing.T) {
	app := newTestApp()

	resp, body := doJSON(t, app, fiber.MethodGet, "/plans", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "monthly", body["cycle"])

	plans := body["plans"].([]any)
	require.Len(t, plans, 3)
	tiers := make([]string, 0, len(plans))
	for _, p := range plans {
		tiers = append(tiers, p.(map[string]any)["tier"].(string))
	}
	assert.Equal(t, []string{"free", "pro", "partner"}, tiers)

	free := plans[0].(map[string]any)
	pro := plans[1].(map[string]any)
	assert.Equal(t, "Free", free["price"])
	assert.Equal(t, "$2.99/mo", pro["price"])
	assert.Equal(t, "Most popular", pro["badge"])
}

func TestHandleListPlansYearly(t *testing.T) {
	app := newTestApp()

	resp, body := doJSON(t, app, fiber.MethodGet, "/plans?cycle=yearly", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	partner := body["plans"].([]any)[2].(map[string]any)
	assert.Equal(t, "$99.00/yr", partner["price"])

	resp, body = doJSON(t, app, fiber.MethodGet, "/plans?cycle=weekly", nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_cycle", body["error"])
}

func TestHandleGetPlan(t *testing.T) {
	app := newTestApp()

	resp, body := doJSON(t, app, fiber.MethodGet, "/plans/Partner", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "partner", body["tier"])
	features := body["features"].(map[string]any)
	assert.Equal(t, float64(50), features["maxTeamsPerOrg"])
	assert.Equal(t, true, features["requiresVerification"])

	resp, body = doJSON(t, app, fiber.MethodGet, "/plans/enterprise", nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_plan", body["error"])
}

func TestHandleGetPlanFeature(t *testing.T) {
	app := newTestApp()

	cases := []struct {
		path    string
		status  int
		enabled bool
		kind    string
		errCode string
	}{
		{"/plans/partner/features/maxTeamsPerOrg", fiber.StatusOK, true, "limit", ""},
		{"/plans/free/features/maxTeamsPerOrg", fiber.StatusOK, false, "limit", ""},
		{"/plans/partner/features/canAccessGrassroots", fiber.StatusOK, true, "boolean", ""},
		{"/plans/pro/features/canAccessGrassroots", fiber.StatusOK, false, "boolean", ""},
		{"/plans/gold/features/canAccessGrassroots", fiber.StatusBadRequest, false, "", "invalid_plan"},
		{"/plans/free/features/canFly", fiber.StatusBadRequest, false, "", "invalid_feature"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp, body := doJSON(t, app, fiber.MethodGet, tc.path, nil, nil)
			require.Equal(t, tc.status, resp.StatusCode)
			if tc.errCode != "" {
				assert.Equal(t, tc.errCode, body["error"])
				return
			}
			assert.Equal(t, tc.enabled, body["enabled"])
			assert.Equal(t, tc.kind, body["kind"])
		})
	}
}

func TestHandleGetRole(t *testing.T) {
	app := newTestApp()

	resp, body := doJSON(t, app, fiber.MethodGet, "/roles/org_viewer", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	perms := body["permissions"].(map[string]any)
	assert.Equal(t, true, perms["view_organization_data"])
	assert.Equal(t, false, perms["edit_organization_data"])

	resp, body = doJSON(t, app, fiber.MethodGet, "/roles/superuser", nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_role", body["error"])
}

func TestSessionLifecycle(t *testing.T) {
	app := newTestApp()

	_, body := doJSON(t, app, fiber.MethodGet, "/me/entitlements", nil, nil)
	ent := body["entitlements"].(map[string]any)
	assert.Equal(t, false, ent["authenticated"])
	assert.Nil(t, body["user"])

	cookie := signIn(t, app, map[string]any{"id": "u-7", "plan": "partner", "role": "org_owner"})

	resp, body := doJSON(t, app, fiber.MethodGet, "/me/entitlements", nil, cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	ent = body["entitlements"].(map[string]any)
	assert.Equal(t, true, ent["authenticated"])
	assert.Equal(t, "partner", ent["tier"])
	assert.Equal(t, true, ent["is_partner"])
	assert.Equal(t, true, ent["is_pro"])
	assert.Equal(t, true, ent["pending_verification"])

	resp, _ = doJSON(t, app, fiber.MethodDelete, "/session", nil, cookie)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	_, body = doJSON(t, app, fiber.MethodGet, "/me/entitlements", nil, cookie)
	ent = body["entitlements"].(map[string]any)
	assert.Equal(t, false, ent["authenticated"])
	assert.Equal(t, false, ent["can_access_grassroots"])
}

func TestHandleSetSessionUserRejectsBadInput(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(fiber.MethodPost, "/session", bytes.NewReader([]byte("{not json")))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body := doJSON(t, app, fiber.MethodPost, "/session", map[string]any{"plan": "pro"}, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "invalid_user", body["error"])
}

func TestHandleSetSessionUserUnknownPlanFallsBack(t *testing.T) {
	app := newTestApp()

	resp, body := doJSON(t, app, fiber.MethodPost, "/session", map[string]any{"id": "u-8", "plan": "enterprise"}, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	ent := body["entitlements"].(map[string]any)
	assert.Equal(t, "free", ent["tier"])
	assert.Equal(t, true, ent["plan_fallback"])
}

func TestHandleGetCapacity(t *testing.T) {
	app := newTestApp()

	resp, _ := doJSON(t, app, fiber.MethodGet, "/me/capacity?feature=maxTeamsPerOrg", nil, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	partner := signIn(t, app, map[string]any{"id": "u-1", "plan": "partner"})
	resp, body := doJSON(t, app, fiber.MethodGet, "/me/capacity?feature=maxTeamsPerOrg&current=10", nil, partner)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(50), body["limit"])
	assert.Equal(t, float64(40), body["remaining"])
	assert.Equal(t, true, body["allowed"])

	resp, body = doJSON(t, app, fiber.MethodGet, "/me/capacity?feature=maxOrganizations&current=1", nil, partner)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["remaining"])
	assert.Equal(t, false, body["allowed"])

	resp, body = doJSON(t, app, fiber.MethodGet, "/me/capacity?feature=canManageTeams", nil, partner)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "not_a_limit", body["error"])

	resp, body = doJSON(t, app, fiber.MethodGet, "/me/capacity?feature=maxTeamsPerOrg&current=-2", nil, partner)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_current", body["error"])

	free := signIn(t, app, map[string]any{"id": "u-2", "plan": "free"})
	resp, body = doJSON(t, app, fiber.MethodGet, "/me/capacity?feature=maxOrganizations", nil, free)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["limit"])
	assert.Equal(t, false, body["allowed"])
}

func TestHandlePartnerDashboard(t *testing.T) {
	app := newTestApp()

	free := signIn(t, app, map[string]any{"id": "u-1", "plan": "free"})
	resp, _ := doJSON(t, app, fiber.MethodGet, "/partner/dashboard", nil, free)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	partner := signIn(t, app, map[string]any{"id": "u-2", "plan": "partner", "role": "org_editor", "identity_verified": true})
	resp, body := doJSON(t, app, fiber.MethodGet, "/partner/dashboard", nil, partner)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["max_organizations"])
	assert.Equal(t, false, body["pending_verification"])
	assert.Equal(t, true, body["can_edit_organization"])
	assert.Equal(t, false, body["can_manage_organizations"])
}

func TestHandleEntitlementStats(t *testing.T) {
	app := newTestApp()

	user := signIn(t, app, map[string]any{"id": "u-1", "plan": "partner"})
	resp, _ := doJSON(t, app, fiber.MethodGet, "/admin/stats", nil, user)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	admin := signIn(t, app, map[string]any{"id": "u-2", "plan": "free", "role": "platform_admin"})
	resp, body := doJSON(t, app, fiber.MethodGet, "/admin/stats", nil, admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["enabled"])
}

func TestHandlePricing(t *testing.T) {
	app := newTestApp()

	resp, body := doJSON(t, app, fiber.MethodGet, "/pricing", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Become a partner", body["cta"])
	for _, p := range body["plans"].([]any) {
		assert.Equal(t, false, p.(map[string]any)["current"])
	}

	partner := signIn(t, app, map[string]any{"id": "u-1", "plan": "partner"})
	_, body = doJSON(t, app, fiber.MethodGet, "/pricing", nil, partner)
	assert.Equal(t, "Go to dashboard", body["cta"])
	plans := body["plans"].([]any)
	assert.Equal(t, true, plans[2].(map[string]any)["current"])
}

func TestHandlePartnerHomeBanner(t *testing.T) {
	app := newTestApp()

	unverified := signIn(t, app, map[string]any{"id": "u-1", "plan": "partner"})
	_, body := doJSON(t, app, fiber.MethodGet, "/partner", nil, unverified)
	assert.Equal(t, "Your organization is awaiting verification", body["banner"])

	verified := signIn(t, app, map[string]any{"id": "u-2", "plan": "partner", "identity_verified": true})
	_, body = doJSON(t, app, fiber.MethodGet, "/partner", nil, verified)
	assert.Equal(t, "", body["banner"])
}

func TestClientIP(t *testing.T) {
	app := fiber.New()
	app.Get("/ip", func(c *fiber.Ctx) error { return c.SendString(clientIP(c)) })

	cases := []struct {
		name   string
		header string
		value  string
		want   string
	}{
		{"cloudflare", "CF-Connecting-IP", "203.0.113.7", "203.0.113.7"},
		{"forwarded", fiber.HeaderXForwardedFor, "198.51.100.1, 10.0.0.1", "198.51.100.1"},
		{"direct", "", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/ip", nil)
			if tc.header != "" {
				req.Header.Set(tc.header, tc.value)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			if tc.want == "" {
				assert.NotEmpty(t, string(raw))
				return
			}
			assert.Equal(t, tc.want, string(raw))
		})
	}
}
