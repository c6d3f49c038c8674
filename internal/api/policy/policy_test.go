package policy

import (
	"net/http"
	"testing"
)

func TestRuleSet_MatchKinds(t *testing.T) {
	rs := NewRuleSet([]Rule{
		{Kind: MatchExact, Pattern: "/ping"},
		{Kind: MatchPrefix, Pattern: "/docs/"},
		{Kind: MatchRegex, Pattern: `^/items/[^/]+/view$`},
		{Method: http.MethodGet, Kind: MatchExact, Pattern: "/list"},
	})

	cases := []struct {
		method string
		path   string
		want   bool
	}{
		{http.MethodGet, "/ping", true},
		{http.MethodPost, "/ping", true}, // methodless rule matches any method
		{http.MethodGet, "/ping/extra", false},
		{http.MethodGet, "/docs/index.html", true},
		{http.MethodGet, "/docs", false},
		{http.MethodGet, "/items/42/view", true},
		{http.MethodGet, "/items/42/edit", false},
		{http.MethodGet, "/items/42/nested/view", false},
		{http.MethodGet, "/list", true},
		{http.MethodPost, "/list", false}, // method-scoped rule
		{http.MethodGet, "/other", false},
	}

	for _, tc := range cases {
		if got := rs.Public(tc.method, tc.path); got != tc.want {
			t.Errorf("Public(%s %s) = %v, want %v", tc.method, tc.path, got, tc.want)
		}
	}
}

func TestDefaultRules_PublicPaths(t *testing.T) {
	rs := DefaultRules()

	public := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/auth/login"},
		{http.MethodPost, "/api/auth/register"},
		{http.MethodPost, "/api/auth/forgot-password"},
		{http.MethodPost, "/api/payments/sepay/webhook"},
		{http.MethodGet, "/api/restaurants"},
		{http.MethodGet, "/api/restaurants/nearby"},
		{http.MethodGet, "/api/restaurants/3"},
		{http.MethodGet, "/api/restaurants/3/menu/public"},
		{http.MethodPost, "/api/restaurants/3/menu/public"}, // always bypassed
		{http.MethodGet, "/api/orders/PM-00000005/status"},
		{http.MethodGet, "/health"},
		{http.MethodGet, "/metrics"},
		{http.MethodGet, "/swagger/index.html"},
	}
	for _, tc := range public {
		if !rs.Public(tc.method, tc.path) {
			t.Errorf("expected %s %s to be public", tc.method, tc.path)
		}
	}

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/orders/5"},
		{http.MethodGet, "/api/orders"},
		{http.MethodPost, "/api/orders"},
		{http.MethodGet, "/api/users/me"},
		{http.MethodPost, "/api/restaurants"},       // create is owner-only
		{http.MethodPut, "/api/restaurants/3"},      // update is owner-only
		{http.MethodGet, "/api/restaurants/3/menu"}, // owner view includes unavailable items
		{http.MethodGet, "/api/cart"},
		{http.MethodGet, "/api/payments/sepay/webhook"}, // wrong method
	}
	for _, tc := range protected {
		if rs.Public(tc.method, tc.path) {
			t.Errorf("expected %s %s to require authentication", tc.method, tc.path)
		}
	}
}
