// Package policy holds the single ordered table of public path rules: every
// path listed here bypasses the authentication gate, everything else requires
// a valid bearer token. The gate is the only consumer, so the bypass decision
// has exactly one source of truth.
package policy

import "regexp"

// MatchKind selects how a rule's pattern is applied to the request path.
type MatchKind int

const (
	MatchExact MatchKind = iota
	MatchPrefix
	MatchRegex
)

// Rule is one public-path predicate. An empty Method matches every method.
type Rule struct {
	Method  string
	Kind    MatchKind
	Pattern string

	re *regexp.Regexp
}

// RuleSet is an ordered list of rules evaluated top to bottom, first match
// wins. It is read-only after construction and safe for concurrent use.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet compiles the given rules. Regex patterns that fail to compile
// panic, which is intentional: the table is static and build-time wrong.
func NewRuleSet(rules []Rule) *RuleSet {
	compiled := make([]Rule, len(rules))
	for i, r := range rules {
		if r.Kind == MatchRegex {
			r.re = regexp.MustCompile(r.Pattern)
		}
		compiled[i] = r
	}
	return &RuleSet{rules: compiled}
}

// Public reports whether the request bypasses the authentication gate.
func (rs *RuleSet) Public(method, path string) bool {
	for _, r := range rs.rules {
		if r.Method != "" && r.Method != method {
			continue
		}
		switch r.Kind {
		case MatchExact:
			if path == r.Pattern {
				return true
			}
		case MatchPrefix:
			if len(path) >= len(r.Pattern) && path[:len(r.Pattern)] == r.Pattern {
				return true
			}
		case MatchRegex:
			if r.re.MatchString(path) {
				return true
			}
		}
	}
	return false
}

// DefaultRules is the production bypass table.
func DefaultRules() *RuleSet {
	return NewRuleSet([]Rule{
		// Auth endpoints: anyone can register, log in, or reset a password.
		{Kind: MatchExact, Pattern: "/api/auth/register"},
		{Kind: MatchExact, Pattern: "/api/auth/login"},
		{Kind: MatchExact, Pattern: "/api/auth/forgot-password"},
		{Kind: MatchExact, Pattern: "/api/auth/verify-otp"},
		{Kind: MatchExact, Pattern: "/api/auth/reset-password"},

		// Payment provider callback: authenticated by shared secret, not JWT.
		{Method: "POST", Kind: MatchExact, Pattern: "/api/payments/sepay/webhook"},

		// Public browsing.
		{Method: "GET", Kind: MatchExact, Pattern: "/api/restaurants"},
		{Method: "GET", Kind: MatchExact, Pattern: "/api/restaurants/nearby"},
		{Method: "GET", Kind: MatchRegex, Pattern: `^/api/restaurants/[^/]+$`},
		{Kind: MatchRegex, Pattern: `^/api/restaurants/[^/]+/menu/public$`},
		{Method: "GET", Kind: MatchRegex, Pattern: `^/api/restaurants/[^/]+/reviews$`},

		// Order status lookup by reference, for receipt links.
		{Kind: MatchRegex, Pattern: `^/api/orders/[^/]+/status$`},

		// Operational surface.
		{Kind: MatchExact, Pattern: "/health"},
		{Kind: MatchExact, Pattern: "/health/ready"},
		{Kind: MatchExact, Pattern: "/metrics"},
		{Kind: MatchPrefix, Pattern: "/swagger/"},
	})
}
