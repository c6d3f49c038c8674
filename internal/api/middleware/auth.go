package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pickmeapp/pickme-api/internal/api/policy"
	"github.com/pickmeapp/pickme-api/internal/core/domain"
	"github.com/pickmeapp/pickme-api/internal/core/ports"
	"github.com/pickmeapp/pickme-api/internal/core/token"
)

// Context keys set by Authenticate and read by the phase-2 checks.
const (
	CtxUserID  = "user_id"
	CtxSubject = "subject"
	CtxRole    = "role"
)

// Authenticate is the request gate. It runs on every request and never
// rejects anything itself:
//
//   - public paths (per the policy table) are forwarded untouched
//   - a missing, malformed, invalid, or expired token forwards the request
//     with no identity installed
//   - a valid token whose subject resolves to an active account installs the
//     identity into the request context, at most once
//
// Rejection is phase 2's job: RequireAuth and RequireRoles deny requests that
// arrive at protected handlers without the identity this gate installs.
func Authenticate(codec *token.Codec, users ports.UserRepository, rules *policy.RuleSet) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if rules.Public(req.Method, req.URL.Path) {
				return next(c)
			}

			authHeader := req.Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return next(c)
			}

			claims, err := codec.Parse(parts[1])
			if err != nil {
				// Fail open here, fail closed downstream.
				return next(c)
			}

			if c.Get(CtxRole) != nil {
				return next(c)
			}

			user, err := users.FindByEmail(req.Context(), claims.Subject)
			if err != nil || !user.Active {
				return next(c)
			}

			c.Set(CtxUserID, user.ID)
			c.Set(CtxSubject, user.Email)
			c.Set(CtxRole, user.Role)

			return next(c)
		}
	}
}

// RequireAuth denies requests that reached a protected handler without an
// identity installed by the gate.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "" {
				return domain.ErrUnauthenticated
			}
			return next(c)
		}
	}
}

// RequireRoles enforces role-based access control on top of RequireAuth.
func RequireRoles(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "" {
				return domain.ErrUnauthenticated
			}
			if _, ok := allowed[role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
