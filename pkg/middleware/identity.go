package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"carrierpay/pkg/audit"
	"carrierpay/pkg/role"
)

const (
	CookieName  = "CPT_EMAIL"
	EmailHeader = "X-User-Email"

	ctxEmail = "email"
	ctxRole  = "role"
)

// Identity reads the caller's email from the session cookie or the
// X-User-Email header set by the fronting proxy, and resolves the role.
// Requests without an email are rejected.
func Identity(reg role.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email := strings.TrimSpace(c.Request().Header.Get(EmailHeader))
			if email == "" {
				if ck, err := c.Cookie(CookieName); err == nil {
					email = strings.TrimSpace(ck.Value)
				}
			}
			if email == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "login required"})
			}
			c.Set(ctxEmail, strings.ToLower(email))
			c.Set(ctxRole, reg.Resolve(c.Request().Context(), email))
			return next(c)
		}
	}
}

// RequireRole lets through the listed roles and Admin. Roles this service
// does not know are refused with "Unrecognized role."
func RequireRole(trail *audit.Trail, allowed ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, r := Email(c), Role(c)
			if !role.Known(r) {
				trail.Record(c.Request().Context(), email, fmt.Sprintf("Unrecognized Role: %s", r), audit.Warning)
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Unrecognized role."})
			}
			if r == role.Admin {
				return next(c)
			}
			for _, a := range allowed {
				if r == a {
					return next(c)
				}
			}
			trail.Record(c.Request().Context(), email, fmt.Sprintf("Denied %s %s as %s", c.Request().Method, c.Path(), r), audit.Warning)
			return c.JSON(http.StatusForbidden, map[string]string{"error": fmt.Sprintf("not available to role %q", r)})
		}
	}
}

func Email(c echo.Context) string {
	v, _ := c.Get(ctxEmail).(string)
	return v
}

func Role(c echo.Context) string {
	v, _ := c.Get(ctxRole).(string)
	return v
}
