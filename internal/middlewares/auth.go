package middlewares

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecinar/unified-inbox/internal/roles"
	"github.com/ecinar/unified-inbox/pkg/response"
)

const (
	// APIKeyHeader is set by the dashboard's API gateway.
	APIKeyHeader = "x-inbox-auth-key"
	// CronSecretHeader authenticates the external scheduler trigger.
	CronSecretHeader = "X-Cron-Secret"
	// RoleHeader carries the caller's role, resolved by the upstream
	// auth provider.
	RoleHeader = "x-user-role"
	// UserIDHeader carries the authenticated user's id.
	UserIDHeader = "x-user-id"

	roleContextKey   = "userRole"
	userIDContextKey = "userId"
)

// secureCompare compares two strings in a way that is safer against timing attacks.
func secureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func APIKeyAuth(apiKey string) echo.MiddlewareFunc {
	// If the API key is not configured, treat this as a server-side misconfiguration.
	if apiKey == "" {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return response.InternalServerError(
					c,
					fmt.Errorf("API key is not configured for this endpoint group"),
				)
			}
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.Request().Header.Get(APIKeyHeader)
			if token == "" || !secureCompare(token, apiKey) {
				return response.Unauthorized(c)
			}

			return next(c)
		}
	}
}

// CronSecretAuth guards the dispatch trigger. A mismatch is 403, per the
// external scheduler's contract.
func CronSecretAuth(secret string) echo.MiddlewareFunc {
	if secret == "" {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return response.InternalServerError(
					c,
					fmt.Errorf("cron secret is not configured"),
				)
			}
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.Request().Header.Get(CronSecretHeader)
			if token == "" || !secureCompare(token, secret) {
				return c.JSON(http.StatusForbidden, map[string]any{"ok": false})
			}

			return next(c)
		}
	}
}

// ResolveRole parses the caller's role and user id from headers into the
// request context. Unknown or absent roles degrade to VIEWER.
func ResolveRole() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(roleContextKey, roles.Parse(c.Request().Header.Get(RoleHeader)))
			c.Set(userIDContextKey, c.Request().Header.Get(UserIDHeader))
			return next(c)
		}
	}
}

// RoleFromContext returns the caller's role, defaulting to VIEWER.
func RoleFromContext(c echo.Context) roles.Role {
	if role, ok := c.Get(roleContextKey).(roles.Role); ok {
		return role
	}
	return roles.RoleViewer
}

// UserIDFromContext returns the authenticated user's id, or "".
func UserIDFromContext(c echo.Context) string {
	if id, ok := c.Get(userIDContextKey).(string); ok {
		return id
	}
	return ""
}

// RequirePermission rejects callers whose role lacks a capability.
func RequirePermission(permission roles.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !roles.HasPermission(RoleFromContext(c), permission) {
				return response.Forbidden(c)
			}
			return next(c)
		}
	}
}
