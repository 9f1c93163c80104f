package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/meetgate/meetgate/internal/api/metrics"
	"github.com/meetgate/meetgate/internal/core/domain"
)

// RBAC enforces role-based access control against an explicit role set.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := ctxRole(c)
			if _, ok := allowed[role]; !ok {
				metrics.AuthDeniedTotal.WithLabelValues("rbac").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// AdminLike admits ENV_ADMIN and WEB_ADMIN only.
func AdminLike() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !ctxRole(c).IsAdminLike() {
				metrics.AuthDeniedTotal.WithLabelValues("admin_like").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// Registered admits ENV_ADMIN, WEB_ADMIN, and USER; GUEST is denied.
func Registered() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !ctxRole(c).IsRegistered() {
				metrics.AuthDeniedTotal.WithLabelValues("registered").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// ctxRole reads the role claim injected by Auth. The result is total: a
// missing or unknown role resolves to GUEST.
func ctxRole(c echo.Context) domain.Role {
	raw, _ := c.Get("role").(string)
	role := domain.Role(raw)
	if !role.IsValid() {
		return domain.RoleGuest
	}
	return role
}
