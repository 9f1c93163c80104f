package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/meetgate/meetgate/internal/core/ports"
)

// Auth validates the JWT and injects account id, username, and role into the
// request context. The effective role comes from the resolver, not the token's
// role claim: a demotion or account deletion is visible on the next request,
// not at token expiry. A nil resolver falls back to the claim.
func Auth(jwtSecret string, roles ports.RoleResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			accountID, _ := claims["sub"].(string)
			role, _ := claims["role"].(string)
			if roles != nil {
				current, err := roles.CurrentRole(c.Request().Context(), accountID)
				if err != nil {
					return echo.NewHTTPError(http.StatusInternalServerError, "role resolution failed")
				}
				role = string(current)
			}

			c.Set("account_id", accountID)
			c.Set("username", claims["username"])
			c.Set("role", role)

			return next(c)
		}
	}
}
