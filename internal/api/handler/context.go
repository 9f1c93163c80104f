package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/meetgate/meetgate/internal/core/domain"
)

// ctxActor extracts the auth claims injected by the Auth middleware. The
// account id must be present (its absence means the middleware did not run);
// the role is total — missing or unknown roles resolve to GUEST, so
// downstream code never needs defensive existence checks.
func ctxActor(c echo.Context) (accountID, username string, role domain.Role, err error) {
	accountID, _ = c.Get("account_id").(string)
	if accountID == "" {
		return "", "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	username, _ = c.Get("username").(string)

	raw, _ := c.Get("role").(string)
	role = domain.Role(raw)
	if !role.IsValid() {
		role = domain.RoleGuest
	}
	return accountID, username, role, nil
}
