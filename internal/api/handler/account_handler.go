package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/meetgate/meetgate/internal/api/metrics"
	"github.com/meetgate/meetgate/internal/core/domain"
	"github.com/meetgate/meetgate/internal/core/ports"
)

type AccountHandler struct {
	accountService ports.AccountService
}

func NewAccountHandler(accountService ports.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type availableRolesResponse struct {
	Roles []domain.Role `json:"roles"`
}

// List handles GET /v1/accounts with pagination and role statistics.
//
// @Summary      List accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int     false  "Page number"
// @Param        limit  query     int     false  "Page size"
// @Param        role   query     string  false  "Filter by role"
// @Success      200    {object}  ports.AccountPage
// @Failure      403    {object}  errorResponse
// @Router       /v1/accounts [get]
func (h *AccountHandler) List(c echo.Context) error {
	_, _, role, err := ctxActor(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	filter := ports.ListAccountsFilter{
		Role:  domain.Role(c.QueryParam("role")),
		Page:  page,
		Limit: limit,
	}

	result, err := h.accountService.List(c.Request().Context(), role, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// ChangeRole handles PUT /v1/accounts/:id/role.
//
// @Summary      Change an account's role
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Account id"
// @Param        body  body      changeRoleRequest  true  "New role"
// @Success      200   {object}  domain.Account
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/accounts/{id}/role [put]
func (h *AccountHandler) ChangeRole(c echo.Context) error {
	_, _, role, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.accountService.ChangeRole(c.Request().Context(), role, c.Param("id"), domain.Role(req.Role))
	if err != nil {
		return err
	}

	metrics.RoleChangesTotal.WithLabelValues(string(account.Role)).Inc()
	return c.JSON(http.StatusOK, account)
}

// ToggleActive handles POST /v1/accounts/:id/toggle.
//
// @Summary      Activate or deactivate an account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  domain.Account
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/accounts/{id}/toggle [post]
func (h *AccountHandler) ToggleActive(c echo.Context) error {
	_, _, role, err := ctxActor(c)
	if err != nil {
		return err
	}

	account, err := h.accountService.ToggleActive(c.Request().Context(), role, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// Delete handles DELETE /v1/accounts/:id.
//
// @Summary      Delete an account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Account id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/accounts/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	_, _, role, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.accountService.Delete(c.Request().Context(), role, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AvailableRoles handles GET /v1/accounts/roles — the roles the actor may
// assign. ENV_ADMIN never appears.
//
// @Summary      List assignable roles for the current actor
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  availableRolesResponse
// @Router       /v1/accounts/roles [get]
func (h *AccountHandler) AvailableRoles(c echo.Context) error {
	_, _, role, err := ctxActor(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, availableRolesResponse{Roles: h.accountService.AvailableRoles(role)})
}
