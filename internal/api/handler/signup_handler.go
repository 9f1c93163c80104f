package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/meetgate/meetgate/internal/api/metrics"
	"github.com/meetgate/meetgate/internal/core/domain"
	"github.com/meetgate/meetgate/internal/core/ports"
)

type SignupHandler struct {
	signupService ports.SignupService
}

func NewSignupHandler(signupService ports.SignupService) *SignupHandler {
	return &SignupHandler{signupService: signupService}
}

type submitSignupRequest struct {
	Email        string `json:"email" validate:"required,email"`
	FullName     string `json:"full_name" validate:"required,max=200"`
	Note         string `json:"note"`
	PasswordHash string `json:"password_hash" validate:"required"`
}

type decisionRequest struct {
	DecisionNote string `json:"decision_note"`
}

type signupListResponse struct {
	Requests []*domain.SignupRequest `json:"requests"`
	Stats    *domain.RequestStats    `json:"stats"`
}

// Submit handles POST /v1/signup-requests — the public application form.
//
// @Summary      Submit a signup request
// @Tags         signup-requests
// @Accept       json
// @Produce      json
// @Param        body  body      submitSignupRequest  true  "Signup application"
// @Success      201   {object}  domain.SignupRequest
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/signup-requests [post]
func (h *SignupHandler) Submit(c echo.Context) error {
	var req submitSignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.signupService.Submit(c.Request().Context(), ports.SubmitSignupInput{
		Email:        req.Email,
		FullName:     req.FullName,
		Note:         req.Note,
		PasswordHash: req.PasswordHash,
	})
	if err != nil {
		if err == domain.ErrDuplicateEmail {
			metrics.SignupSubmissionsTotal.WithLabelValues("duplicate_email").Inc()
		}
		return err
	}

	metrics.SignupSubmissionsTotal.WithLabelValues("accepted").Inc()
	return c.JSON(http.StatusCreated, created)
}

// List handles GET /v1/signup-requests with an optional ?status= filter.
//
// @Summary      List signup requests
// @Tags         signup-requests
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"  Enums(pending, approved, rejected)
// @Success      200     {object}  signupListResponse
// @Failure      403     {object}  errorResponse
// @Router       /v1/signup-requests [get]
func (h *SignupHandler) List(c echo.Context) error {
	_, _, role, err := ctxActor(c)
	if err != nil {
		return err
	}

	status := domain.RequestStatus(c.QueryParam("status"))
	if status != "" && !status.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status filter")
	}

	requests, stats, err := h.signupService.List(c.Request().Context(), role, status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, signupListResponse{Requests: requests, Stats: stats})
}

// Get handles GET /v1/signup-requests/:id.
//
// @Summary      Get a signup request
// @Tags         signup-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request id"
// @Success      200  {object}  domain.SignupRequest
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/signup-requests/{id} [get]
func (h *SignupHandler) Get(c echo.Context) error {
	_, _, role, err := ctxActor(c)
	if err != nil {
		return err
	}

	req, err := h.signupService.Get(c.Request().Context(), role, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, req)
}

// Approve handles POST /v1/signup-requests/:id/approve.
//
// @Summary      Approve a signup request
// @Tags         signup-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true   "Request id"
// @Param        body  body      decisionRequest  false  "Decision note"
// @Success      200   {object}  domain.SignupRequest
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/signup-requests/{id}/approve [post]
func (h *SignupHandler) Approve(c echo.Context) error {
	return h.decide(c, domain.StatusApproved)
}

// Reject handles POST /v1/signup-requests/:id/reject.
//
// @Summary      Reject a signup request
// @Tags         signup-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true   "Request id"
// @Param        body  body      decisionRequest  false  "Decision note"
// @Success      200   {object}  domain.SignupRequest
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/signup-requests/{id}/reject [post]
func (h *SignupHandler) Reject(c echo.Context) error {
	return h.decide(c, domain.StatusRejected)
}

func (h *SignupHandler) decide(c echo.Context, status domain.RequestStatus) error {
	start := time.Now()
	accountID, username, role, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req decisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	decider := &domain.Account{ID: accountID, Username: username, Role: role}

	var decided *domain.SignupRequest
	switch status {
	case domain.StatusApproved:
		decided, err = h.signupService.Approve(c.Request().Context(), role, c.Param("id"), decider, req.DecisionNote)
	default:
		decided, err = h.signupService.Reject(c.Request().Context(), role, c.Param("id"), decider, req.DecisionNote)
	}
	if err != nil {
		return err
	}

	metrics.SignupDecisionsTotal.WithLabelValues(string(status)).Inc()
	metrics.SignupDecisionSeconds.WithLabelValues(string(status)).Observe(time.Since(start).Seconds())
	return c.JSON(http.StatusOK, decided)
}

// Reset handles POST /v1/signup-requests/:id/reset — back to pending.
//
// @Summary      Reset a signup request to pending
// @Tags         signup-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request id"
// @Success      200  {object}  domain.SignupRequest
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/signup-requests/{id}/reset [post]
func (h *SignupHandler) Reset(c echo.Context) error {
	start := time.Now()
	_, _, role, err := ctxActor(c)
	if err != nil {
		return err
	}

	req, err := h.signupService.ResetToPending(c.Request().Context(), role, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.SignupDecisionsTotal.WithLabelValues("reset").Inc()
	metrics.SignupDecisionSeconds.WithLabelValues("reset").Observe(time.Since(start).Seconds())
	return c.JSON(http.StatusOK, req)
}
