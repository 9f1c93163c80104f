package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/meetgate/meetgate/internal/core/ports"
)

type MeetingHandler struct {
	meetingService ports.MeetingService
}

func NewMeetingHandler(meetingService ports.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetingService: meetingService}
}

// Create handles POST /v1/meetings. Registered roles only; GUEST can join a
// room via its link but never create one.
//
// @Summary      Create a meeting
// @Tags         meetings
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  ports.MeetingResult
// @Failure      403  {object}  errorResponse
// @Router       /v1/meetings [post]
func (h *MeetingHandler) Create(c echo.Context) error {
	accountID, _, role, err := ctxActor(c)
	if err != nil {
		return err
	}

	result, err := h.meetingService.Create(c.Request().Context(), role, accountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

// Get handles GET /v1/meetings/:id — resolves the join link.
//
// @Summary      Get a meeting
// @Tags         meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting id"
// @Success      200  {object}  ports.MeetingResult
// @Failure      404  {object}  errorResponse
// @Router       /v1/meetings/{id} [get]
func (h *MeetingHandler) Get(c echo.Context) error {
	if _, _, _, err := ctxActor(c); err != nil {
		return err
	}

	result, err := h.meetingService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// List handles GET /v1/meetings — the actor's own meetings, newest first.
//
// @Summary      List own meetings
// @Tags         meetings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.MeetingResult
// @Router       /v1/meetings [get]
func (h *MeetingHandler) List(c echo.Context) error {
	accountID, _, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	results, err := h.meetingService.ListByOwner(c.Request().Context(), accountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, results)
}
