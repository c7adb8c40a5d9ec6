package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"eventplanner/internal/model"
	"eventplanner/internal/service"
)

// RSVPHandler handles RSVP endpoints.
type RSVPHandler struct {
	svc service.RSVPService
}

// NewRSVPHandler creates a new RSVP handler.
func NewRSVPHandler(svc service.RSVPService) *RSVPHandler {
	return &RSVPHandler{svc: svc}
}

// RSVPRequest is a response to an event.
type RSVPRequest struct {
	EventID uint   `json:"eventId" validate:"required"`
	Status  string `json:"status" validate:"required,oneof=attending maybe not_attending"`
	Notes   string `json:"notes" validate:"max=500"`
}

// RSVPResponse carries the persisted response.
type RSVPResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	RSVP    *model.RSVPWithEvent `json:"rsvp"`
}

// SuccessResponse is a bare confirmation.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Respond godoc
// @Summary Create or update the caller's RSVP
// @Tags rsvps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RSVPRequest true "Response"
// @Success 200 {object} RSVPResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /rsvps [post]
func (h *RSVPHandler) Respond(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	var req RSVPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.svc.Respond(c.Request().Context(), actor, service.RSVPInput{
		EventID: req.EventID,
		Status:  req.Status,
		Notes:   req.Notes,
	})
	if err != nil {
		return fail(c, err)
	}

	message := "RSVP updated successfully"
	if res.Created {
		message = "RSVP created successfully"
	}
	return c.JSON(http.StatusOK, RSVPResponse{Success: true, Message: message, RSVP: res.RSVP})
}

// Cancel godoc
// @Summary Delete the caller's RSVP for an event
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "Event ID"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /rsvps/{eventId} [delete]
func (h *RSVPHandler) Cancel(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	eventID, err := parseID(c, "eventId")
	if err != nil {
		return err
	}

	if err := h.svc.Cancel(c.Request().Context(), actor, eventID); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "RSVP removed successfully"})
}

// ListMine godoc
// @Summary List the caller's RSVPs
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.RSVPWithEvent
// @Failure 401 {object} errors.ErrorResponse
// @Router /rsvps/my-rsvps [get]
func (h *RSVPHandler) ListMine(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	rsvps, err := h.svc.ListMine(c.Request().Context(), actor)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rsvps)
}

// ListForEvent godoc
// @Summary List an event's RSVPs grouped by status
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "Event ID"
// @Success 200 {object} model.EventRSVPs
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /rsvps/event/{eventId} [get]
func (h *RSVPHandler) ListForEvent(c echo.Context) error {
	eventID, err := parseID(c, "eventId")
	if err != nil {
		return err
	}
	out, err := h.svc.ListForEvent(c.Request().Context(), eventID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// GetMine godoc
// @Summary Get the caller's RSVP for one event
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "Event ID"
// @Success 200 {object} model.RSVPWithEvent
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /rsvps/event/{eventId}/mine [get]
func (h *RSVPHandler) GetMine(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	eventID, err := parseID(c, "eventId")
	if err != nil {
		return err
	}
	rsvp, err := h.svc.GetMine(c.Request().Context(), actor, eventID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rsvp)
}
