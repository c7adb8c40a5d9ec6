package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"eventplanner/internal/model"
	"eventplanner/internal/service"
)

// EventHandler handles the event catalog endpoints.
type EventHandler struct {
	svc service.EventService
}

// NewEventHandler creates a new event handler.
func NewEventHandler(svc service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

// CreateEventRequest represents a new event.
type CreateEventRequest struct {
	Title        string    `json:"title" validate:"required,max=200"`
	Description  string    `json:"description" validate:"max=5000"`
	EventDate    time.Time `json:"eventDate" validate:"required"`
	Location     string    `json:"location" validate:"required,max=255"`
	MaxAttendees *int      `json:"maxAttendees" validate:"omitempty,min=1"`
}

// UpdateEventRequest carries the fields to change. maxAttendees 0 removes the cap.
type UpdateEventRequest struct {
	Title        *string    `json:"title" validate:"omitempty,max=200"`
	Description  *string    `json:"description" validate:"omitempty,max=5000"`
	EventDate    *time.Time `json:"eventDate"`
	Location     *string    `json:"location" validate:"omitempty,max=255"`
	MaxAttendees *int       `json:"maxAttendees" validate:"omitempty,min=0"`
	Status       *string    `json:"status" validate:"omitempty,oneof=active cancelled completed"`
}

// EventResponse wraps an event with a message.
type EventResponse struct {
	Message string       `json:"message"`
	Event   *model.Event `json:"event"`
}

// List godoc
// @Summary List active events
// @Tags events
// @Produce json
// @Param search query string false "Case-insensitive match on title, description or location"
// @Param upcoming query bool false "Only events after now"
// @Success 200 {array} model.EventListing
// @Failure 400 {object} errors.ErrorResponse
// @Router /events [get]
func (h *EventHandler) List(c echo.Context) error {
	q := service.EventQuery{Search: c.QueryParam("search")}
	if raw := c.QueryParam("upcoming"); raw != "" {
		upcoming, err := strconv.ParseBool(raw)
		if err != nil {
			return invalid("invalid upcoming", map[string]string{"upcoming": "must be true or false"})
		}
		q.Upcoming = upcoming
	}

	events, err := h.svc.List(c.Request().Context(), q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, events)
}

// ListMine godoc
// @Summary List events created by the current user
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.EventListing
// @Failure 401 {object} errors.ErrorResponse
// @Router /events/mine [get]
func (h *EventHandler) ListMine(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	events, err := h.svc.ListMine(c.Request().Context(), actor)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, events)
}

// Get godoc
// @Summary Get an event
// @Description Includes the caller's RSVP when signed in.
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} model.EventDetail
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var viewer *service.Actor
	if actor, ok := actorFrom(c); ok {
		viewer = &actor
	}

	event, err := h.svc.Get(c.Request().Context(), id, viewer)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, event)
}

// Create godoc
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateEventRequest true "Event"
// @Success 201 {object} EventResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	var req CreateEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	event, err := h.svc.Create(c.Request().Context(), actor, service.EventInput{
		Title:        req.Title,
		Description:  req.Description,
		EventDate:    req.EventDate,
		Location:     req.Location,
		MaxAttendees: req.MaxAttendees,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, EventResponse{Message: "event created", Event: event})
}

// Update godoc
// @Summary Update an event
// @Description Owner or admin only.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body UpdateEventRequest true "Fields to change"
// @Success 200 {object} EventResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	event, err := h.svc.Update(c.Request().Context(), actor, id, service.EventUpdate{
		Title:        req.Title,
		Description:  req.Description,
		EventDate:    req.EventDate,
		Location:     req.Location,
		MaxAttendees: req.MaxAttendees,
		Status:       req.Status,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, EventResponse{Message: "event updated", Event: event})
}

// Delete godoc
// @Summary Delete an event
// @Description Owner or admin only. The event's RSVPs are deleted with it.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), actor, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "event deleted"})
}
