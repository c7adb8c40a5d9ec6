package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"eventplanner/internal/service"
)

// SeedHandler handles demo data endpoints.
type SeedHandler struct {
	seedService service.SeedService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(seedService service.SeedService) *SeedHandler {
	return &SeedHandler{seedService: seedService}
}

// SeedEventsResponse represents the seed response.
type SeedEventsResponse struct {
	Message string `json:"message"`
	service.SeedResult
}

// SeedEvents godoc
// @Summary Load demo events owned by the calling admin
// @Description Entries matching an existing title and date are left alone.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body []service.DemoEvent true "Demo events"
// @Success 200 {object} SeedEventsResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/seed/events [post]
func (h *SeedHandler) SeedEvents(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}

	var items []service.DemoEvent
	if err := c.Bind(&items); err != nil {
		return invalid("invalid request body", nil)
	}

	res, err := h.seedService.SeedEvents(c.Request().Context(), actor, items)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, SeedEventsResponse{
		Message:    "events seeded successfully",
		SeedResult: *res,
	})
}
