package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"eventplanner/internal/auth"
	"eventplanner/internal/errors"
	"eventplanner/internal/logging"
	"eventplanner/internal/service"
)

// fail converts a service error into an HTTP error. Store failures are
// logged in full and answered with a generic message.
func fail(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.IsInternal() {
		logging.Ctx(c.Request().Context()).Error().Err(err).
			Str("method", c.Request().Method).
			Str("route", c.Path()).
			Msg("request failed")
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func invalid(message string, details map[string]string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error:   message,
		Code:    "VALIDATION_ERROR",
		Details: details,
	})
}

// bindAndValidate decodes the request into req and runs struct validation.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return invalid("invalid request body", nil)
	}
	if err := c.Validate(req); err != nil {
		return invalid("validation failed", validationDetails(err))
	}
	return nil
}

func authRequired() error {
	return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
		Error: errors.ErrAuthRequired.Error(),
		Code:  "AUTH_REQUIRED",
	})
}

// actorFrom builds the service actor from the gate's session.
func actorFrom(c echo.Context) (service.Actor, bool) {
	session, ok := auth.SessionFrom(c)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{UserID: session.UserID, Role: session.Role}, true
}

// mustActor is actorFrom for routes behind RequireAuth.
func mustActor(c echo.Context) (service.Actor, error) {
	actor, ok := actorFrom(c)
	if !ok {
		return service.Actor{}, authRequired()
	}
	return actor, nil
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, invalid("invalid "+name, map[string]string{name: "must be a positive integer"})
	}
	return uint(id), nil
}
