package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidInput is returned when a request passes binding but breaks a domain rule.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEventDateInPast is returned when an event is scheduled at or before now.
	ErrEventDateInPast = errors.New("event date must be in the future")
	// ErrCapacityBelowAttendance is returned when maxAttendees would drop below the attending count.
	ErrCapacityBelowAttendance = errors.New("maxAttendees cannot be lower than the current number of attendees")

	// ErrAuthRequired is returned when no valid session accompanies a request.
	ErrAuthRequired = errors.New("authentication required")
	// ErrInvalidCredentials is returned for unknown usernames and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrForbidden is returned when the caller is neither owner nor admin.
	ErrForbidden = errors.New("you do not have permission to perform this action")

	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEventNotFound is returned when an event does not exist or is not active.
	ErrEventNotFound = errors.New("event not found or inactive")
	// ErrRSVPNotFound is returned when the caller has no RSVP for the event.
	ErrRSVPNotFound = errors.New("rsvp not found")

	// ErrUserAlreadyExists is returned on duplicate username or email.
	ErrUserAlreadyExists = errors.New("username or email already exists")
	// ErrEventPast is returned when responding to an event that already happened.
	ErrEventPast = errors.New("cannot rsvp to past events")
	// ErrCapacityExceeded is returned when the attending cap has been reached.
	ErrCapacityExceeded = errors.New("event has reached maximum capacity")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// IsInternal reports whether the mapped error is an opaque store failure.
func (e *HTTPError) IsInternal() bool {
	return e.StatusCode == http.StatusInternalServerError
}

var mappings = []struct {
	err    error
	status int
	code   string
}{
	{ErrInvalidInput, http.StatusBadRequest, "VALIDATION_ERROR"},
	{ErrEventDateInPast, http.StatusBadRequest, "VALIDATION_ERROR"},
	{ErrCapacityBelowAttendance, http.StatusBadRequest, "VALIDATION_ERROR"},
	{ErrAuthRequired, http.StatusUnauthorized, "AUTH_REQUIRED"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{ErrEventNotFound, http.StatusNotFound, "EVENT_NOT_FOUND"},
	{ErrRSVPNotFound, http.StatusNotFound, "RSVP_NOT_FOUND"},
	{ErrUserAlreadyExists, http.StatusConflict, "USER_ALREADY_EXISTS"},
	{ErrEventPast, http.StatusConflict, "EVENT_PAST"},
	{ErrCapacityExceeded, http.StatusConflict, "CAPACITY_EXCEEDED"},
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped errors keep their
// domain message; anything unknown becomes an opaque internal error.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			msg := m.err.Error()
			if m.err == ErrInvalidInput {
				msg = err.Error()
			}
			return NewHTTPError(m.status, msg, m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}

// Code returns the machine readable code for err.
func Code(err error) string {
	return MapErrorToHTTP(err).Code
}
