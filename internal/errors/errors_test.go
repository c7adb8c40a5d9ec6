package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"capacity", ErrCapacityExceeded, http.StatusConflict, "CAPACITY_EXCEEDED", ErrCapacityExceeded.Error()},
		{"wrapped past event", fmt.Errorf("respond: %w", ErrEventPast), http.StatusConflict, "EVENT_PAST", ErrEventPast.Error()},
		{"event not found", ErrEventNotFound, http.StatusNotFound, "EVENT_NOT_FOUND", ErrEventNotFound.Error()},
		{"rsvp not found", ErrRSVPNotFound, http.StatusNotFound, "RSVP_NOT_FOUND", ErrRSVPNotFound.Error()},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN", ErrForbidden.Error()},
		{"duplicate user", ErrUserAlreadyExists, http.StatusConflict, "USER_ALREADY_EXISTS", ErrUserAlreadyExists.Error()},
		{"invalid input keeps detail", fmt.Errorf("%w: title is required", ErrInvalidInput), http.StatusBadRequest, "VALIDATION_ERROR", "invalid input: title is required"},
		{"store failure is opaque", fmt.Errorf("dial tcp 10.0.0.1:3306: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, got.StatusCode)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantMsg, got.Message)
		})
	}
}
