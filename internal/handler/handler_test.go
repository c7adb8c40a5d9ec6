package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eventplanner/internal/auth"
	apperrors "eventplanner/internal/errors"
	"eventplanner/internal/model"
	"eventplanner/internal/service"
)

var alice = &auth.Session{ID: "s1", UserID: 2, Username: "alice", Role: model.RoleUser}

// withSession stands in for the gate.
func withSession(s *auth.Session) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if s != nil {
				c.Set(auth.ContextKey, s)
			}
			return next(c)
		}
	}
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRSVPHandler_Respond(t *testing.T) {
	actor := service.Actor{UserID: 2, Role: model.RoleUser}

	tests := []struct {
		name       string
		session    *auth.Session
		body       string
		setupMock  func(*MockRSVPService)
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:    "created",
			session: alice,
			body:    `{"eventId":1,"status":"attending","notes":"yay"}`,
			setupMock: func(m *MockRSVPService) {
				m.On("Respond", mock.Anything, actor, service.RSVPInput{EventID: 1, Status: "attending", Notes: "yay"}).
					Return(&service.RSVPResult{RSVP: &model.RSVPWithEvent{EventTitle: "Party"}, Created: true}, nil)
			},
			wantStatus: http.StatusOK,
			wantMsg:    "RSVP created successfully",
		},
		{
			name:    "capacity exceeded",
			session: alice,
			body:    `{"eventId":1,"status":"attending"}`,
			setupMock: func(m *MockRSVPService) {
				m.On("Respond", mock.Anything, actor, mock.Anything).Return(nil, apperrors.ErrCapacityExceeded)
			},
			wantStatus: http.StatusConflict,
			wantCode:   "CAPACITY_EXCEEDED",
		},
		{
			name:    "past event",
			session: alice,
			body:    `{"eventId":1,"status":"maybe"}`,
			setupMock: func(m *MockRSVPService) {
				m.On("Respond", mock.Anything, actor, mock.Anything).Return(nil, apperrors.ErrEventPast)
			},
			wantStatus: http.StatusConflict,
			wantCode:   "EVENT_PAST",
		},
		{
			name:    "event not found",
			session: alice,
			body:    `{"eventId":9,"status":"maybe"}`,
			setupMock: func(m *MockRSVPService) {
				m.On("Respond", mock.Anything, actor, mock.Anything).Return(nil, apperrors.ErrEventNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantCode:   "EVENT_NOT_FOUND",
		},
		{
			name:    "store failure is opaque",
			session: alice,
			body:    `{"eventId":1,"status":"maybe"}`,
			setupMock: func(m *MockRSVPService) {
				m.On("Respond", mock.Anything, actor, mock.Anything).Return(nil, fmt.Errorf("load event: connection reset"))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
		{
			name:       "bad status",
			session:    alice,
			body:       `{"eventId":1,"status":"going"}`,
			setupMock:  func(m *MockRSVPService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "notes too long",
			session:    alice,
			body:       fmt.Sprintf(`{"eventId":1,"status":"maybe","notes":%q}`, strings.Repeat("x", 501)),
			setupMock:  func(m *MockRSVPService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "anonymous",
			body:       `{"eventId":1,"status":"maybe"}`,
			setupMock:  func(m *MockRSVPService) {},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "AUTH_REQUIRED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockRSVPService)
			tt.setupMock(svc)
			e := newEcho()
			e.POST("/api/rsvps", NewRSVPHandler(svc).Respond, withSession(tt.session))

			rec := do(e, http.MethodPost, "/api/rsvps", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
			}
			if tt.wantMsg != "" {
				var body RSVPResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.True(t, body.Success)
				assert.Equal(t, tt.wantMsg, body.Message)
				assert.Equal(t, "Party", body.RSVP.EventTitle)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestRSVPHandler_ValidationDetailsUseJSONNames(t *testing.T) {
	e := newEcho()
	e.POST("/api/rsvps", NewRSVPHandler(new(MockRSVPService)).Respond, withSession(alice))

	rec := do(e, http.MethodPost, "/api/rsvps", `{"status":"going"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "is required", body.Details["eventId"])
	assert.Contains(t, body.Details["status"], "attending")
}

func TestRSVPHandler_CancelMissing(t *testing.T) {
	svc := new(MockRSVPService)
	svc.On("Cancel", mock.Anything, service.Actor{UserID: 2, Role: model.RoleUser}, uint(4)).Return(apperrors.ErrRSVPNotFound)
	e := newEcho()
	e.DELETE("/api/rsvps/:eventId", NewRSVPHandler(svc).Cancel, withSession(alice))

	rec := do(e, http.MethodDelete, "/api/rsvps/4", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "RSVP_NOT_FOUND", decodeError(t, rec).Code)
}

func TestEventHandler_UpdateForbidden(t *testing.T) {
	svc := new(MockEventService)
	svc.On("Update", mock.Anything, service.Actor{UserID: 2, Role: model.RoleUser}, uint(7), mock.Anything).
		Return(nil, apperrors.ErrForbidden)
	e := newEcho()
	e.PUT("/api/events/:id", NewEventHandler(svc).Update, withSession(alice))

	rec := do(e, http.MethodPut, "/api/events/7", `{"title":"Mine now"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, rec).Code)
}

func TestEventHandler_GetPassesViewer(t *testing.T) {
	svc := new(MockEventService)
	viewer := &service.Actor{UserID: 2, Role: model.RoleUser}
	svc.On("Get", mock.Anything, uint(7), viewer).Return(&model.EventDetail{
		EventListing: model.EventListing{Event: model.Event{ID: 7, Title: "Party"}, AttendeeCount: 3},
		MyRSVP:       &model.RSVP{Status: model.RSVPAttending},
	}, nil)
	svc.On("Get", mock.Anything, uint(7), (*service.Actor)(nil)).Return(&model.EventDetail{
		EventListing: model.EventListing{Event: model.Event{ID: 7, Title: "Party"}, AttendeeCount: 3},
	}, nil)

	h := NewEventHandler(svc)
	signedIn := newEcho()
	signedIn.GET("/api/events/:id", h.Get, withSession(alice))
	anonymous := newEcho()
	anonymous.GET("/api/events/:id", h.Get)

	rec := do(signedIn, http.MethodGet, "/api/events/7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Party", body["title"])
	assert.Equal(t, float64(3), body["attendeeCount"])
	assert.NotNil(t, body["myRsvp"])

	rec = do(anonymous, http.MethodGet, "/api/events/7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotContains(t, body, "myRsvp")
	svc.AssertExpectations(t)
}

func TestEventHandler_ListParsesQuery(t *testing.T) {
	svc := new(MockEventService)
	svc.On("List", mock.Anything, service.EventQuery{Search: "jazz", Upcoming: true}).Return([]model.EventListing{}, nil)
	e := newEcho()
	e.GET("/api/events", NewEventHandler(svc).List)

	rec := do(e, http.MethodGet, "/api/events?search=jazz&upcoming=true", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/events?upcoming=soon", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

func TestEventHandler_InvalidID(t *testing.T) {
	e := newEcho()
	e.GET("/api/events/:id", NewEventHandler(new(MockEventService)).Get)

	rec := do(e, http.MethodGet, "/api/events/abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
}

func TestAuthHandler_LoginSetsCookie(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Login", mock.Anything, "alice", "password123").Return(&service.LoginResult{
		User:    &model.User{ID: 2, Username: "alice"},
		Session: alice,
		Token:   "signed-token",
	}, nil)
	e := newEcho()
	e.POST("/api/auth/login", NewAuthHandler(svc, true).Login)

	rec := do(e, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"password123"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookie, cookies[0].Name)
	assert.Equal(t, "signed-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestAuthHandler_LoginInvalid(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Login", mock.Anything, "alice", "wrong").Return(nil, apperrors.ErrInvalidCredentials)
	e := newEcho()
	e.POST("/api/auth/login", NewAuthHandler(svc, false).Login)

	rec := do(e, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, rec).Code)
}

func TestAuthHandler_RegisterDuplicate(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Register", mock.Anything, mock.Anything).Return(nil, apperrors.ErrUserAlreadyExists)
	e := newEcho()
	e.POST("/api/auth/register", NewAuthHandler(svc, false).Register)

	rec := do(e, http.MethodPost, "/api/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"password123"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "USER_ALREADY_EXISTS", decodeError(t, rec).Code)
}

func TestAuthHandler_LogoutEndsSession(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Logout", mock.Anything, "s1").Return(nil)
	e := newEcho()
	e.POST("/api/auth/logout", NewAuthHandler(svc, false).Logout, withSession(alice))

	rec := do(e, http.MethodPost, "/api/auth/logout", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
	svc.AssertExpectations(t)
}
