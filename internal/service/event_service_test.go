package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "eventplanner/internal/errors"
	"eventplanner/internal/model"
	"eventplanner/internal/repository"
)

func newTestEventService(events *MockEventRepository, rsvps *MockRSVPRepository) *eventService {
	svc := NewEventService(events, rsvps, nil).(*eventService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestEventService_CreateRejectsPastDate(t *testing.T) {
	events := new(MockEventRepository)
	svc := newTestEventService(events, new(MockRSVPRepository))

	_, err := svc.Create(context.Background(), Actor{UserID: 1}, EventInput{
		Title: "Retro", Location: "Here", EventDate: fixedNow.Add(-time.Hour),
	})

	assert.ErrorIs(t, err, apperrors.ErrEventDateInPast)
	events.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEventService_CreateStoresUTC(t *testing.T) {
	events := new(MockEventRepository)
	events.On("Create", mock.Anything, mock.MatchedBy(func(e *model.Event) bool {
		return e.EventDate.Location() == time.UTC && e.CreatedBy == 4 && e.Status == model.EventActive
	})).Return(nil)
	svc := newTestEventService(events, new(MockRSVPRepository))

	zone := time.FixedZone("CEST", 2*60*60)
	event, err := svc.Create(context.Background(), Actor{UserID: 4}, EventInput{
		Title: " Launch ", Location: "Berlin", EventDate: fixedNow.Add(24 * time.Hour).In(zone),
	})

	require.NoError(t, err)
	assert.Equal(t, "Launch", event.Title)
	events.AssertExpectations(t)
}

func TestEventService_UpdateOwnership(t *testing.T) {
	title := "New title"

	tests := []struct {
		name          string
		actor         Actor
		setupMock     func(*MockEventRepository)
		expectedError error
	}{
		{
			name:  "owner updates",
			actor: Actor{UserID: 1, Role: model.RoleUser},
			setupMock: func(m *MockEventRepository) {
				m.On("UpdateOwned", mock.Anything, uint(7), uint(1), false, mock.Anything).Return(int64(1), nil)
				m.On("FindByID", mock.Anything, uint(7)).Return(&model.Event{ID: 7, Title: title}, nil)
			},
		},
		{
			name:  "admin updates any event",
			actor: Actor{UserID: 9, Role: model.RoleAdmin},
			setupMock: func(m *MockEventRepository) {
				m.On("UpdateOwned", mock.Anything, uint(7), uint(9), true, mock.Anything).Return(int64(1), nil)
				m.On("FindByID", mock.Anything, uint(7)).Return(&model.Event{ID: 7, Title: title}, nil)
			},
		},
		{
			name:  "non owner is forbidden",
			actor: Actor{UserID: 2, Role: model.RoleUser},
			setupMock: func(m *MockEventRepository) {
				m.On("UpdateOwned", mock.Anything, uint(7), uint(2), false, mock.Anything).Return(int64(0), nil)
				m.On("FindByID", mock.Anything, uint(7)).Return(&model.Event{ID: 7, CreatedBy: 1}, nil)
			},
			expectedError: apperrors.ErrForbidden,
		},
		{
			name:  "missing event",
			actor: Actor{UserID: 2, Role: model.RoleUser},
			setupMock: func(m *MockEventRepository) {
				m.On("UpdateOwned", mock.Anything, uint(7), uint(2), false, mock.Anything).Return(int64(0), nil)
				m.On("FindByID", mock.Anything, uint(7)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrEventNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := new(MockEventRepository)
			tt.setupMock(events)
			svc := newTestEventService(events, new(MockRSVPRepository))

			event, err := svc.Update(context.Background(), tt.actor, 7, EventUpdate{Title: &title})

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				require.NoError(t, err)
				assert.Equal(t, title, event.Title)
			}
			events.AssertExpectations(t)
		})
	}
}

func TestEventService_UpdateCannotDropCapBelowAttendance(t *testing.T) {
	events := new(MockEventRepository)
	events.On("UpdateOwned", mock.Anything, uint(7), uint(1), false, mock.Anything).Return(int64(1), nil)
	events.On("CountAttending", mock.Anything, uint(7)).Return(int64(4), nil)
	svc := newTestEventService(events, new(MockRSVPRepository))

	_, err := svc.Update(context.Background(), Actor{UserID: 1}, 7, EventUpdate{MaxAttendees: intPtr(3)})

	assert.ErrorIs(t, err, apperrors.ErrCapacityBelowAttendance)
	events.AssertExpectations(t)
}

func TestEventService_UpdateRequiresFields(t *testing.T) {
	svc := newTestEventService(new(MockEventRepository), new(MockRSVPRepository))

	_, err := svc.Update(context.Background(), Actor{UserID: 1}, 7, EventUpdate{})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestEventService_GetAttachesViewerRSVP(t *testing.T) {
	events := new(MockEventRepository)
	rsvps := new(MockRSVPRepository)
	events.On("FindListing", mock.Anything, uint(7)).Return(&model.EventListing{Event: model.Event{ID: 7}, AttendeeCount: 2}, nil)
	rsvps.On("FindByUserAndEvent", mock.Anything, uint(3), uint(7)).Return(&model.RSVP{Status: model.RSVPMaybe}, nil)
	svc := newTestEventService(events, rsvps)

	detail, err := svc.Get(context.Background(), 7, &Actor{UserID: 3})

	require.NoError(t, err)
	assert.Equal(t, int64(2), detail.AttendeeCount)
	require.NotNil(t, detail.MyRSVP)
	assert.Equal(t, model.RSVPMaybe, detail.MyRSVP.Status)
}

func TestEventService_ListUpcomingUsesNow(t *testing.T) {
	events := new(MockEventRepository)
	events.On("ListActive", mock.Anything, mock.MatchedBy(func(f repository.EventFilter) bool {
		return f.Search == "go" && f.After != nil && f.After.Equal(fixedNow)
	})).Return([]model.EventListing{}, nil)
	svc := newTestEventService(events, new(MockRSVPRepository))

	_, err := svc.List(context.Background(), EventQuery{Search: "go", Upcoming: true})

	require.NoError(t, err)
	events.AssertExpectations(t)
}
