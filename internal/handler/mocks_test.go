package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"eventplanner/internal/model"
	"eventplanner/internal/service"
)

// MockRSVPService is a mock implementation of RSVPService.
type MockRSVPService struct {
	mock.Mock
}

func (m *MockRSVPService) Respond(ctx context.Context, actor service.Actor, in service.RSVPInput) (*service.RSVPResult, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RSVPResult), args.Error(1)
}

func (m *MockRSVPService) Cancel(ctx context.Context, actor service.Actor, eventID uint) error {
	args := m.Called(ctx, actor, eventID)
	return args.Error(0)
}

func (m *MockRSVPService) GetMine(ctx context.Context, actor service.Actor, eventID uint) (*model.RSVPWithEvent, error) {
	args := m.Called(ctx, actor, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RSVPWithEvent), args.Error(1)
}

func (m *MockRSVPService) ListMine(ctx context.Context, actor service.Actor) ([]model.RSVPWithEvent, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RSVPWithEvent), args.Error(1)
}

func (m *MockRSVPService) ListForEvent(ctx context.Context, eventID uint) (*model.EventRSVPs, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventRSVPs), args.Error(1)
}

// MockEventService is a mock implementation of EventService.
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) Create(ctx context.Context, actor service.Actor, in service.EventInput) (*model.Event, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventService) Get(ctx context.Context, id uint, viewer *service.Actor) (*model.EventDetail, error) {
	args := m.Called(ctx, id, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventDetail), args.Error(1)
}

func (m *MockEventService) List(ctx context.Context, q service.EventQuery) ([]model.EventListing, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EventListing), args.Error(1)
}

func (m *MockEventService) ListMine(ctx context.Context, actor service.Actor) ([]model.EventListing, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EventListing), args.Error(1)
}

func (m *MockEventService) Update(ctx context.Context, actor service.Actor, id uint, in service.EventUpdate) (*model.Event, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventService) Delete(ctx context.Context, actor service.Actor, id uint) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

// MockAuthService is a mock implementation of AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockAuthService) EnsureAdmin(ctx context.Context, username, password string) (*model.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
