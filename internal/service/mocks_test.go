package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"eventplanner/internal/model"
	"eventplanner/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id uint, firstName, lastName, email string) error {
	args := m.Called(ctx, id, firstName, lastName, email)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id uint, role string) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockEventRepository is a mock implementation of EventRepository.
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *model.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) FindByID(ctx context.Context, id uint) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventRepository) FindListing(ctx context.Context, id uint) (*model.EventListing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventListing), args.Error(1)
}

func (m *MockEventRepository) ListActive(ctx context.Context, filter repository.EventFilter) ([]model.EventListing, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EventListing), args.Error(1)
}

func (m *MockEventRepository) ListByCreator(ctx context.Context, userID uint) ([]model.EventListing, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EventListing), args.Error(1)
}

func (m *MockEventRepository) UpdateOwned(ctx context.Context, id, ownerID uint, asAdmin bool, values map[string]interface{}) (int64, error) {
	args := m.Called(ctx, id, ownerID, asAdmin, values)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) DeleteOwned(ctx context.Context, id, ownerID uint, asAdmin bool) (int64, error) {
	args := m.Called(ctx, id, ownerID, asAdmin)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) CountAttending(ctx context.Context, eventID uint) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) FindByTitleAndDate(ctx context.Context, title string, date time.Time) (*model.Event, error) {
	args := m.Called(ctx, title, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

// WithTransaction runs fn against the mock itself.
func (m *MockEventRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.EventRepository) error) error {
	return fn(ctx, m)
}

// MockRSVPRepository is a mock implementation of RSVPRepository.
type MockRSVPRepository struct {
	mock.Mock
}

func (m *MockRSVPRepository) LockActiveEvent(ctx context.Context, eventID uint) (*model.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockRSVPRepository) CountAttendingExcluding(ctx context.Context, eventID, userID uint) (int64, error) {
	args := m.Called(ctx, eventID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRSVPRepository) FindByUserAndEvent(ctx context.Context, userID, eventID uint) (*model.RSVP, error) {
	args := m.Called(ctx, userID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RSVP), args.Error(1)
}

func (m *MockRSVPRepository) Create(ctx context.Context, rsvp *model.RSVP) error {
	args := m.Called(ctx, rsvp)
	return args.Error(0)
}

func (m *MockRSVPRepository) Update(ctx context.Context, rsvp *model.RSVP) error {
	args := m.Called(ctx, rsvp)
	return args.Error(0)
}

func (m *MockRSVPRepository) Delete(ctx context.Context, userID, eventID uint) (int64, error) {
	args := m.Called(ctx, userID, eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRSVPRepository) FindWithEvent(ctx context.Context, userID, eventID uint) (*model.RSVPWithEvent, error) {
	args := m.Called(ctx, userID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RSVPWithEvent), args.Error(1)
}

func (m *MockRSVPRepository) ListByUser(ctx context.Context, userID uint) ([]model.RSVPWithEvent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RSVPWithEvent), args.Error(1)
}

func (m *MockRSVPRepository) ListByEvent(ctx context.Context, eventID uint) ([]model.RSVPWithUser, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RSVPWithUser), args.Error(1)
}

// WithTransaction runs fn against the mock itself.
func (m *MockRSVPRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.RSVPRepository) error) error {
	return fn(ctx, m)
}
