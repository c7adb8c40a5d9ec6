package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"eventplanner/internal/cache"
	apperrors "eventplanner/internal/errors"
	"eventplanner/internal/logging"
	"eventplanner/internal/model"
	"eventplanner/internal/repository"
)

// EventInput carries the fields of a new event.
type EventInput struct {
	Title        string
	Description  string
	EventDate    time.Time
	Location     string
	MaxAttendees *int
}

// EventUpdate carries the fields to change; nil fields are left alone. A
// MaxAttendees of 0 removes the cap.
type EventUpdate struct {
	Title        *string
	Description  *string
	EventDate    *time.Time
	Location     *string
	MaxAttendees *int
	Status       *string
}

// EventQuery filters the public listing.
type EventQuery struct {
	Search   string
	Upcoming bool
}

// EventService exposes the event catalog.
type EventService interface {
	Create(ctx context.Context, actor Actor, in EventInput) (*model.Event, error)
	Get(ctx context.Context, id uint, viewer *Actor) (*model.EventDetail, error)
	List(ctx context.Context, q EventQuery) ([]model.EventListing, error)
	ListMine(ctx context.Context, actor Actor) ([]model.EventListing, error)
	Update(ctx context.Context, actor Actor, id uint, in EventUpdate) (*model.Event, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type eventService struct {
	events repository.EventRepository
	rsvps  repository.RSVPRepository
	cache  *cache.Client
	now    func() time.Time
}

// NewEventService builds an EventService.
func NewEventService(events repository.EventRepository, rsvps repository.RSVPRepository, cache *cache.Client) EventService {
	return &eventService{events: events, rsvps: rsvps, cache: cache, now: time.Now}
}

func (s *eventService) Create(ctx context.Context, actor Actor, in EventInput) (*model.Event, error) {
	title := strings.TrimSpace(in.Title)
	location := strings.TrimSpace(in.Location)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrInvalidInput)
	}
	if location == "" {
		return nil, fmt.Errorf("%w: location is required", apperrors.ErrInvalidInput)
	}
	if !in.EventDate.After(s.now()) {
		return nil, apperrors.ErrEventDateInPast
	}
	if in.MaxAttendees != nil && *in.MaxAttendees < 1 {
		return nil, fmt.Errorf("%w: maxAttendees must be at least 1", apperrors.ErrInvalidInput)
	}

	event := &model.Event{
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		EventDate:    in.EventDate.UTC(),
		Location:     location,
		MaxAttendees: in.MaxAttendees,
		CreatedBy:    actor.UserID,
		Status:       model.EventActive,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	logging.Ctx(ctx).Info().Uint("event_id", event.ID).Uint("user_id", actor.UserID).Msg("event created")
	return event, nil
}

// Get returns an event with its listing annotations. When viewer is set,
// the viewer's own RSVP is attached.
func (s *eventService) Get(ctx context.Context, id uint, viewer *Actor) (*model.EventDetail, error) {
	var listing model.EventListing
	if !s.cache.GetJSON(ctx, eventCacheKey(id), &listing) {
		found, err := s.events.FindListing(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("find event: %w", err)
		}
		listing = *found
		_ = s.cache.SetJSON(ctx, eventCacheKey(id), listing, eventCacheTTL)
	}

	detail := &model.EventDetail{EventListing: listing}
	if viewer != nil {
		rsvp, err := s.rsvps.FindByUserAndEvent(ctx, viewer.UserID, id)
		switch {
		case err == nil:
			detail.MyRSVP = rsvp
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("find rsvp: %w", err)
		}
	}
	return detail, nil
}

func (s *eventService) List(ctx context.Context, q EventQuery) ([]model.EventListing, error) {
	filter := repository.EventFilter{Search: q.Search}
	if q.Upcoming {
		now := s.now().UTC()
		filter.After = &now
	}
	return s.events.ListActive(ctx, filter)
}

func (s *eventService) ListMine(ctx context.Context, actor Actor) ([]model.EventListing, error) {
	return s.events.ListByCreator(ctx, actor.UserID)
}

func (s *eventService) Update(ctx context.Context, actor Actor, id uint, in EventUpdate) (*model.Event, error) {
	values, err := s.updateValues(in)
	if err != nil {
		return nil, err
	}

	err = s.events.WithTransaction(ctx, func(ctx context.Context, repo repository.EventRepository) error {
		n, err := repo.UpdateOwned(ctx, id, actor.UserID, actor.IsAdmin(), values)
		if err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		if n == 0 {
			return resolveMiss(ctx, repo, id)
		}

		// The update holds the row lock, so no RSVP can slip in between
		// here and commit.
		if in.MaxAttendees != nil && *in.MaxAttendees > 0 {
			count, err := repo.CountAttending(ctx, id)
			if err != nil {
				return fmt.Errorf("count attendees: %w", err)
			}
			if count > int64(*in.MaxAttendees) {
				return apperrors.ErrCapacityBelowAttendance
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, eventCacheKey(id))
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload event: %w", err)
	}
	return event, nil
}

func (s *eventService) updateValues(in EventUpdate) (map[string]interface{}, error) {
	values := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", apperrors.ErrInvalidInput)
		}
		values["title"] = title
	}
	if in.Description != nil {
		values["description"] = strings.TrimSpace(*in.Description)
	}
	if in.Location != nil {
		location := strings.TrimSpace(*in.Location)
		if location == "" {
			return nil, fmt.Errorf("%w: location must not be empty", apperrors.ErrInvalidInput)
		}
		values["location"] = location
	}
	if in.EventDate != nil {
		if !in.EventDate.After(s.now()) {
			return nil, apperrors.ErrEventDateInPast
		}
		values["event_date"] = in.EventDate.UTC()
	}
	if in.MaxAttendees != nil {
		switch {
		case *in.MaxAttendees < 0:
			return nil, fmt.Errorf("%w: maxAttendees must not be negative", apperrors.ErrInvalidInput)
		case *in.MaxAttendees == 0:
			values["max_attendees"] = nil
		default:
			values["max_attendees"] = *in.MaxAttendees
		}
	}
	if in.Status != nil {
		switch *in.Status {
		case model.EventActive, model.EventCancelled, model.EventCompleted:
			values["status"] = *in.Status
		default:
			return nil, fmt.Errorf("%w: status must be active, cancelled or completed", apperrors.ErrInvalidInput)
		}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", apperrors.ErrInvalidInput)
	}
	return values, nil
}

func (s *eventService) Delete(ctx context.Context, actor Actor, id uint) error {
	n, err := s.events.DeleteOwned(ctx, id, actor.UserID, actor.IsAdmin())
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n == 0 {
		return resolveMiss(ctx, s.events, id)
	}

	_ = s.cache.Delete(ctx, eventCacheKey(id))
	logging.Ctx(ctx).Info().Uint("event_id", id).Uint("user_id", actor.UserID).Msg("event deleted")
	return nil
}

// resolveMiss explains why an ownership-scoped write matched nothing.
func resolveMiss(ctx context.Context, repo repository.EventRepository, id uint) error {
	_, err := repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("find event: %w", err)
	}
	return apperrors.ErrForbidden
}
