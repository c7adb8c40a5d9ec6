package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"eventplanner/internal/cache"
	apperrors "eventplanner/internal/errors"
	"eventplanner/internal/logging"
	"eventplanner/internal/metrics"
	"eventplanner/internal/model"
	"eventplanner/internal/repository"
)

const maxNotesLength = 500

// RSVPInput is a response to an event.
type RSVPInput struct {
	EventID uint
	Status  string
	Notes   string
}

// RSVPResult is the persisted response and whether it was newly created.
type RSVPResult struct {
	RSVP    *model.RSVPWithEvent
	Created bool
}

// RSVPService exposes the RSVP flow.
type RSVPService interface {
	Respond(ctx context.Context, actor Actor, in RSVPInput) (*RSVPResult, error)
	Cancel(ctx context.Context, actor Actor, eventID uint) error
	GetMine(ctx context.Context, actor Actor, eventID uint) (*model.RSVPWithEvent, error)
	ListMine(ctx context.Context, actor Actor) ([]model.RSVPWithEvent, error)
	ListForEvent(ctx context.Context, eventID uint) (*model.EventRSVPs, error)
}

type rsvpService struct {
	rsvps  repository.RSVPRepository
	events repository.EventRepository
	cache  *cache.Client
	now    func() time.Time
}

// NewRSVPService builds an RSVPService.
func NewRSVPService(rsvps repository.RSVPRepository, events repository.EventRepository, cache *cache.Client) RSVPService {
	return &rsvpService{rsvps: rsvps, events: events, cache: cache, now: time.Now}
}

// Respond creates or updates the actor's RSVP. The event row stays locked
// from the existence check until the write commits, so attendance can never
// exceed the cap.
func (s *rsvpService) Respond(ctx context.Context, actor Actor, in RSVPInput) (*RSVPResult, error) {
	if !model.ValidRSVPStatus(in.Status) {
		return nil, fmt.Errorf("%w: status must be attending, maybe or not_attending", apperrors.ErrInvalidInput)
	}
	notes := strings.TrimSpace(in.Notes)
	if utf8.RuneCountInString(notes) > maxNotesLength {
		return nil, fmt.Errorf("%w: notes must be at most %d characters", apperrors.ErrInvalidInput, maxNotesLength)
	}

	now := s.now().UTC()
	created := false
	err := s.rsvps.WithTransaction(ctx, func(ctx context.Context, repo repository.RSVPRepository) error {
		event, err := repo.LockActiveEvent(ctx, in.EventID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrEventNotFound
		}
		if err != nil {
			return fmt.Errorf("load event: %w", err)
		}

		if !event.EventDate.After(now) {
			return apperrors.ErrEventPast
		}

		if in.Status == model.RSVPAttending && event.HasCapacity() {
			count, err := repo.CountAttendingExcluding(ctx, event.ID, actor.UserID)
			if err != nil {
				return fmt.Errorf("count attendees: %w", err)
			}
			if count >= int64(*event.MaxAttendees) {
				return apperrors.ErrCapacityExceeded
			}
		}

		existing, err := repo.FindByUserAndEvent(ctx, actor.UserID, event.ID)
		switch {
		case err == nil:
			existing.Status = in.Status
			existing.Notes = notes
			existing.RespondedAt = now
			if err := repo.Update(ctx, existing); err != nil {
				return fmt.Errorf("update rsvp: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			rsvp := &model.RSVP{
				UserID:      actor.UserID,
				EventID:     event.ID,
				Status:      in.Status,
				Notes:       notes,
				RespondedAt: now,
			}
			if err := repo.Create(ctx, rsvp); err != nil {
				return fmt.Errorf("create rsvp: %w", err)
			}
			created = true
		default:
			return fmt.Errorf("find rsvp: %w", err)
		}
		return nil
	})
	if err != nil {
		metrics.RecordRSVPOutcome(apperrors.Code(err))
		return nil, err
	}

	if created {
		metrics.RecordRSVPOutcome("created")
	} else {
		metrics.RecordRSVPOutcome("updated")
	}
	_ = s.cache.Delete(ctx, eventCacheKey(in.EventID))

	rsvp, err := s.rsvps.FindWithEvent(ctx, actor.UserID, in.EventID)
	if err != nil {
		return nil, fmt.Errorf("reload rsvp: %w", err)
	}

	logging.Ctx(ctx).Info().
		Uint("event_id", in.EventID).
		Uint("user_id", actor.UserID).
		Str("status", in.Status).
		Bool("created", created).
		Msg("rsvp recorded")
	return &RSVPResult{RSVP: rsvp, Created: created}, nil
}

// Cancel deletes the actor's RSVP for an event.
func (s *rsvpService) Cancel(ctx context.Context, actor Actor, eventID uint) error {
	n, err := s.rsvps.Delete(ctx, actor.UserID, eventID)
	if err != nil {
		return fmt.Errorf("delete rsvp: %w", err)
	}
	if n == 0 {
		return apperrors.ErrRSVPNotFound
	}
	_ = s.cache.Delete(ctx, eventCacheKey(eventID))
	return nil
}

func (s *rsvpService) GetMine(ctx context.Context, actor Actor, eventID uint) (*model.RSVPWithEvent, error) {
	rsvp, err := s.rsvps.FindWithEvent(ctx, actor.UserID, eventID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrRSVPNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find rsvp: %w", err)
	}
	return rsvp, nil
}

func (s *rsvpService) ListMine(ctx context.Context, actor Actor) ([]model.RSVPWithEvent, error) {
	return s.rsvps.ListByUser(ctx, actor.UserID)
}

// ListForEvent groups an event's responses by status, most recent first.
func (s *rsvpService) ListForEvent(ctx context.Context, eventID uint) (*model.EventRSVPs, error) {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}

	rows, err := s.rsvps.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}

	out := &model.EventRSVPs{
		Attending:    []model.RSVPWithUser{},
		Maybe:        []model.RSVPWithUser{},
		NotAttending: []model.RSVPWithUser{},
		Total:        len(rows),
	}
	for _, row := range rows {
		switch row.Status {
		case model.RSVPAttending:
			out.Attending = append(out.Attending, row)
		case model.RSVPMaybe:
			out.Maybe = append(out.Maybe, row)
		case model.RSVPNotAttending:
			out.NotAttending = append(out.NotAttending, row)
		}
	}
	return out, nil
}
