package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"eventplanner/internal/model"
	"eventplanner/internal/repository"
)

// DemoEvent is one entry of a demo data file.
type DemoEvent struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	EventDate    time.Time `json:"eventDate"`
	Location     string    `json:"location"`
	MaxAttendees *int      `json:"maxAttendees,omitempty"`
}

// SeedResult counts what a seed run did.
type SeedResult struct {
	Created int `json:"created"`
	Existed int `json:"existed"`
	Skipped int `json:"skipped"`
}

// SeedService loads demo data.
type SeedService interface {
	SeedEvents(ctx context.Context, owner Actor, events []DemoEvent) (*SeedResult, error)
}

type seedService struct {
	events repository.EventRepository
	now    func() time.Time
}

// NewSeedService builds a SeedService.
func NewSeedService(events repository.EventRepository) SeedService {
	return &seedService{events: events, now: time.Now}
}

// SeedEvents creates each demo event owned by owner unless an event with the
// same title and date already exists. Entries without a title or location,
// or dated in the past, are skipped.
func (s *seedService) SeedEvents(ctx context.Context, owner Actor, events []DemoEvent) (*SeedResult, error) {
	res := &SeedResult{}
	now := s.now()
	for _, item := range events {
		title := strings.TrimSpace(item.Title)
		location := strings.TrimSpace(item.Location)
		if title == "" || location == "" || !item.EventDate.After(now) {
			res.Skipped++
			continue
		}
		if item.MaxAttendees != nil && *item.MaxAttendees < 1 {
			res.Skipped++
			continue
		}

		date := item.EventDate.UTC()
		_, err := s.events.FindByTitleAndDate(ctx, title, date)
		if err == nil {
			res.Existed++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return res, fmt.Errorf("check event %q: %w", title, err)
		}

		event := &model.Event{
			Title:        title,
			Description:  strings.TrimSpace(item.Description),
			EventDate:    date,
			Location:     location,
			MaxAttendees: item.MaxAttendees,
			CreatedBy:    owner.UserID,
			Status:       model.EventActive,
		}
		if err := s.events.Create(ctx, event); err != nil {
			return res, fmt.Errorf("create event %q: %w", title, err)
		}
		res.Created++
	}
	return res, nil
}
