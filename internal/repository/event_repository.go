package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eventplanner/internal/model"
)

// EventFilter narrows ListActive.
type EventFilter struct {
	// Search is matched case-insensitively against title, description and location.
	Search string
	// After, when set, keeps only events scheduled strictly later.
	After *time.Time
}

// EventRepository defines event persistence operations.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id uint) (*model.Event, error)
	FindListing(ctx context.Context, id uint) (*model.EventListing, error)
	ListActive(ctx context.Context, filter EventFilter) ([]model.EventListing, error)
	ListByCreator(ctx context.Context, userID uint) ([]model.EventListing, error)
	// UpdateOwned and DeleteOwned match on id and, unless asAdmin, on
	// created_by. They return the number of affected rows.
	UpdateOwned(ctx context.Context, id, ownerID uint, asAdmin bool, values map[string]interface{}) (int64, error)
	DeleteOwned(ctx context.Context, id, ownerID uint, asAdmin bool) (int64, error)
	CountAttending(ctx context.Context, eventID uint) (int64, error)
	FindByTitleAndDate(ctx context.Context, title string, date time.Time) (*model.Event, error)
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo EventRepository) error) error
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// Create creates a new event.
func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(event).Error
}

// FindByID finds an event by ID regardless of status.
func (r *eventRepository) FindByID(ctx context.Context, id uint) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// listingQuery selects events with their live attending count and creator username.
func (r *eventRepository) listingQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("events").
		Select("events.*, users.username AS creator_username, "+
			"(SELECT COUNT(*) FROM rsvps WHERE rsvps.event_id = events.id AND rsvps.status = ?) AS attendee_count",
			model.RSVPAttending).
		Joins("JOIN users ON users.id = events.created_by")
}

// FindListing finds one event with its listing annotations.
func (r *eventRepository) FindListing(ctx context.Context, id uint) (*model.EventListing, error) {
	var listings []model.EventListing
	if err := r.listingQuery(ctx).Where("events.id = ?", id).Limit(1).Scan(&listings).Error; err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &listings[0], nil
}

// ListActive lists active events ordered by date.
func (r *eventRepository) ListActive(ctx context.Context, filter EventFilter) ([]model.EventListing, error) {
	q := r.listingQuery(ctx).Where("events.status = ?", model.EventActive)
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(events.title) LIKE ? OR LOWER(events.description) LIKE ? OR LOWER(events.location) LIKE ?)",
			pattern, pattern, pattern)
	}
	if filter.After != nil {
		q = q.Where("events.event_date > ?", *filter.After)
	}

	listings := []model.EventListing{}
	if err := q.Order("events.event_date ASC, events.id ASC").Scan(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// ListByCreator lists every event a user created, in any status.
func (r *eventRepository) ListByCreator(ctx context.Context, userID uint) ([]model.EventListing, error) {
	listings := []model.EventListing{}
	if err := r.listingQuery(ctx).
		Where("events.created_by = ?", userID).
		Order("events.event_date ASC, events.id ASC").
		Scan(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *eventRepository) ownedScope(id, ownerID uint, asAdmin bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("id = ?", id)
		if !asAdmin {
			db = db.Where("created_by = ?", ownerID)
		}
		return db
	}
}

// UpdateOwned updates an event the caller may modify.
func (r *eventRepository) UpdateOwned(ctx context.Context, id, ownerID uint, asAdmin bool, values map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Event{}).
		Scopes(r.ownedScope(id, ownerID, asAdmin)).
		Updates(values)
	return res.RowsAffected, res.Error
}

// DeleteOwned deletes an event the caller may modify. RSVPs cascade.
func (r *eventRepository) DeleteOwned(ctx context.Context, id, ownerID uint, asAdmin bool) (int64, error) {
	res := r.db.WithContext(ctx).
		Scopes(r.ownedScope(id, ownerID, asAdmin)).
		Delete(&model.Event{})
	return res.RowsAffected, res.Error
}

// CountAttending counts attending RSVPs for an event.
func (r *eventRepository) CountAttending(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RSVP{}).
		Where("event_id = ? AND status = ?", eventID, model.RSVPAttending).
		Count(&count).Error
	return count, err
}

// FindByTitleAndDate finds an event by its title and scheduled time.
func (r *eventRepository) FindByTitleAndDate(ctx context.Context, title string, date time.Time) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).
		Where("title = ? AND event_date = ?", title, date).
		First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// WithTransaction executes a function within a database transaction.
func (r *eventRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo EventRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &eventRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
