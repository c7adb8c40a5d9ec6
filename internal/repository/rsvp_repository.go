package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eventplanner/internal/model"
)

// RSVPRepository defines RSVP persistence operations.
type RSVPRepository interface {
	// LockActiveEvent reads an active event and holds a row lock on it until
	// the surrounding transaction ends.
	LockActiveEvent(ctx context.Context, eventID uint) (*model.Event, error)
	// CountAttendingExcluding counts attending RSVPs for an event, ignoring
	// the given user's own response.
	CountAttendingExcluding(ctx context.Context, eventID, userID uint) (int64, error)
	FindByUserAndEvent(ctx context.Context, userID, eventID uint) (*model.RSVP, error)
	Create(ctx context.Context, rsvp *model.RSVP) error
	Update(ctx context.Context, rsvp *model.RSVP) error
	Delete(ctx context.Context, userID, eventID uint) (int64, error)
	FindWithEvent(ctx context.Context, userID, eventID uint) (*model.RSVPWithEvent, error)
	ListByUser(ctx context.Context, userID uint) ([]model.RSVPWithEvent, error)
	ListByEvent(ctx context.Context, eventID uint) ([]model.RSVPWithUser, error)
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo RSVPRepository) error) error
}

type rsvpRepository struct {
	db *gorm.DB
}

// NewRSVPRepository creates a new RSVP repository.
func NewRSVPRepository(db *gorm.DB) RSVPRepository {
	return &rsvpRepository{db: db}
}

// LockActiveEvent selects the event FOR UPDATE. The sqlite dialect drops the
// locking clause; its single writer serializes transactions instead.
func (r *rsvpRepository) LockActiveEvent(ctx context.Context, eventID uint) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND status = ?", eventID, model.EventActive).
		First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *rsvpRepository) CountAttendingExcluding(ctx context.Context, eventID, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RSVP{}).
		Where("event_id = ? AND status = ? AND user_id <> ?", eventID, model.RSVPAttending, userID).
		Count(&count).Error
	return count, err
}

func (r *rsvpRepository) FindByUserAndEvent(ctx context.Context, userID, eventID uint) (*model.RSVP, error) {
	var rsvp model.RSVP
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&rsvp).Error; err != nil {
		return nil, err
	}
	return &rsvp, nil
}

func (r *rsvpRepository) Create(ctx context.Context, rsvp *model.RSVP) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(rsvp).Error
}

// Update writes the response fields of an existing RSVP.
func (r *rsvpRepository) Update(ctx context.Context, rsvp *model.RSVP) error {
	return r.db.WithContext(ctx).Model(rsvp).
		Select("status", "notes", "responded_at", "updated_at").
		Updates(rsvp).Error
}

func (r *rsvpRepository) Delete(ctx context.Context, userID, eventID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Delete(&model.RSVP{})
	return res.RowsAffected, res.Error
}

func (r *rsvpRepository) withEventQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("rsvps").
		Select("rsvps.*, events.title AS event_title, events.event_date AS event_date, " +
			"events.location AS event_location, events.status AS event_status").
		Joins("JOIN events ON events.id = rsvps.event_id")
}

func (r *rsvpRepository) FindWithEvent(ctx context.Context, userID, eventID uint) (*model.RSVPWithEvent, error) {
	var rows []model.RSVPWithEvent
	if err := r.withEventQuery(ctx).
		Where("rsvps.user_id = ? AND rsvps.event_id = ?", userID, eventID).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

// ListByUser lists a user's responses ordered by event date.
func (r *rsvpRepository) ListByUser(ctx context.Context, userID uint) ([]model.RSVPWithEvent, error) {
	rows := []model.RSVPWithEvent{}
	if err := r.withEventQuery(ctx).
		Where("rsvps.user_id = ?", userID).
		Order("events.event_date ASC, rsvps.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByEvent lists an event's responses, most recent first.
func (r *rsvpRepository) ListByEvent(ctx context.Context, eventID uint) ([]model.RSVPWithUser, error) {
	rows := []model.RSVPWithUser{}
	if err := r.db.WithContext(ctx).
		Table("rsvps").
		Select("rsvps.*, users.username AS username, users.first_name AS first_name, users.last_name AS last_name").
		Joins("JOIN users ON users.id = rsvps.user_id").
		Where("rsvps.event_id = ?", eventID).
		Order("rsvps.responded_at DESC, rsvps.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// WithTransaction executes a function within a database transaction.
func (r *rsvpRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo RSVPRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &rsvpRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
