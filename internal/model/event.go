package model

import "time"

// Event statuses.
const (
	EventActive    = "active"
	EventCancelled = "cancelled"
	EventCompleted = "completed"
)

// Event is a scheduled gathering owned by its creator.
type Event struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title" gorm:"size:200;not null"`
	Description  string    `json:"description" gorm:"type:text"`
	EventDate    time.Time `json:"eventDate" gorm:"not null;index"`
	Location     string    `json:"location" gorm:"size:255;not null"`
	MaxAttendees *int      `json:"maxAttendees"`
	CreatedBy    uint      `json:"createdBy" gorm:"not null;index"`
	Status       string    `json:"status" gorm:"size:20;not null;default:'active';index"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Relations
	Creator *User `json:"-" gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE"`
}

// IsActive reports whether the event still accepts responses.
func (e *Event) IsActive() bool {
	return e.Status == EventActive
}

// HasCapacity reports whether the event caps attendance.
func (e *Event) HasCapacity() bool {
	return e.MaxAttendees != nil
}

// EventListing is an event annotated with its live attending count and the
// creator's username.
type EventListing struct {
	Event
	AttendeeCount   int64  `json:"attendeeCount"`
	CreatorUsername string `json:"creatorUsername"`
}

// EventDetail is a listing plus the caller's own response, when signed in.
type EventDetail struct {
	EventListing
	MyRSVP *RSVP `json:"myRsvp,omitempty"`
}
