package model

import "time"

// RSVP statuses.
const (
	RSVPAttending    = "attending"
	RSVPMaybe        = "maybe"
	RSVPNotAttending = "not_attending"
)

// RSVP is one user's response to one event. A user holds at most one RSVP
// per event.
type RSVP struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"userId" gorm:"not null;uniqueIndex:idx_rsvps_user_event"`
	EventID     uint      `json:"eventId" gorm:"not null;uniqueIndex:idx_rsvps_user_event;index"`
	Status      string    `json:"status" gorm:"size:20;not null;index"`
	Notes       string    `json:"notes" gorm:"size:500"`
	RespondedAt time.Time `json:"respondedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relations
	User  *User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Event *Event `json:"-" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

// TableName keeps the table name stable regardless of naming strategy.
func (RSVP) TableName() string {
	return "rsvps"
}

// ValidRSVPStatus reports whether s is one of the three response statuses.
func ValidRSVPStatus(s string) bool {
	switch s {
	case RSVPAttending, RSVPMaybe, RSVPNotAttending:
		return true
	}
	return false
}

// RSVPWithEvent is an RSVP joined with the fields of its event.
type RSVPWithEvent struct {
	RSVP
	EventTitle    string    `json:"eventTitle"`
	EventDate     time.Time `json:"eventDate"`
	EventLocation string    `json:"eventLocation"`
	EventStatus   string    `json:"eventStatus"`
}

// RSVPWithUser is an RSVP joined with the responder's public profile.
type RSVPWithUser struct {
	RSVP
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// EventRSVPs groups an event's responses by status.
type EventRSVPs struct {
	Attending    []RSVPWithUser `json:"attending"`
	Maybe        []RSVPWithUser `json:"maybe"`
	NotAttending []RSVPWithUser `json:"notAttending"`
	Total        int            `json:"total"`
}
