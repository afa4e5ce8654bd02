package entity

import (
	"availability-service/core/entity"

	"github.com/google/uuid"
)

// EventType is a bookable meeting template. MaxAttendees above 1 makes it a
// group event, which changes the capacity check during slot calculation.
// The nullable buffer and interval fields override the organizer's
// BufferSettings when set.
type EventType struct {
	entity.BaseEntity
	OrganizerID         uuid.UUID `db:"organizer_id" json:"organizer_id"`
	Slug                string    `db:"slug" json:"slug"`
	Name                string    `db:"name" json:"name"`
	Description         string    `db:"description" json:"description"`
	DurationMinutes     int       `db:"duration_minutes" json:"duration_minutes"`
	MaxAttendees        int       `db:"max_attendees" json:"max_attendees"`
	BufferBefore        *int      `db:"buffer_before" json:"buffer_before,omitempty"`
	BufferAfter         *int      `db:"buffer_after" json:"buffer_after,omitempty"`
	SlotIntervalMinutes *int      `db:"slot_interval_minutes" json:"slot_interval_minutes,omitempty"`
	IsActive            bool      `db:"is_active" json:"is_active"`
}

func (EventType) TableName() string {
	return "event_types"
}

func (e *EventType) IsGroupEvent() bool {
	return e.MaxAttendees > 1
}
