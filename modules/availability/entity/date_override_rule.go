package entity

import (
	"time"

	"availability-service/core/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// DateOverrideRule pins the availability of one calendar date. An active
// override fully replaces the weekly rules for its date: either the whole
// date is unavailable, or exactly the given window applies.
type DateOverrideRule struct {
	entity.BaseEntity
	OrganizerID uuid.UUID `db:"organizer_id" json:"organizer_id"`
	Date        time.Time `db:"date" json:"date"`
	IsAvailable bool      `db:"is_available" json:"is_available"`
	// StartTime/EndTime are required when IsAvailable, "HH:MM" local.
	StartTime    *string        `db:"start_time" json:"start_time,omitempty"`
	EndTime      *string        `db:"end_time" json:"end_time,omitempty"`
	Reason       string         `db:"reason" json:"reason"`
	EventTypeIDs pq.StringArray `db:"event_type_ids" json:"event_type_ids"`
	IsActive     bool           `db:"is_active" json:"is_active"`
}

func (DateOverrideRule) TableName() string {
	return "date_override_rules"
}

func (o *DateOverrideRule) AppliesToEventType(eventTypeID uuid.UUID) bool {
	if len(o.EventTypeIDs) == 0 {
		return true
	}
	id := eventTypeID.String()
	for _, v := range o.EventTypeIDs {
		if v == id {
			return true
		}
	}
	return false
}
