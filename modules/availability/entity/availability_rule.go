package entity

import (
	"availability-service/core/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AvailabilityRule is a recurring weekly window in the organizer's local
// time. DayOfWeek runs 0=Monday through 6=Sunday. StartTime and EndTime are
// wall-clock "HH:MM"; EndTime before StartTime means the window continues
// past midnight into the following day.
type AvailabilityRule struct {
	entity.BaseEntity
	OrganizerID uuid.UUID `db:"organizer_id" json:"organizer_id"`
	DayOfWeek   int       `db:"day_of_week" json:"day_of_week"`
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	// EventTypeIDs restricts the rule to the listed event types. Empty means
	// the rule applies to every event type of the organizer.
	EventTypeIDs pq.StringArray `db:"event_type_ids" json:"event_type_ids"`
	IsActive     bool           `db:"is_active" json:"is_active"`
}

func (AvailabilityRule) TableName() string {
	return "availability_rules"
}

// AppliesToEventType reports whether the rule covers the given event type.
func (r *AvailabilityRule) AppliesToEventType(eventTypeID uuid.UUID) bool {
	if len(r.EventTypeIDs) == 0 {
		return true
	}
	id := eventTypeID.String()
	for _, v := range r.EventTypeIDs {
		if v == id {
			return true
		}
	}
	return false
}

// SpansMidnight reports whether the window wraps past midnight. Times are
// zero-padded "HH:MM" so string order matches clock order.
func (r *AvailabilityRule) SpansMidnight() bool {
	return r.EndTime < r.StartTime
}
