package entity

import (
	"time"

	"availability-service/core/entity"

	"github.com/google/uuid"
)

// RecurringBlockedTime is a weekly recurring block (a lunch break, a standing
// meeting). StartDate/EndDate bound its validity when set; nil means open.
type RecurringBlockedTime struct {
	entity.BaseEntity
	OrganizerID uuid.UUID  `db:"organizer_id" json:"organizer_id"`
	Name        string     `db:"name" json:"name"`
	DayOfWeek   int        `db:"day_of_week" json:"day_of_week"`
	StartTime   string     `db:"start_time" json:"start_time"`
	EndTime     string     `db:"end_time" json:"end_time"`
	StartDate   *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate     *time.Time `db:"end_date" json:"end_date,omitempty"`
	IsActive    bool       `db:"is_active" json:"is_active"`
}

func (RecurringBlockedTime) TableName() string {
	return "recurring_blocked_times"
}

func (r *RecurringBlockedTime) SpansMidnight() bool {
	return r.EndTime < r.StartTime
}

// AppliesOn reports whether the block is in force on the given calendar date
// (weekday match is checked separately by the caller).
func (r *RecurringBlockedTime) AppliesOn(date time.Time) bool {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	if r.StartDate != nil {
		sd := r.StartDate
		if day.Before(time.Date(sd.Year(), sd.Month(), sd.Day(), 0, 0, 0, 0, time.UTC)) {
			return false
		}
	}
	if r.EndDate != nil {
		ed := r.EndDate
		if day.After(time.Date(ed.Year(), ed.Month(), ed.Day(), 0, 0, 0, 0, time.UTC)) {
			return false
		}
	}
	return true
}
