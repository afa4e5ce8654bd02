package entity

import (
	"availability-service/core/entity"

	"github.com/google/uuid"
)

// BufferSettings is the single per-organizer record of buffer and slot
// granularity defaults. Event types may override the buffers and interval.
type BufferSettings struct {
	entity.BaseEntity
	OrganizerID         uuid.UUID `db:"organizer_id" json:"organizer_id"`
	DefaultBufferBefore int       `db:"default_buffer_before" json:"default_buffer_before"`
	DefaultBufferAfter  int       `db:"default_buffer_after" json:"default_buffer_after"`
	MinimumGap          int       `db:"minimum_gap" json:"minimum_gap"`
	SlotIntervalMinutes int       `db:"slot_interval_minutes" json:"slot_interval_minutes"`
}

func (BufferSettings) TableName() string {
	return "buffer_settings"
}
