package entity

import (
	"time"

	"availability-service/core/entity"

	"github.com/google/uuid"
)

// BlockedTime is a one-off blocked interval in absolute UTC. Rows with a
// non-manual source are written by the calendar sync and are read-only
// through the management API.
type BlockedTime struct {
	entity.BaseEntity
	OrganizerID       uuid.UUID  `db:"organizer_id" json:"organizer_id"`
	StartDatetime     time.Time  `db:"start_datetime" json:"start_datetime"`
	EndDatetime       time.Time  `db:"end_datetime" json:"end_datetime"`
	Reason            string     `db:"reason" json:"reason"`
	Source            string     `db:"source" json:"source"`
	ExternalID        *string    `db:"external_id" json:"external_id,omitempty"`
	ExternalUpdatedAt *time.Time `db:"external_updated_at" json:"external_updated_at,omitempty"`
	IsActive          bool       `db:"is_active" json:"is_active"`
}

func (BlockedTime) TableName() string {
	return "blocked_times"
}

func (b *BlockedTime) IsSynced() bool {
	return b.Source != "" && b.Source != "manual"
}
