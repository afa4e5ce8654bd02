package entity

import (
	"time"

	"availability-service/core/entity"

	"github.com/google/uuid"
)

// CalendarConnection stores an organizer's external calendar credentials.
// One row per (organizer, provider); tokens never leave the service.
type CalendarConnection struct {
	entity.BaseEntity
	OrganizerID    uuid.UUID  `db:"organizer_id" json:"organizer_id"`
	Provider       string     `db:"provider" json:"provider"`
	AccessToken    string     `db:"access_token" json:"-"`
	RefreshToken   string     `db:"refresh_token" json:"-"`
	TokenExpiresAt time.Time  `db:"token_expires_at" json:"token_expires_at"`
	CalendarID     string     `db:"calendar_id" json:"calendar_id"`
	LastSyncedAt   *time.Time `db:"last_synced_at" json:"last_synced_at,omitempty"`
	IsActive       bool       `db:"is_active" json:"is_active"`
}

func (CalendarConnection) TableName() string {
	return "calendar_connections"
}
