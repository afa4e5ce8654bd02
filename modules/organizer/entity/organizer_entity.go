package entity

import (
	"availability-service/core/entity"
)

// Organizer is the account whose schedule is queried through the public
// endpoint. Slug is the public identifier; Timezone anchors all weekly rules
// and overrides.
type Organizer struct {
	entity.BaseEntity
	Slug     string `db:"slug" json:"slug"`
	Name     string `db:"name" json:"name"`
	Email    string `db:"email" json:"email"`
	Timezone string `db:"timezone" json:"timezone"`
	// Reasonable hours bound the fairness scoring window for multi-timezone
	// requests (local start hour within [start, end] counts as reasonable).
	ReasonableHoursStart int  `db:"reasonable_hours_start" json:"reasonable_hours_start"`
	ReasonableHoursEnd   int  `db:"reasonable_hours_end" json:"reasonable_hours_end"`
	IsActive             bool `db:"is_active" json:"is_active"`
}

func (Organizer) TableName() string {
	return "organizers"
}

type PaginatedOrganizerEntity = entity.Pagination[Organizer]
