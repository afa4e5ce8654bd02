package entity

import (
	"time"

	"availability-service/core/entity"

	"github.com/google/uuid"
)

// Booking is a committed reservation. Only confirmed bookings constrain slot
// calculation (buffers, minimum gap, group capacity).
type Booking struct {
	entity.BaseEntity
	OrganizerID   uuid.UUID `db:"organizer_id" json:"organizer_id"`
	EventTypeID   uuid.UUID `db:"event_type_id" json:"event_type_id"`
	StartTime     time.Time `db:"start_time" json:"start_time"`
	EndTime       time.Time `db:"end_time" json:"end_time"`
	InviteeName   string    `db:"invitee_name" json:"invitee_name"`
	InviteeEmail  string    `db:"invitee_email" json:"invitee_email"`
	AttendeeCount int       `db:"attendee_count" json:"attendee_count"`
	Status        string    `db:"status" json:"status"`
}

func (Booking) TableName() string {
	return "bookings"
}

type PaginatedBookingEntity = entity.Pagination[Booking]
