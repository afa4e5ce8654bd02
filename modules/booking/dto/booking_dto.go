package dto

// CreateBookingRequest books one slot for an invitee. StartTime is RFC3339;
// the end time is derived from the event type duration.
type CreateBookingRequest struct {
	EventTypeSlug string `json:"event_type_slug" validate:"required"`
	StartTime     string `json:"start_time" validate:"required"`
	InviteeName   string `json:"invitee_name" validate:"required"`
	InviteeEmail  string `json:"invitee_email" validate:"required,email"`
	AttendeeCount int    `json:"attendee_count"`
}

type BookingResponse struct {
	ID            string `json:"id"`
	OrganizerID   string `json:"organizer_id"`
	EventTypeID   string `json:"event_type_id"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	InviteeName   string `json:"invitee_name"`
	InviteeEmail  string `json:"invitee_email"`
	AttendeeCount int    `json:"attendee_count"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}
