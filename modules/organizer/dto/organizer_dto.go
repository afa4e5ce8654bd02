package dto

// ===================== Request DTOs =====================

// CreateOrganizerRequest registers a bookable account. Timezone must be a
// valid IANA name; it anchors every weekly rule the organizer creates.
type CreateOrganizerRequest struct {
	Name                 string `json:"name" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Timezone             string `json:"timezone" validate:"required"`
	ReasonableHoursStart *int   `json:"reasonable_hours_start"`
	ReasonableHoursEnd   *int   `json:"reasonable_hours_end"`
}

type UpdateOrganizerRequest struct {
	Name                 *string `json:"name"`
	Email                *string `json:"email"`
	Timezone             *string `json:"timezone"`
	ReasonableHoursStart *int    `json:"reasonable_hours_start"`
	ReasonableHoursEnd   *int    `json:"reasonable_hours_end"`
	IsActive             *bool   `json:"is_active"`
}

type CreateEventTypeRequest struct {
	Name                string `json:"name" validate:"required"`
	Description         string `json:"description"`
	DurationMinutes     int    `json:"duration_minutes" validate:"required,min=5,max=480"`
	MaxAttendees        int    `json:"max_attendees" validate:"min=1"`
	BufferBefore        *int   `json:"buffer_before"`
	BufferAfter         *int   `json:"buffer_after"`
	SlotIntervalMinutes *int   `json:"slot_interval_minutes"`
}

type UpdateEventTypeRequest struct {
	Name                *string `json:"name"`
	Description         *string `json:"description"`
	DurationMinutes     *int    `json:"duration_minutes"`
	MaxAttendees        *int    `json:"max_attendees"`
	BufferBefore        *int    `json:"buffer_before"`
	BufferAfter         *int    `json:"buffer_after"`
	SlotIntervalMinutes *int    `json:"slot_interval_minutes"`
	IsActive            *bool   `json:"is_active"`
}

// ===================== Response DTOs =====================

type OrganizerResponse struct {
	ID                   string `json:"id"`
	Slug                 string `json:"slug"`
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Timezone             string `json:"timezone"`
	ReasonableHoursStart int    `json:"reasonable_hours_start"`
	ReasonableHoursEnd   int    `json:"reasonable_hours_end"`
	IsActive             bool   `json:"is_active"`
	CreatedAt            string `json:"created_at"`
}

type EventTypeResponse struct {
	ID                  string `json:"id"`
	Slug                string `json:"slug"`
	Name                string `json:"name"`
	Description         string `json:"description,omitempty"`
	DurationMinutes     int    `json:"duration_minutes"`
	MaxAttendees        int    `json:"max_attendees"`
	BufferBefore        *int   `json:"buffer_before,omitempty"`
	BufferAfter         *int   `json:"buffer_after,omitempty"`
	SlotIntervalMinutes *int   `json:"slot_interval_minutes,omitempty"`
	IsActive            bool   `json:"is_active"`
	CreatedAt           string `json:"created_at"`
}
