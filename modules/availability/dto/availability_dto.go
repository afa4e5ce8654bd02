package dto

// ===================== Request DTOs =====================

// CalculatedSlotsQuery carries the raw query parameters of the public
// calculated-slots endpoint. Parsing and validation happen in the service.
type CalculatedSlotsQuery struct {
	OrganizerSlug    string `query:"-"`
	EventTypeSlug    string `query:"event_type_slug"`
	StartDate        string `query:"start_date"` // YYYY-MM-DD
	EndDate          string `query:"end_date"`   // YYYY-MM-DD
	InviteeTimezone  string `query:"invitee_timezone"`
	AttendeeCount    string `query:"attendee_count"`
	InviteeTimezones string `query:"invitee_timezones"` // comma separated
}

// CreateAvailabilityRuleRequest for adding a weekly rule. DayOfWeek is a
// pointer because 0 (Monday) is a valid value.
type CreateAvailabilityRuleRequest struct {
	DayOfWeek    *int     `json:"day_of_week" validate:"required,min=0,max=6"`
	StartTime    string   `json:"start_time" validate:"required"` // HH:MM
	EndTime      string   `json:"end_time" validate:"required"`   // HH:MM
	EventTypeIDs []string `json:"event_type_ids"`
	IsActive     *bool    `json:"is_active"`
}

// UpdateAvailabilityRuleRequest mirrors the create shape; nil fields keep
// their current value.
type UpdateAvailabilityRuleRequest struct {
	DayOfWeek    *int      `json:"day_of_week"`
	StartTime    *string   `json:"start_time"`
	EndTime      *string   `json:"end_time"`
	EventTypeIDs *[]string `json:"event_type_ids"`
	IsActive     *bool     `json:"is_active"`
}

// CreateDateOverrideRequest pins one date. StartTime/EndTime are required
// when IsAvailable is true.
type CreateDateOverrideRequest struct {
	Date         string   `json:"date" validate:"required"` // YYYY-MM-DD
	IsAvailable  bool     `json:"is_available"`
	StartTime    *string  `json:"start_time"`
	EndTime      *string  `json:"end_time"`
	Reason       string   `json:"reason"`
	EventTypeIDs []string `json:"event_type_ids"`
	IsActive     *bool    `json:"is_active"`
}

type UpdateDateOverrideRequest struct {
	Date         *string   `json:"date"`
	IsAvailable  *bool     `json:"is_available"`
	StartTime    *string   `json:"start_time"`
	EndTime      *string   `json:"end_time"`
	Reason       *string   `json:"reason"`
	EventTypeIDs *[]string `json:"event_type_ids"`
	IsActive     *bool     `json:"is_active"`
}

type CreateRecurringBlockRequest struct {
	Name      string  `json:"name" validate:"required"`
	DayOfWeek *int    `json:"day_of_week" validate:"required,min=0,max=6"`
	StartTime string  `json:"start_time" validate:"required"`
	EndTime   string  `json:"end_time" validate:"required"`
	StartDate *string `json:"start_date"` // YYYY-MM-DD
	EndDate   *string `json:"end_date"`
	IsActive  *bool   `json:"is_active"`
}

type UpdateRecurringBlockRequest struct {
	Name      *string `json:"name"`
	DayOfWeek *int    `json:"day_of_week"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	IsActive  *bool   `json:"is_active"`
}

// CreateBlockedTimeRequest adds a one-off block. Times are RFC3339; only
// manual blocks can be created here.
type CreateBlockedTimeRequest struct {
	StartDatetime string `json:"start_datetime" validate:"required"`
	EndDatetime   string `json:"end_datetime" validate:"required"`
	Reason        string `json:"reason"`
	IsActive      *bool  `json:"is_active"`
}

type UpdateBlockedTimeRequest struct {
	StartDatetime *string `json:"start_datetime"`
	EndDatetime   *string `json:"end_datetime"`
	Reason        *string `json:"reason"`
	IsActive      *bool   `json:"is_active"`
}

type UpdateBufferSettingsRequest struct {
	DefaultBufferBefore *int `json:"default_buffer_before" validate:"min=0,max=240"`
	DefaultBufferAfter  *int `json:"default_buffer_after" validate:"min=0,max=240"`
	MinimumGap          *int `json:"minimum_gap" validate:"min=0,max=240"`
	SlotIntervalMinutes *int `json:"slot_interval_minutes" validate:"min=5,max=240"`
}

// ===================== Response DTOs =====================

// SlotInviteeTime is one timezone's projection of a slot in multi-invitee
// responses.
type SlotInviteeTime struct {
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	StartHour    int    `json:"start_hour"`
	EndHour      int    `json:"end_hour"`
	IsReasonable bool   `json:"is_reasonable"`
}

// AvailableSlotResponse is one bookable slot. StartTime/EndTime are UTC
// ISO-8601; the invitee fields appear only in multi-invitee mode.
type AvailableSlotResponse struct {
	StartTime       string                     `json:"start_time"`
	EndTime         string                     `json:"end_time"`
	DurationMinutes int                        `json:"duration_minutes"`
	LocalStartTime  string                     `json:"local_start_time,omitempty"`
	LocalEndTime    string                     `json:"local_end_time,omitempty"`
	IsDST           *bool                      `json:"is_dst,omitempty"`
	InviteeTimes    map[string]SlotInviteeTime `json:"invitee_times,omitempty"`
	FairnessScore   *float64                   `json:"fairness_score,omitempty"`
}

type PerformanceMetrics struct {
	Duration             float64 `json:"duration"` // seconds
	TotalSlotsCalculated int     `json:"total_slots_calculated"`
	DateRangeDays        int     `json:"date_range_days"`
}

type CalculatedSlotsResponse struct {
	OrganizerSlug      string                  `json:"organizer_slug"`
	EventTypeSlug      string                  `json:"event_type_slug"`
	StartDate          string                  `json:"start_date"`
	EndDate            string                  `json:"end_date"`
	InviteeTimezone    string                  `json:"invitee_timezone"`
	AttendeeCount      int                     `json:"attendee_count"`
	AvailableSlots     []AvailableSlotResponse `json:"available_slots"`
	CacheHit           bool                    `json:"cache_hit"`
	TotalSlots         int                     `json:"total_slots"`
	ComputationTimeMs  float64                 `json:"computation_time_ms"`
	Warnings           []string                `json:"warnings,omitempty"`
	MultiInviteeMode   bool                    `json:"multi_invitee_mode"`
	PerformanceMetrics *PerformanceMetrics     `json:"performance_metrics,omitempty"`
}

type AvailabilityRuleResponse struct {
	ID            string   `json:"id"`
	DayOfWeek     int      `json:"day_of_week"`
	StartTime     string   `json:"start_time"`
	EndTime       string   `json:"end_time"`
	EventTypeIDs  []string `json:"event_type_ids"`
	IsActive      bool     `json:"is_active"`
	SpansMidnight bool     `json:"spans_midnight"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

type DateOverrideResponse struct {
	ID           string   `json:"id"`
	Date         string   `json:"date"`
	IsAvailable  bool     `json:"is_available"`
	StartTime    *string  `json:"start_time,omitempty"`
	EndTime      *string  `json:"end_time,omitempty"`
	Reason       string   `json:"reason,omitempty"`
	EventTypeIDs []string `json:"event_type_ids"`
	IsActive     bool     `json:"is_active"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type RecurringBlockResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	DayOfWeek int     `json:"day_of_week"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	IsActive  bool    `json:"is_active"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type BlockedTimeResponse struct {
	ID            string  `json:"id"`
	StartDatetime string  `json:"start_datetime"`
	EndDatetime   string  `json:"end_datetime"`
	Reason        string  `json:"reason,omitempty"`
	Source        string  `json:"source"`
	ExternalID    *string `json:"external_id,omitempty"`
	IsActive      bool    `json:"is_active"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type BufferSettingsResponse struct {
	DefaultBufferBefore int    `json:"default_buffer_before"`
	DefaultBufferAfter  int    `json:"default_buffer_after"`
	MinimumGap          int    `json:"minimum_gap"`
	SlotIntervalMinutes int    `json:"slot_interval_minutes"`
	UpdatedAt           string `json:"updated_at,omitempty"`
}

// AvailabilityStatsResponse summarizes one organizer's configured schedule.
type AvailabilityStatsResponse struct {
	TotalRules           int                `json:"total_rules"`
	ActiveRules          int                `json:"active_rules"`
	TotalOverrides       int                `json:"total_overrides"`
	TotalBlocks          int                `json:"total_blocks"`
	TotalRecurringBlocks int                `json:"total_recurring_blocks"`
	AverageWeeklyHours   float64            `json:"average_weekly_hours"`
	BusiestDay           string             `json:"busiest_day"`
	DailyHours           map[string]float64 `json:"daily_hours"`
}

type CacheClearResponse struct {
	OrganizerSlug string `json:"organizer_slug"`
	Cleared       bool   `json:"cleared"`
}

type PrecomputeResponse struct {
	OrganizerSlug string `json:"organizer_slug"`
	Enqueued      bool   `json:"enqueued"`
	TaskID        string `json:"task_id,omitempty"`
}
