package constants

import "time"

// Database pool settings
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 10
	DatabaseConnMaxLifetime = 30 // minutes
)

// Timeouts
const (
	DefaultTimeout  = 10 * time.Second
	ShutdownTimeout = 15 * time.Second
)

// Token scopes
const (
	ScopeTokenAccess = "access"
)

// Context keys
const (
	ContextTokenData = "token_data"
)

// Redis key prefixes
const (
	RedisKeySlotCache       = "slots"
	RedisKeySlotVersion     = "slots:version"
	RedisKeyPrecomputeState = "slots:precompute"
)

// Slot calculation limits and defaults
const (
	MaxDateRangeDays            = 90
	DefaultSlotIntervalMinutes  = 30
	DefaultAttendeeCount        = 1
	DefaultInviteeTimezone      = "UTC"
	DefaultReasonableHoursStart = 7
	DefaultReasonableHoursEnd   = 22
	SlotCacheTTL                = 10 * time.Minute
)

// Background work
const (
	TaskTypePrecomputeSlots = "availability:precompute"
	TaskTypeCalendarSync    = "calendar:sync"
	SyncHorizonDays         = 30
)

// PrecomputeRangeDays are the range lengths, in days from today, warmed by
// the precompute task.
var PrecomputeRangeDays = []int{7, 14, 30}

// Blocked time sources
const (
	BlockSourceManual  = "manual"
	BlockSourceGoogle  = "google"
	BlockSourceOutlook = "outlook"
)

// Booking statuses
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)
