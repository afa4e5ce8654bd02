package dto

const (
	ProviderGoogle  = "google"
	ProviderOutlook = "outlook"
)

// ConnectGoogleRequest registers (or replaces) an organizer's Google
// Calendar connection. The refresh token comes from an offline-access OAuth
// grant performed outside this service.
type ConnectGoogleRequest struct {
	RefreshToken   string `json:"refresh_token"`
	AccessToken    string `json:"access_token"`
	TokenExpiresAt string `json:"token_expires_at"` // RFC3339, optional
	CalendarID     string `json:"calendar_id"`      // defaults to "primary"
}

type CalendarConnectionResponse struct {
	ID           string  `json:"id"`
	Provider     string  `json:"provider"`
	CalendarID   string  `json:"calendar_id"`
	IsActive     bool    `json:"is_active"`
	LastSyncedAt *string `json:"last_synced_at,omitempty"`
	ConnectedAt  string  `json:"connected_at"`
}

// SyncRunResponse reports what one sync pass did.
type SyncRunResponse struct {
	OrganizerSlug string `json:"organizer_slug"`
	Provider      string `json:"provider"`
	BusyIntervals int    `json:"busy_intervals"`
	Upserted      int    `json:"upserted"`
	Removed       int64  `json:"removed"`
	SyncedAt      string `json:"synced_at"`
}
