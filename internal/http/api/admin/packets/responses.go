package packets

import "time"

type EmergencyResponse struct {
	ID              int       `json:"id"`
	ContentType     string    `json:"content_type"`
	ContentID       int       `json:"content_id"`
	StartedAt       time.Time `json:"started_at"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	Active          bool      `json:"active"`
}

type DeviceStatusResponse struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Location     *string    `json:"location,omitempty"`
	Paired       bool       `json:"paired"`
	GroupID      *int       `json:"group_id,omitempty"`
	Timezone     string     `json:"timezone"`
	Language     string     `json:"language"`
	CacheStatus  string     `json:"cache_status"`
	LastSeenAt   *time.Time `json:"last_seen_at,omitempty"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	OfflineSince *time.Time `json:"offline_since,omitempty"`
	Online       bool       `json:"online"`
}

type PairingCodeResponse struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
