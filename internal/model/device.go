package model

import "time"

// CacheStatus is a device's self-reported content freshness, distinct from
// online/offline connectivity.
type CacheStatus string

const (
	CacheStatusNone  CacheStatus = "none"
	CacheStatusOK    CacheStatus = "ok"
	CacheStatusStale CacheStatus = "stale"
	CacheStatusError CacheStatus = "error"
)

// Device represents a paired display device in the system.
type Device struct {
	ID              int     `db:"id"                json:"id"`
	TenantID        int     `db:"tenant_id"         json:"tenant_id"`
	DeviceID        *string `db:"device_id"         json:"device_id"`
	Name            string  `db:"name"              json:"name"`
	Location        *string `db:"location"          json:"location"`
	Paired          bool    `db:"paired"            json:"paired"`
	GroupID         *int    `db:"group_id"          json:"group_id"`
	OverrideSceneID *int    `db:"override_scene_id" json:"override_scene_id"`
	LayoutID        *int    `db:"layout_id"         json:"layout_id"`
	PlaylistID      *int    `db:"playlist_id"       json:"playlist_id"`
	SceneScheduleID *int    `db:"scene_schedule_id" json:"scene_schedule_id"`
	ScheduleID      *int    `db:"schedule_id"       json:"schedule_id"`
	Timezone        string  `db:"timezone"          json:"timezone"`
	Language        string  `db:"language"          json:"language"`

	CachedSceneID     *int        `db:"cached_scene_id"     json:"cached_scene_id"`
	CachedContentHash *string     `db:"cached_content_hash" json:"cached_content_hash"`
	CachedMediaHash   *string     `db:"cached_media_hash"   json:"cached_media_hash"`
	CacheStatus       CacheStatus `db:"cache_status"        json:"cache_status"`
	LastSyncedAt      *time.Time  `db:"last_synced_at"      json:"last_synced_at"`

	LastSeenAt   *time.Time `db:"last_seen_at"  json:"last_seen_at"`
	OfflineSince *time.Time `db:"offline_since" json:"offline_since"`

	CreatedBy int       `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type ScreenGroup struct {
	ID              int       `db:"id"                json:"id"`
	TenantID        int       `db:"tenant_id"         json:"tenant_id"`
	Name            string    `db:"name"              json:"name"`
	Description     *string   `db:"description"       json:"description,omitempty"`
	OverrideSceneID *int      `db:"override_scene_id" json:"override_scene_id"`
	CreatedBy       int       `db:"created_by"        json:"created_by"`
	CreatedAt       time.Time `db:"created_at"        json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"        json:"updated_at"`
}
