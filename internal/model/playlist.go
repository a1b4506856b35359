package model

import "time"

// DefaultItemDuration is the hard fallback (in seconds) when neither the
// playlist item, its media, nor the playlist itself declares a duration.
const DefaultItemDuration = 10

type Playlist struct {
	ID              int            `db:"id"               json:"id"`
	TenantID        int            `db:"tenant_id"        json:"tenant_id"`
	Name            string         `db:"name"             json:"name"`
	Description     *string        `db:"description"      json:"description,omitempty"`
	DefaultDuration *int           `db:"default_duration" json:"default_duration"`
	Transition      *string        `db:"transition"       json:"transition"`
	Shuffle         bool           `db:"shuffle"          json:"shuffle"`
	CreatedBy       int            `db:"created_by"       json:"created_by"`
	CreatedAt       time.Time      `db:"created_at"       json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"       json:"updated_at"`
	Items           []PlaylistItem `db:"-"                json:"items,omitempty"`
}

type PlaylistItem struct {
	ID         int       `db:"id"          json:"id"`
	PlaylistID int       `db:"playlist_id" json:"playlist_id"`
	MediaID    int       `db:"media_id"    json:"media_id"`
	Position   int       `db:"position"    json:"position"`
	Duration   *int      `db:"duration"    json:"duration,omitempty"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	Media      *Media    `db:"-"           json:"media,omitempty"`
}

type Media struct {
	ID        int       `db:"id"         json:"id"`
	TenantID  int       `db:"tenant_id"  json:"tenant_id"`
	Name      string    `db:"name"       json:"name"`
	Type      string    `db:"type"       json:"type"`
	URL       string    `db:"url"        json:"url"`
	Duration  *int      `db:"duration"   json:"duration,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
