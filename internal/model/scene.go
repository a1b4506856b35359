package model

import (
	"encoding/json"
	"time"
)

// Scene is the primary schedulable content unit: it points at exactly one of
// a Layout or a primary Playlist, owns ordered Slides, and may belong to a
// language group of sibling variants.
type Scene struct {
	ID                  int             `db:"id"                    json:"id"`
	TenantID            int             `db:"tenant_id"             json:"tenant_id"`
	Name                string          `db:"name"                  json:"name"`
	LayoutID            *int            `db:"layout_id"             json:"layout_id"`
	PlaylistID          *int            `db:"playlist_id"           json:"playlist_id"`
	SecondaryPlaylistID *int            `db:"secondary_playlist_id" json:"secondary_playlist_id"`
	Settings            json.RawMessage `db:"settings"              json:"settings,omitempty"`
	Language            *string         `db:"language"              json:"language"`
	LanguageGroupID     *int            `db:"language_group_id"     json:"language_group_id"`
	IsDefaultLanguage   bool            `db:"is_default_language"   json:"is_default_language"`
	ContentHash         *string         `db:"content_hash"          json:"content_hash"`
	MediaHash           *string         `db:"media_hash"            json:"media_hash"`
	CreatedBy           int             `db:"created_by"            json:"created_by"`
	CreatedAt           time.Time       `db:"created_at"            json:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at"            json:"updated_at"`
}

// Ref returns the content the scene renders: its layout when set, else its
// primary playlist.
func (s Scene) Ref() (ContentRef, bool) {
	if s.LayoutID != nil {
		return ContentRef{Type: ContentTypeLayout, ID: *s.LayoutID}, true
	}
	if s.PlaylistID != nil {
		return ContentRef{Type: ContentTypePlaylist, ID: *s.PlaylistID}, true
	}
	return ContentRef{}, false
}

// Slide is one ordered page of a scene; Design is the free-form content
// design document the player renders.
type Slide struct {
	ID        int             `db:"id"         json:"id"`
	SceneID   int             `db:"scene_id"   json:"scene_id"`
	Position  int             `db:"position"   json:"position"`
	Design    json.RawMessage `db:"design"     json:"design"`
	Duration  *int            `db:"duration"   json:"duration,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}
