package model

import "time"

type Layout struct {
	ID         int       `db:"id"         json:"id"`
	TenantID   int       `db:"tenant_id"  json:"tenant_id"`
	Name       string    `db:"name"       json:"name"`
	Width      int       `db:"width"      json:"width"`
	Height     int       `db:"height"     json:"height"`
	Background *string   `db:"background" json:"background"`
	CreatedBy  int       `db:"created_by" json:"created_by"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
	Zones      []Zone    `db:"-"          json:"zones,omitempty"`
}

// Zone is a rectangular region of a layout. ContentType/ContentID are either
// both unset (empty zone) or reference a playlist or a single media item;
// referential validity is enforced on the write path.
type Zone struct {
	ID          int       `db:"id"           json:"id"`
	LayoutID    int       `db:"layout_id"    json:"layout_id"`
	ContentType *string   `db:"content_type" json:"content_type"`
	ContentID   *int      `db:"content_id"   json:"content_id"`
	X           int       `db:"x"            json:"x"`
	Y           int       `db:"y"            json:"y"`
	Width       int       `db:"width"        json:"width"`
	Height      int       `db:"height"       json:"height"`
	ZIndex      int       `db:"z_index"      json:"z_index"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"   json:"updated_at"`
}

// Ref returns the zone's validated content reference, or ok=false for an
// empty zone.
func (z Zone) Ref() (ContentRef, bool) {
	if z.ContentType == nil || z.ContentID == nil {
		return ContentRef{}, false
	}
	ref, err := NewContentRef(*z.ContentType, *z.ContentID)
	if err != nil {
		return ContentRef{}, false
	}
	return ref, true
}
