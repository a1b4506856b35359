package model

import "fmt"

// ContentType discriminates what table a ContentRef points at.
type ContentType string

const (
	ContentTypePlaylist ContentType = "playlist"
	ContentTypeLayout   ContentType = "layout"
	ContentTypeMedia    ContentType = "media"
	ContentTypeScene    ContentType = "scene"
)

// ContentRef is a validated (content_type, content_id) pair. Build one with
// NewContentRef so an unknown type string can never reach the resolver.
type ContentRef struct {
	Type ContentType
	ID   int
}

func NewContentRef(contentType string, contentID int) (ContentRef, error) {
	switch ContentType(contentType) {
	case ContentTypePlaylist, ContentTypeLayout, ContentTypeMedia, ContentTypeScene:
	default:
		return ContentRef{}, fmt.Errorf("unknown content type %q", contentType)
	}
	if contentID <= 0 {
		return ContentRef{}, fmt.Errorf("invalid content id %d", contentID)
	}
	return ContentRef{Type: ContentType(contentType), ID: contentID}, nil
}

func (r ContentRef) String() string {
	return fmt.Sprintf("%s/%d", r.Type, r.ID)
}
