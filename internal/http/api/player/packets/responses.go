package packets

import (
	"github.com/Signalis-Media/beacon/internal/content"
)

// ResolveContentResponse is the full-resolution answer. Empty marks the valid
// "nothing to show" terminal state; the player falls back to its idle screen.
type ResolveContentResponse struct {
	DeviceID int              `json:"device_id"`
	Empty    bool             `json:"empty"`
	Content  *content.Payload `json:"content,omitempty"`
}
