package packets

import (
	"github.com/Signalis-Media/beacon/internal/devicecache"
)

type ResolveByPairingCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

type RecordSyncRequest struct {
	SceneID     *int    `json:"scene_id"`
	ContentHash *string `json:"content_hash"`
	MediaHash   *string `json:"media_hash"`
	Status      string  `json:"status" binding:"required,oneof=none ok stale error"`
}

type SyncOfflineEventsRequest struct {
	Events []devicecache.IncomingEvent `json:"events" binding:"required"`
}
