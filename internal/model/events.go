package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OfflineEvent is one entry of the backlog a device recorded while offline,
// replayed through SyncOfflineEvents after reconnect.
type OfflineEvent struct {
	ID         uuid.UUID       `db:"id"          json:"id"`
	DeviceID   int             `db:"device_id"   json:"device_id"`
	EventType  string          `db:"event_type"  json:"event_type"`
	Payload    json.RawMessage `db:"payload"     json:"payload,omitempty"`
	RecordedAt time.Time       `db:"recorded_at" json:"recorded_at"`
	SyncedAt   time.Time       `db:"synced_at"   json:"synced_at"`
}
