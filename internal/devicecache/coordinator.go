package devicecache

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Signalis-Media/beacon/internal/content"
	"github.com/Signalis-Media/beacon/internal/model"
	"github.com/Signalis-Media/beacon/internal/resolver"
)

// DefaultOfflineThreshold is how long a device may go without a heartbeat
// before it is considered offline.
const DefaultOfflineThreshold = 2 * time.Minute

// Store is the device-cache write surface plus the reads staleness checks
// need. RecordDeviceSync is the only writer of a device's cached-hash,
// cache-status and last-sync fields.
type Store interface {
	GetDeviceByID(id int) (model.Device, error)
	TouchDeviceSeen(deviceID int, at time.Time) error
	RecordDeviceSync(deviceID int, sceneID *int, contentHash, mediaHash *string, status model.CacheStatus, at time.Time) error
	MarkDeviceOffline(deviceID int, at time.Time, status model.CacheStatus) error
	InsertOfflineEvent(event model.OfflineEvent) error
}

// Presence tracks live device connectivity out-of-band (redis keys with a
// heartbeat TTL). Optional; a nil Presence disables it.
type Presence interface {
	MarkOnline(deviceID int, ttl time.Duration) error
}

// StalenessReport is the cheap probe result a device polls between full
// content fetches.
type StalenessReport struct {
	SceneID     *int    `json:"scene_id,omitempty"`
	ContentHash *string `json:"content_hash,omitempty"`
	MediaHash   *string `json:"media_hash,omitempty"`
	CachedHash  *string `json:"cached_hash,omitempty"`
	NeedsUpdate bool    `json:"needs_update"`
}

// IncomingEvent is one backlog entry a device recorded while offline.
type IncomingEvent struct {
	EventType  string          `json:"event_type"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// SyncResult reports per-batch counts; a failed event never blocks or rolls
// back the others.
type SyncResult struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

type Coordinator struct {
	store            Store
	resolver         *resolver.Resolver
	hashes           content.HashStore
	presence         Presence
	offlineThreshold time.Duration
}

func NewCoordinator(store Store, res *resolver.Resolver, hashes content.HashStore, presence Presence, offlineThreshold time.Duration) *Coordinator {
	return &Coordinator{
		store:            store,
		resolver:         res,
		hashes:           hashes,
		presence:         presence,
		offlineThreshold: offlineThreshold,
	}
}

// Heartbeat records that a device was just seen. Called by every
// player-facing operation.
func (c *Coordinator) Heartbeat(deviceID int, now time.Time) {
	if err := c.store.TouchDeviceSeen(deviceID, now); err != nil {
		log.Error().Err(err).Int("device_id", deviceID).Msg("failed to touch device heartbeat")
	}
	if c.presence != nil {
		if err := c.presence.MarkOnline(deviceID, c.offlineThreshold); err != nil {
			log.Warn().Err(err).Int("device_id", deviceID).Msg("failed to refresh presence key")
		}
	}
}

// CheckStaleness resolves the device's current content, refreshes the winning
// scene's hash pair if needed and compares it against what the device last
// cached. Staleness is plain string inequality, a NULL on either side
// included.
func (c *Coordinator) CheckStaleness(deviceID int, now time.Time) (StalenessReport, error) {
	device, err := c.store.GetDeviceByID(deviceID)
	if err != nil {
		return StalenessReport{}, err
	}

	report := StalenessReport{CachedHash: device.CachedContentHash}

	res, err := c.resolver.ResolveDevice(device, now)
	if errors.Is(err, resolver.ErrNoContent) {
		report.NeedsUpdate = device.CachedContentHash != nil
		return report, nil
	}
	if err != nil {
		return StalenessReport{}, err
	}

	if res.Scene != nil {
		scene, err := content.EnsureSceneHashes(c.hashes, *res.Scene)
		if err != nil {
			return StalenessReport{}, err
		}
		report.SceneID = &scene.ID
		report.ContentHash = scene.ContentHash
		report.MediaHash = scene.MediaHash
	}

	report.NeedsUpdate = !equalHash(report.ContentHash, device.CachedContentHash)
	return report, nil
}

// RecordSync persists what a device reports it has cached. A successful sync
// also clears the offline flag (the store does both in one update).
func (c *Coordinator) RecordSync(deviceID int, sceneID *int, contentHash, mediaHash *string, status model.CacheStatus, now time.Time) error {
	return c.store.RecordDeviceSync(deviceID, sceneID, contentHash, mediaHash, status, now)
}

// SyncOfflineEvents appends a reconnecting device's backlog. Each event is
// attempted independently; malformed or unstorable events are counted as
// failed and the rest still land.
func (c *Coordinator) SyncOfflineEvents(deviceID int, events []IncomingEvent, now time.Time) SyncResult {
	var result SyncResult
	for _, ev := range events {
		if ev.EventType == "" || ev.RecordedAt.IsZero() {
			result.Failed++
			continue
		}
		err := c.store.InsertOfflineEvent(model.OfflineEvent{
			ID:         uuid.New(),
			DeviceID:   deviceID,
			EventType:  ev.EventType,
			Payload:    ev.Payload,
			RecordedAt: ev.RecordedAt,
			SyncedAt:   now,
		})
		if err != nil {
			log.Error().Err(err).Int("device_id", deviceID).Str("event_type", ev.EventType).Msg("failed to persist offline event")
			result.Failed++
			continue
		}
		result.Synced++
	}
	return result
}

// ReconcileConnectivity applies the offline transition for a device whose
// heartbeat has lapsed: offline_since is stamped and cache_status degrades to
// stale when a cache exists, none otherwise. Devices cycle between online and
// offline indefinitely; coming back online is observed through Heartbeat and
// a subsequent successful RecordSync.
func (c *Coordinator) ReconcileConnectivity(device model.Device, now time.Time) error {
	if device.OfflineSince != nil {
		return nil
	}
	if device.LastSeenAt != nil && now.Sub(*device.LastSeenAt) <= c.offlineThreshold {
		return nil
	}
	status := model.CacheStatusNone
	if device.CachedContentHash != nil {
		status = model.CacheStatusStale
	}
	return c.store.MarkDeviceOffline(device.ID, now, status)
}

func equalHash(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
