package db

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Signalis-Media/beacon/internal/model"
)

const deviceColumns = `
	id, tenant_id, device_id, name, location, paired, group_id,
	override_scene_id, layout_id, playlist_id, scene_schedule_id, schedule_id,
	timezone, language, cached_scene_id, cached_content_hash, cached_media_hash,
	cache_status, last_synced_at, last_seen_at, offline_since,
	created_by, created_at, updated_at`

func (s *pgStore) GetDeviceByID(id int) (model.Device, error) {
	var d model.Device
	err := s.db.Get(&d, `SELECT `+deviceColumns+` FROM devices WHERE id = $1;`, id)
	return d, err
}

func (s *pgStore) GetDeviceByHardwareID(hardwareID string) (model.Device, error) {
	var d model.Device
	err := s.db.Get(&d, `SELECT `+deviceColumns+` FROM devices WHERE device_id = $1;`, hardwareID)
	return d, err
}

func (s *pgStore) ListDevices(tenantID int) ([]model.Device, error) {
	var out []model.Device
	err := s.db.Select(&out, `SELECT `+deviceColumns+` FROM devices WHERE tenant_id = $1 ORDER BY id;`, tenantID)
	if err != nil {
		log.Error().Err(err).Int("tenant_id", tenantID).Msg("ListDevices failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) TouchDeviceSeen(deviceID int, at time.Time) error {
	_, err := s.db.Exec(`
		UPDATE devices
		   SET last_seen_at = $2,
		       updated_at   = now()
		 WHERE id = $1;`, deviceID, at)
	if err != nil {
		log.Error().Err(err).Int("device_id", deviceID).Msg("TouchDeviceSeen failed")
	}
	return err
}

// RecordDeviceSync is the single writer of a device's cached-content fields.
// A sync that lands with status ok also clears the offline flag.
func (s *pgStore) RecordDeviceSync(deviceID int, sceneID *int, contentHash, mediaHash *string, status model.CacheStatus, at time.Time) error {
	_, err := s.db.Exec(`
		UPDATE devices
		   SET cached_scene_id     = $2,
		       cached_content_hash = $3,
		       cached_media_hash   = $4,
		       cache_status        = $5,
		       last_synced_at      = $6,
		       offline_since       = CASE WHEN $5 = 'ok' THEN NULL ELSE offline_since END,
		       updated_at          = now()
		 WHERE id = $1;`, deviceID, sceneID, contentHash, mediaHash, string(status), at)
	if err != nil {
		log.Error().Err(err).Int("device_id", deviceID).Msg("RecordDeviceSync failed")
	}
	return err
}

func (s *pgStore) MarkDeviceOffline(deviceID int, at time.Time, status model.CacheStatus) error {
	_, err := s.db.Exec(`
		UPDATE devices
		   SET offline_since = COALESCE(offline_since, $2),
		       cache_status  = $3,
		       updated_at    = now()
		 WHERE id = $1;`, deviceID, at, string(status))
	if err != nil {
		log.Error().Err(err).Int("device_id", deviceID).Msg("MarkDeviceOffline failed")
	}
	return err
}

func (s *pgStore) SetDeviceOverrideScene(deviceID int, sceneID *int) error {
	_, err := s.db.Exec(`
		UPDATE devices
		   SET override_scene_id = $2,
		       updated_at        = now()
		 WHERE id = $1;`, deviceID, sceneID)
	if err != nil {
		log.Error().Err(err).Int("device_id", deviceID).Msg("SetDeviceOverrideScene failed")
	}
	return err
}

func (s *pgStore) SetDeviceAssignments(deviceID int, layoutID, playlistID, sceneScheduleID, scheduleID *int) error {
	_, err := s.db.Exec(`
		UPDATE devices
		   SET layout_id         = $2,
		       playlist_id       = $3,
		       scene_schedule_id = $4,
		       schedule_id       = $5,
		       updated_at        = now()
		 WHERE id = $1;`, deviceID, layoutID, playlistID, sceneScheduleID, scheduleID)
	if err != nil {
		log.Error().Err(err).Int("device_id", deviceID).Msg("SetDeviceAssignments failed")
	}
	return err
}
