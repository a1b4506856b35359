package db

import (
	"github.com/rs/zerolog/log"

	"github.com/Signalis-Media/beacon/internal/model"
)

func (s *pgStore) InsertOfflineEvent(event model.OfflineEvent) error {
	_, err := s.db.Exec(`
		INSERT INTO offline_events (id, device_id, event_type, payload, recorded_at, synced_at)
		VALUES ($1, $2, $3, $4, $5, $6);`,
		event.ID, event.DeviceID, event.EventType, []byte(event.Payload), event.RecordedAt, event.SyncedAt)
	if err != nil {
		log.Error().Err(err).Int("device_id", event.DeviceID).Msg("InsertOfflineEvent failed")
	}
	return err
}

func (s *pgStore) ListOfflineEvents(deviceID int, limit int) ([]model.OfflineEvent, error) {
	var out []model.OfflineEvent
	err := s.db.Select(&out, `
		SELECT id, device_id, event_type, payload, recorded_at, synced_at
		  FROM offline_events
		 WHERE device_id = $1
		 ORDER BY recorded_at DESC
		 LIMIT $2;`, deviceID, limit)
	if err != nil {
		log.Error().Err(err).Int("device_id", deviceID).Msg("ListOfflineEvents failed")
		return nil, err
	}
	return out, nil
}
