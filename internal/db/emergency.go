package db

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Signalis-Media/beacon/internal/model"
)

func (s *pgStore) GetActiveEmergency(tenantID int) (model.EmergencyState, error) {
	var e model.EmergencyState
	err := s.db.Get(&e, `
		SELECT id, tenant_id, content_type, content_id, started_at,
		       duration_minutes, active, created_by
		  FROM emergency_states
		 WHERE tenant_id = $1
		   AND active = true;`, tenantID)
	return e, err
}

// SetEmergency replaces any existing emergency for the tenant. One active
// row per tenant is enforced by the unique partial index.
func (s *pgStore) SetEmergency(tenantID int, contentType string, contentID int, startedAt time.Time, durationMinutes *int, createdBy int) (model.EmergencyState, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return model.EmergencyState{}, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		UPDATE emergency_states
		   SET active = false, cleared_at = now()
		 WHERE tenant_id = $1 AND active = true;`, tenantID); err != nil {
		log.Error().Err(err).Int("tenant_id", tenantID).Msg("SetEmergency: deactivating previous state failed")
		return model.EmergencyState{}, err
	}

	var e model.EmergencyState
	err = tx.Get(&e, `
		INSERT INTO emergency_states
		       (tenant_id, content_type, content_id, started_at, duration_minutes, active, created_by)
		VALUES ($1, $2, $3, $4, $5, true, $6)
		RETURNING id, tenant_id, content_type, content_id, started_at,
		          duration_minutes, active, created_by;`,
		tenantID, contentType, contentID, startedAt, durationMinutes, createdBy)
	if err != nil {
		log.Error().Err(err).Int("tenant_id", tenantID).Msg("SetEmergency failed")
		return model.EmergencyState{}, err
	}
	return e, tx.Commit()
}

// ClearExpiredEmergency deactivates the tenant's emergency only if it is
// still active and its duration has run out. The expiry check lives inside
// the UPDATE's WHERE clause, so two concurrent resolutions cannot both
// observe "expired" and race the clear: it is one atomic conditional write.
func (s *pgStore) ClearExpiredEmergency(tenantID int, now time.Time) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE emergency_states
		   SET active = false, cleared_at = $2
		 WHERE tenant_id = $1
		   AND active = true
		   AND duration_minutes IS NOT NULL
		   AND started_at + (duration_minutes * interval '1 minute') < $2;`,
		tenantID, now)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *pgStore) CancelEmergency(tenantID int) error {
	_, err := s.db.Exec(`
		UPDATE emergency_states
		   SET active = false, cleared_at = now()
		 WHERE tenant_id = $1 AND active = true;`, tenantID)
	if err != nil {
		log.Error().Err(err).Int("tenant_id", tenantID).Msg("CancelEmergency failed")
	}
	return err
}
