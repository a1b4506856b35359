package db

import (
	"github.com/rs/zerolog/log"

	"github.com/Signalis-Media/beacon/internal/model"
)

func (s *pgStore) ListScheduleEntries(scheduleID int) ([]model.ScheduleEntry, error) {
	var out []model.ScheduleEntry
	err := s.db.Select(&out, `
		SELECT id, schedule_id, content_type, content_id,
		       start_date, end_date, start_time, end_time, days_of_week,
		       priority, created_at, updated_at
		  FROM schedule_entries
		 WHERE schedule_id = $1
		 ORDER BY priority DESC, id;`, scheduleID)
	if err != nil {
		log.Error().Err(err).Int("schedule_id", scheduleID).Msg("ListScheduleEntries failed")
		return nil, err
	}
	return out, nil
}
