package db

import (
	"github.com/rs/zerolog/log"

	"github.com/Signalis-Media/beacon/internal/model"
)

func (s *pgStore) GetScreenGroupByID(id int) (model.ScreenGroup, error) {
	var g model.ScreenGroup
	err := s.db.Get(&g, `
		SELECT id, tenant_id, name, description, override_scene_id,
		       created_by, created_at, updated_at
		  FROM screen_groups
		 WHERE id = $1;`, id)
	return g, err
}

func (s *pgStore) SetGroupOverrideScene(groupID int, sceneID *int) error {
	_, err := s.db.Exec(`
		UPDATE screen_groups
		   SET override_scene_id = $2,
		       updated_at        = now()
		 WHERE id = $1;`, groupID, sceneID)
	if err != nil {
		log.Error().Err(err).Int("group_id", groupID).Msg("SetGroupOverrideScene failed")
	}
	return err
}
