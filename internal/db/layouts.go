package db

import (
	"github.com/rs/zerolog/log"

	"github.com/Signalis-Media/beacon/internal/model"
)

func (s *pgStore) GetLayoutByID(id int) (model.Layout, error) {
	var l model.Layout
	err := s.db.Get(&l, `
		SELECT id, tenant_id, name, width, height, background,
		       created_by, created_at, updated_at
		  FROM layouts
		 WHERE id = $1;`, id)
	return l, err
}

func (s *pgStore) ListZones(layoutID int) ([]model.Zone, error) {
	var out []model.Zone
	err := s.db.Select(&out, `
		SELECT id, layout_id, content_type, content_id,
		       x, y, width, height, z_index, created_at, updated_at
		  FROM zones
		 WHERE layout_id = $1
		 ORDER BY z_index, id;`, layoutID)
	if err != nil {
		log.Error().Err(err).Int("layout_id", layoutID).Msg("ListZones failed")
		return nil, err
	}
	return out, nil
}
