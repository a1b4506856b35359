package db

import (
	"github.com/rs/zerolog/log"

	"github.com/Signalis-Media/beacon/internal/model"
)

func (s *pgStore) GetPlaylistByID(id int) (model.Playlist, error) {
	var p model.Playlist
	err := s.db.Get(&p, `
		SELECT id, tenant_id, name, description, default_duration, transition,
		       shuffle, created_by, created_at, updated_at
		  FROM playlists
		 WHERE id = $1;`, id)
	if err != nil {
		return model.Playlist{}, err
	}

	items, err := s.listPlaylistItems(id)
	if err != nil {
		return model.Playlist{}, err
	}
	p.Items = items
	return p, nil
}

// listPlaylistItems loads a playlist's items with their media attached, in
// one query.
func (s *pgStore) listPlaylistItems(playlistID int) ([]model.PlaylistItem, error) {
	type row struct {
		model.PlaylistItem
		MediaName     *string `db:"media_name"`
		MediaType     *string `db:"media_type"`
		MediaURL      *string `db:"media_url"`
		MediaDuration *int    `db:"media_duration"`
		MediaTenantID *int    `db:"media_tenant_id"`
	}
	var rows []row
	err := s.db.Select(&rows, `
		SELECT i.id, i.playlist_id, i.media_id, i.position, i.duration, i.created_at,
		       m.name     AS media_name,
		       m.type     AS media_type,
		       m.url      AS media_url,
		       m.duration AS media_duration,
		       m.tenant_id AS media_tenant_id
		  FROM playlist_items i
		  LEFT JOIN media m ON m.id = i.media_id
		 WHERE i.playlist_id = $1
		 ORDER BY i.position;`, playlistID)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Msg("listPlaylistItems failed")
		return nil, err
	}

	out := make([]model.PlaylistItem, 0, len(rows))
	for _, r := range rows {
		item := r.PlaylistItem
		if r.MediaName != nil {
			item.Media = &model.Media{
				ID:       item.MediaID,
				TenantID: *r.MediaTenantID,
				Name:     *r.MediaName,
				Type:     *r.MediaType,
				URL:      *r.MediaURL,
				Duration: r.MediaDuration,
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *pgStore) GetMediaByID(id int) (model.Media, error) {
	var m model.Media
	err := s.db.Get(&m, `
		SELECT id, tenant_id, name, type, url, duration, created_at
		  FROM media
		 WHERE id = $1;`, id)
	return m, err
}
