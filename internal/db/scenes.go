package db

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Signalis-Media/beacon/internal/model"
)

const sceneColumns = `
	id, tenant_id, name, layout_id, playlist_id, secondary_playlist_id,
	settings, language, language_group_id, is_default_language,
	content_hash, media_hash, created_by, created_at, updated_at`

func (s *pgStore) GetSceneByID(id int) (model.Scene, error) {
	var sc model.Scene
	err := s.db.Get(&sc, `SELECT `+sceneColumns+` FROM scenes WHERE id = $1;`, id)
	return sc, err
}

func (s *pgStore) GetSceneVariantByLanguage(languageGroupID int, language string) (model.Scene, error) {
	var sc model.Scene
	err := s.db.Get(&sc, `
		SELECT `+sceneColumns+`
		  FROM scenes
		 WHERE language_group_id = $1
		   AND lower(language) = $2
		 ORDER BY id
		 LIMIT 1;`, languageGroupID, language)
	return sc, err
}

func (s *pgStore) GetDefaultSceneVariant(languageGroupID int) (model.Scene, error) {
	var sc model.Scene
	err := s.db.Get(&sc, `
		SELECT `+sceneColumns+`
		  FROM scenes
		 WHERE language_group_id = $1
		   AND is_default_language = true
		 ORDER BY id
		 LIMIT 1;`, languageGroupID)
	return sc, err
}

func (s *pgStore) ListSlides(sceneID int) ([]model.Slide, error) {
	var out []model.Slide
	err := s.db.Select(&out, `
		SELECT id, scene_id, position, design, duration, created_at, updated_at
		  FROM slides
		 WHERE scene_id = $1
		 ORDER BY position;`, sceneID)
	if err != nil {
		log.Error().Err(err).Int("scene_id", sceneID).Msg("ListSlides failed")
		return nil, err
	}
	return out, nil
}

// SetSceneHashes writes both fingerprints in one update so a concurrent read
// never observes a half-refreshed pair.
func (s *pgStore) SetSceneHashes(sceneID int, contentHash, mediaHash string) (model.Scene, error) {
	var sc model.Scene
	err := s.db.Get(&sc, `
		UPDATE scenes
		   SET content_hash = $2,
		       media_hash   = $3,
		       updated_at   = now()
		 WHERE id = $1
		RETURNING `+sceneColumns+`;`, sceneID, contentHash, mediaHash)
	if err != nil {
		log.Error().Err(err).Int("scene_id", sceneID).Msg("SetSceneHashes failed")
		return model.Scene{}, err
	}
	return sc, nil
}

// UpdateSlideDesign mutates a slide and push-invalidates the owning scene's
// hash pair in the same transaction, so the next read recomputes it. Returns
// the owning scene id for change notification.
func (s *pgStore) UpdateSlideDesign(slideID int, design json.RawMessage, duration *int) (int, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var sceneID int
	err = tx.Get(&sceneID, `
		UPDATE slides
		   SET design     = COALESCE($2, design),
		       duration   = COALESCE($3, duration),
		       updated_at = now()
		 WHERE id = $1
		RETURNING scene_id;`, slideID, []byte(design), duration)
	if err != nil {
		log.Error().Err(err).Int("slide_id", slideID).Msg("UpdateSlideDesign failed")
		return 0, err
	}

	if _, err := tx.Exec(`
		UPDATE scenes
		   SET content_hash = NULL,
		       media_hash   = NULL,
		       updated_at   = now()
		 WHERE id = $1;`, sceneID); err != nil {
		log.Error().Err(err).Int("scene_id", sceneID).Msg("scene hash invalidation failed")
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit slide update: %w", err)
	}
	return sceneID, nil
}
