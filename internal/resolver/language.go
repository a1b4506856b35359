package resolver

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/Signalis-Media/beacon/internal/model"
)

// ResolveVariant picks the scene variant a device should render given its
// configured display language: the sibling variant with an exact language
// match, else the language group's designated default variant, else the
// scene itself. A scene outside any language group is returned unchanged.
func (r *Resolver) ResolveVariant(scene model.Scene, deviceLanguage string) (model.Scene, error) {
	if scene.LanguageGroupID == nil {
		return scene, nil
	}

	lang := strings.ToLower(strings.TrimSpace(deviceLanguage))
	if lang != "" {
		variant, err := r.store.GetSceneVariantByLanguage(*scene.LanguageGroupID, lang)
		if err == nil {
			return variant, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return model.Scene{}, err
		}
	}

	fallback, err := r.store.GetDefaultSceneVariant(*scene.LanguageGroupID)
	if err == nil {
		return fallback, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Scene{}, err
	}

	return scene, nil
}
