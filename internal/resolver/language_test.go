package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Signalis-Media/beacon/internal/model"
)

// variantGroup seeds a language group with an English default and a French
// sibling, returning the English scene as the resolution starting point.
func variantGroup(store *fakeStore) model.Scene {
	groupID := 1
	en := model.Scene{
		ID: 10, TenantID: 1, PlaylistID: intPtr(100),
		LanguageGroupID: &groupID, Language: strPtr("en"), IsDefaultLanguage: true,
	}
	fr := model.Scene{
		ID: 11, TenantID: 1, PlaylistID: intPtr(101),
		LanguageGroupID: &groupID, Language: strPtr("fr"),
	}
	store.scenes[en.ID] = en
	store.scenes[fr.ID] = fr
	return en
}

func TestResolveVariant_ExactLanguageMatch(t *testing.T) {
	store := newFakeStore()
	en := variantGroup(store)

	got, err := New(store).ResolveVariant(en, "fr")
	require.NoError(t, err)
	assert.Equal(t, 11, got.ID)
}

func TestResolveVariant_LanguageNormalized(t *testing.T) {
	store := newFakeStore()
	en := variantGroup(store)

	got, err := New(store).ResolveVariant(en, "  FR ")
	require.NoError(t, err)
	assert.Equal(t, 11, got.ID, "language comparison is case- and whitespace-insensitive")
}

func TestResolveVariant_FallsBackToDefault(t *testing.T) {
	store := newFakeStore()
	en := variantGroup(store)

	// start from the french variant so the default fallback is observable
	fr := store.scenes[11]
	got, err := New(store).ResolveVariant(fr, "de")
	require.NoError(t, err)
	assert.Equal(t, en.ID, got.ID)
}

func TestResolveVariant_EmptyLanguageSkipsExactLookup(t *testing.T) {
	store := newFakeStore()
	en := variantGroup(store)

	got, err := New(store).ResolveVariant(store.scenes[11], "")
	require.NoError(t, err)
	assert.Equal(t, en.ID, got.ID)
	assert.Equal(t, 1, store.variantLookups, "only the default lookup runs for a blank language")
}

func TestResolveVariant_NoGroupReturnsSceneUnchanged(t *testing.T) {
	store := newFakeStore()
	scene := store.sceneWithPlaylist(5, 50)

	got, err := New(store).ResolveVariant(scene, "fr")
	require.NoError(t, err)
	assert.Equal(t, scene, got)
	assert.Zero(t, store.variantLookups)
}

func TestResolveVariant_GroupWithoutDefaultReturnsOriginal(t *testing.T) {
	store := newFakeStore()
	groupID := 2
	scene := model.Scene{
		ID: 20, TenantID: 1, PlaylistID: intPtr(200),
		LanguageGroupID: &groupID, Language: strPtr("es"),
	}
	store.scenes[scene.ID] = scene

	got, err := New(store).ResolveVariant(scene, "fr")
	require.NoError(t, err)
	assert.Equal(t, scene.ID, got.ID)
}
