package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Signalis-Media/beacon/internal/model"
)

func slide(position int, design string) model.Slide {
	return model.Slide{Position: position, Design: json.RawMessage(design)}
}

func TestComputeHashes_Deterministic(t *testing.T) {
	slides := []model.Slide{
		slide(0, `{"text":"hello","url":"https://cdn.example.com/a.png"}`),
		slide(1, `{"text":"world"}`),
	}

	c1, m1 := ComputeHashes(slides)
	c2, m2 := ComputeHashes(slides)
	assert.Equal(t, c1, c2)
	assert.Equal(t, m1, m2)
	assert.Len(t, c1, 64)
	assert.Len(t, m1, 64)
}

func TestComputeHashes_OrderedByPosition(t *testing.T) {
	a := slide(0, `{"text":"first"}`)
	b := slide(1, `{"text":"second"}`)

	c1, _ := ComputeHashes([]model.Slide{a, b})
	c2, _ := ComputeHashes([]model.Slide{b, a})
	assert.Equal(t, c1, c2, "slide position, not slice order, drives the hash")
}

func TestComputeHashes_DesignEditChangesContentHashOnly(t *testing.T) {
	before := []model.Slide{slide(0, `{"text":"old","url":"https://cdn.example.com/a.png"}`)}
	after := []model.Slide{slide(0, `{"text":"new","url":"https://cdn.example.com/a.png"}`)}

	c1, m1 := ComputeHashes(before)
	c2, m2 := ComputeHashes(after)
	assert.NotEqual(t, c1, c2)
	assert.Equal(t, m1, m2, "media set unchanged, media hash unchanged")
}

func TestComputeHashes_MediaSwapChangesMediaHash(t *testing.T) {
	before := []model.Slide{slide(0, `{"url":"https://cdn.example.com/a.png"}`)}
	after := []model.Slide{slide(0, `{"url":"https://cdn.example.com/b.png"}`)}

	_, m1 := ComputeHashes(before)
	_, m2 := ComputeHashes(after)
	assert.NotEqual(t, m1, m2)
}

func TestComputeHashes_NestedAndDedupedURLs(t *testing.T) {
	// the same URL referenced twice, at different depths, under different keys
	dup := []model.Slide{
		slide(0, `{"blocks":[{"src":"https://cdn.example.com/a.png"}],"background-image":"https://cdn.example.com/a.png"}`),
	}
	single := []model.Slide{
		slide(0, `{"blocks":[{"src":"https://cdn.example.com/a.png"}]}`),
	}

	_, m1 := ComputeHashes(dup)
	_, m2 := ComputeHashes(single)
	assert.Equal(t, m1, m2, "duplicate URLs collapse to one media set entry")
}

func TestComputeHashes_RelativeURLsIgnored(t *testing.T) {
	rel := []model.Slide{slide(0, `{"url":"/uploads/a.png"}`)}
	none := []model.Slide{slide(0, `{}`)}

	_, m1 := ComputeHashes(rel)
	_, m2 := ComputeHashes(none)
	assert.Equal(t, m1, m2, "only absolute http(s) URLs enter the media set")
}

func TestComputeHashes_NonMediaKeysIgnored(t *testing.T) {
	withLink := []model.Slide{slide(0, `{"href":"https://example.com/page"}`)}
	empty := []model.Slide{slide(0, `{}`)}

	_, m1 := ComputeHashes(withLink)
	_, m2 := ComputeHashes(empty)
	assert.Equal(t, m1, m2)
}

func TestComputeHashes_UnparsableDesignStillHashes(t *testing.T) {
	broken := []model.Slide{slide(0, `{not json`)}
	other := []model.Slide{slide(0, `{also not json`)}

	c1, _ := ComputeHashes(broken)
	c2, _ := ComputeHashes(other)
	assert.NotEqual(t, c1, c2, "raw text of a broken design participates in the hash")
}

// hashFakeStore covers the lazy refresh path.
type hashFakeStore struct {
	slides    []model.Slide
	scene     model.Scene
	setCalled int
}

func (s *hashFakeStore) ListSlides(sceneID int) ([]model.Slide, error) {
	return s.slides, nil
}

func (s *hashFakeStore) SetSceneHashes(sceneID int, contentHash, mediaHash string) (model.Scene, error) {
	s.setCalled++
	s.scene.ContentHash = &contentHash
	s.scene.MediaHash = &mediaHash
	return s.scene, nil
}

func TestEnsureSceneHashes_RecomputesWhenInvalidated(t *testing.T) {
	store := &hashFakeStore{
		slides: []model.Slide{slide(0, `{"url":"https://cdn.example.com/a.png"}`)},
		scene:  model.Scene{ID: 1},
	}

	got, err := EnsureSceneHashes(store, store.scene)
	require.NoError(t, err)
	require.NotNil(t, got.ContentHash)
	require.NotNil(t, got.MediaHash)
	assert.Equal(t, 1, store.setCalled)

	wantContent, wantMedia := ComputeHashes(store.slides)
	assert.Equal(t, wantContent, *got.ContentHash)
	assert.Equal(t, wantMedia, *got.MediaHash)
}

func TestEnsureSceneHashes_ValidPairUntouched(t *testing.T) {
	ch, mh := "aaa", "bbb"
	store := &hashFakeStore{}
	scene := model.Scene{ID: 1, ContentHash: &ch, MediaHash: &mh}

	got, err := EnsureSceneHashes(store, scene)
	require.NoError(t, err)
	assert.Equal(t, scene, got)
	assert.Zero(t, store.setCalled)
}
