package content

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"github.com/Signalis-Media/beacon/internal/model"
)

// mediaURLKeys are the design-document keys whose values are treated as
// media references when they hold an absolute URL.
var mediaURLKeys = map[string]bool{
	"url":              true,
	"src":              true,
	"background-image": true,
	"video-url":        true,
	"image-url":        true,
	"poster-url":       true,
}

// ComputeHashes derives the scene fingerprint pair from its ordered slides.
// contentHash covers the canonical serialization of every slide design;
// mediaHash covers the sorted, de-duplicated set of absolute media URLs
// found anywhere inside those designs. Both are pure functions of the input,
// so recomputation is idempotent.
func ComputeHashes(slides []model.Slide) (contentHash, mediaHash string) {
	ordered := make([]model.Slide, len(slides))
	copy(ordered, slides)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Position < ordered[j].Position })

	ch := sha256.New()
	urlSet := make(map[string]bool)
	for _, slide := range ordered {
		doc := decodeDesign(slide.Design)
		canonical, _ := json.Marshal(doc)
		ch.Write(canonical)
		ch.Write([]byte{'\n'})
		collectMediaURLs(doc, urlSet)
	}
	contentHash = hex.EncodeToString(ch.Sum(nil))

	urls := make([]string, 0, len(urlSet))
	for u := range urlSet {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	mh := sha256.New()
	mh.Write([]byte(strings.Join(urls, "\n")))
	mediaHash = hex.EncodeToString(mh.Sum(nil))
	return contentHash, mediaHash
}

// decodeDesign parses a design document into a generic tree. json.Marshal of
// the result is canonical: object keys come back sorted.
func decodeDesign(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		// An unparsable design still participates in the content hash
		// as its raw text so edits are never invisible to players.
		return string(raw)
	}
	return doc
}

// collectMediaURLs walks the decoded design tree and records every absolute
// URL stored under a media key, at any nesting depth.
func collectMediaURLs(node any, out map[string]bool) {
	switch v := node.(type) {
	case map[string]any:
		for key, child := range v {
			if s, ok := child.(string); ok && mediaURLKeys[key] && isAbsoluteURL(s) {
				out[s] = true
				continue
			}
			collectMediaURLs(child, out)
		}
	case []any:
		for _, child := range v {
			collectMediaURLs(child, out)
		}
	}
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// HashStore is the slice of the store the lazy hash path needs.
type HashStore interface {
	ListSlides(sceneID int) ([]model.Slide, error)
	SetSceneHashes(sceneID int, contentHash, mediaHash string) (model.Scene, error)
}

// EnsureSceneHashes returns a scene with valid fingerprints, recomputing and
// persisting them when a mutation has invalidated the cached pair. The store
// writes both hashes in a single update so readers never observe a half
// refreshed pair.
func EnsureSceneHashes(store HashStore, scene model.Scene) (model.Scene, error) {
	if scene.ContentHash != nil && scene.MediaHash != nil {
		return scene, nil
	}
	slides, err := store.ListSlides(scene.ID)
	if err != nil {
		return model.Scene{}, err
	}
	contentHash, mediaHash := ComputeHashes(slides)
	return store.SetSceneHashes(scene.ID, contentHash, mediaHash)
}
