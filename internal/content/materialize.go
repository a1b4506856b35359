package content

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/Signalis-Media/beacon/internal/model"
	"github.com/Signalis-Media/beacon/internal/resolver"
)

// Store is the read surface materialization needs, plus the hash pair
// refresh. db.Store satisfies it.
type Store interface {
	HashStore
	GetSceneByID(id int) (model.Scene, error)
	GetLayoutByID(id int) (model.Layout, error)
	ListZones(layoutID int) ([]model.Zone, error)
	GetPlaylistByID(id int) (model.Playlist, error)
	GetMediaByID(id int) (model.Media, error)
}

// URLResolver turns a stored media location into the URL a player fetches.
// storage.Storage implements it for both local uploads and CDN-backed media.
type URLResolver interface {
	ResolveURL(stored string) string
}

// Payload is the self-contained renderable document a player consumes.
// Exactly one of Layout or Playlist is set.
type Payload struct {
	Source      resolver.Source  `json:"source"`
	SceneID     *int             `json:"scene_id,omitempty"`
	ContentHash *string          `json:"content_hash,omitempty"`
	MediaHash   *string          `json:"media_hash,omitempty"`
	Layout      *LayoutPayload   `json:"layout,omitempty"`
	Playlist    *PlaylistPayload `json:"playlist,omitempty"`
	Secondary   *PlaylistPayload `json:"secondary_playlist,omitempty"`
}

type LayoutPayload struct {
	ID         int           `json:"id"`
	Name       string        `json:"name"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Background *string       `json:"background,omitempty"`
	Zones      []ZonePayload `json:"zones"`
}

// ZonePayload carries at most one of Playlist or Media; both nil means the
// zone renders empty.
type ZonePayload struct {
	ID       int              `json:"id"`
	X        int              `json:"x"`
	Y        int              `json:"y"`
	Width    int              `json:"width"`
	Height   int              `json:"height"`
	ZIndex   int              `json:"z_index"`
	Playlist *PlaylistPayload `json:"playlist,omitempty"`
	Media    *MediaPayload    `json:"media,omitempty"`
}

type PlaylistPayload struct {
	ID              int           `json:"id"`
	Name            string        `json:"name"`
	DefaultDuration *int          `json:"default_duration,omitempty"`
	Transition      *string       `json:"transition,omitempty"`
	Shuffle         bool          `json:"shuffle"`
	Items           []ItemPayload `json:"items"`
}

type ItemPayload struct {
	Position int          `json:"position"`
	Duration int          `json:"duration"`
	Media    MediaPayload `json:"media"`
}

type MediaPayload struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	URL      string `json:"url"`
	Duration *int   `json:"duration,omitempty"`
}

type Materializer struct {
	store Store
	urls  URLResolver
}

func NewMaterializer(store Store, urls URLResolver) *Materializer {
	return &Materializer{store: store, urls: urls}
}

// Materialize expands a resolution result into the full renderable payload.
// It is read-only apart from the lazy hash refresh on the winning scene; a
// broken reference inside a single zone degrades that zone to empty instead
// of failing the whole resolution.
func (m *Materializer) Materialize(res resolver.Resolved) (Payload, error) {
	payload := Payload{Source: res.Source}

	if res.Scene != nil {
		scene, err := EnsureSceneHashes(m.store, *res.Scene)
		if err != nil {
			return Payload{}, fmt.Errorf("refresh scene hashes: %w", err)
		}
		payload.SceneID = &scene.ID
		payload.ContentHash = scene.ContentHash
		payload.MediaHash = scene.MediaHash
		if scene.SecondaryPlaylistID != nil {
			secondary, err := m.materializePlaylist(*scene.SecondaryPlaylistID)
			if err == nil {
				payload.Secondary = secondary
			} else if !errors.Is(err, sql.ErrNoRows) {
				return Payload{}, err
			}
		}
	}

	ref := res.Ref
	if ref.Type == model.ContentTypeScene {
		// Emergency targets may name a scene directly; dereference it
		// to its layout or playlist without language resolution.
		scene, err := m.store.GetSceneByID(ref.ID)
		if err != nil {
			return Payload{}, err
		}
		inner, ok := scene.Ref()
		if !ok {
			return Payload{}, fmt.Errorf("scene %d has no renderable content", scene.ID)
		}
		ref = inner
	}

	switch ref.Type {
	case model.ContentTypeLayout:
		layout, err := m.materializeLayout(ref.ID)
		if err != nil {
			return Payload{}, err
		}
		payload.Layout = layout
	case model.ContentTypePlaylist:
		playlist, err := m.materializePlaylist(ref.ID)
		if err != nil {
			return Payload{}, err
		}
		payload.Playlist = playlist
	case model.ContentTypeMedia:
		playlist, err := m.materializeSingleMedia(ref.ID)
		if err != nil {
			return Payload{}, err
		}
		payload.Playlist = playlist
	default:
		return Payload{}, fmt.Errorf("cannot materialize content type %q", ref.Type)
	}

	return payload, nil
}

func (m *Materializer) materializeLayout(layoutID int) (*LayoutPayload, error) {
	layout, err := m.store.GetLayoutByID(layoutID)
	if err != nil {
		return nil, err
	}
	zones, err := m.store.ListZones(layoutID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(zones, func(i, j int) bool { return zones[i].ZIndex < zones[j].ZIndex })

	out := &LayoutPayload{
		ID:         layout.ID,
		Name:       layout.Name,
		Width:      layout.Width,
		Height:     layout.Height,
		Background: layout.Background,
		Zones:      make([]ZonePayload, 0, len(zones)),
	}
	for _, z := range zones {
		zp := ZonePayload{
			ID:     z.ID,
			X:      z.X,
			Y:      z.Y,
			Width:  z.Width,
			Height: z.Height,
			ZIndex: z.ZIndex,
		}
		if ref, ok := z.Ref(); ok {
			if err := m.fillZone(&zp, ref); err != nil {
				if !errors.Is(err, sql.ErrNoRows) {
					return nil, err
				}
				// Dangling reference: render this zone empty and
				// keep the rest of the layout usable.
				log.Warn().Int("zone_id", z.ID).Str("ref", ref.String()).Msg("zone content missing, rendering empty")
			}
		}
		out.Zones = append(out.Zones, zp)
	}
	return out, nil
}

func (m *Materializer) fillZone(zp *ZonePayload, ref model.ContentRef) error {
	switch ref.Type {
	case model.ContentTypePlaylist:
		playlist, err := m.materializePlaylist(ref.ID)
		if err != nil {
			return err
		}
		zp.Playlist = playlist
	case model.ContentTypeMedia:
		media, err := m.store.GetMediaByID(ref.ID)
		if err != nil {
			return err
		}
		mp := m.mediaPayload(media)
		zp.Media = &mp
	default:
		return fmt.Errorf("zone cannot reference content type %q", ref.Type)
	}
	return nil
}

func (m *Materializer) materializePlaylist(playlistID int) (*PlaylistPayload, error) {
	playlist, err := m.store.GetPlaylistByID(playlistID)
	if err != nil {
		return nil, err
	}

	items := make([]model.PlaylistItem, len(playlist.Items))
	copy(items, playlist.Items)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })

	out := &PlaylistPayload{
		ID:              playlist.ID,
		Name:            playlist.Name,
		DefaultDuration: playlist.DefaultDuration,
		Transition:      playlist.Transition,
		Shuffle:         playlist.Shuffle,
		Items:           make([]ItemPayload, 0, len(items)),
	}
	for _, item := range items {
		if item.Media == nil {
			log.Warn().Int("item_id", item.ID).Msg("playlist item media missing, skipping item")
			continue
		}
		out.Items = append(out.Items, ItemPayload{
			Position: item.Position,
			Duration: effectiveDuration(item, playlist),
			Media:    m.mediaPayload(*item.Media),
		})
	}
	return out, nil
}

// materializeSingleMedia synthesizes a one-item playlist-shaped payload so
// the output shape is uniform regardless of the resolution path.
func (m *Materializer) materializeSingleMedia(mediaID int) (*PlaylistPayload, error) {
	media, err := m.store.GetMediaByID(mediaID)
	if err != nil {
		return nil, err
	}
	duration := model.DefaultItemDuration
	if media.Duration != nil {
		duration = *media.Duration
	}
	return &PlaylistPayload{
		Name: media.Name,
		Items: []ItemPayload{{
			Position: 0,
			Duration: duration,
			Media:    m.mediaPayload(media),
		}},
	}, nil
}

func (m *Materializer) mediaPayload(media model.Media) MediaPayload {
	return MediaPayload{
		ID:       media.ID,
		Name:     media.Name,
		Type:     media.Type,
		URL:      m.urls.ResolveURL(media.URL),
		Duration: media.Duration,
	}
}

// effectiveDuration applies the fallback chain: item override, the media's
// native duration, the playlist default, then the hard default.
func effectiveDuration(item model.PlaylistItem, playlist model.Playlist) int {
	if item.Duration != nil {
		return *item.Duration
	}
	if item.Media != nil && item.Media.Duration != nil {
		return *item.Media.Duration
	}
	if playlist.DefaultDuration != nil {
		return *playlist.DefaultDuration
	}
	return model.DefaultItemDuration
}
