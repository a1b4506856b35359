package endpoints

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Signalis-Media/beacon/internal/content"
	"github.com/Signalis-Media/beacon/internal/db"
	"github.com/Signalis-Media/beacon/internal/devicecache"
	"github.com/Signalis-Media/beacon/internal/http/api"
	"github.com/Signalis-Media/beacon/internal/http/api/player/packets"
	"github.com/Signalis-Media/beacon/internal/model"
	"github.com/Signalis-Media/beacon/internal/redis"
	"github.com/Signalis-Media/beacon/internal/resolver"
)

// fakeStore embeds db.Store so only the methods the player surface reaches
// need real implementations.
type fakeStore struct {
	db.Store

	devices   map[int]model.Device
	scenes    map[int]model.Scene
	playlists map[int]model.Playlist
	media     map[int]model.Media
	events    []model.OfflineEvent
	syncs     []model.CacheStatus
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		devices:   make(map[int]model.Device),
		scenes:    make(map[int]model.Scene),
		playlists: make(map[int]model.Playlist),
		media:     make(map[int]model.Media),
	}
}

func (f *fakeStore) GetDeviceByID(id int) (model.Device, error) {
	d, ok := f.devices[id]
	if !ok {
		return model.Device{}, sql.ErrNoRows
	}
	return d, nil
}

func (f *fakeStore) GetActiveEmergency(tenantID int) (model.EmergencyState, error) {
	return model.EmergencyState{}, sql.ErrNoRows
}

func (f *fakeStore) ClearExpiredEmergency(tenantID int, now time.Time) (bool, error) {
	return false, nil
}

func (f *fakeStore) GetScreenGroupByID(id int) (model.ScreenGroup, error) {
	return model.ScreenGroup{}, sql.ErrNoRows
}

func (f *fakeStore) GetSceneByID(id int) (model.Scene, error) {
	s, ok := f.scenes[id]
	if !ok {
		return model.Scene{}, sql.ErrNoRows
	}
	return s, nil
}

func (f *fakeStore) GetSceneVariantByLanguage(languageGroupID int, language string) (model.Scene, error) {
	return model.Scene{}, sql.ErrNoRows
}

func (f *fakeStore) GetDefaultSceneVariant(languageGroupID int) (model.Scene, error) {
	return model.Scene{}, sql.ErrNoRows
}

func (f *fakeStore) ListScheduleEntries(scheduleID int) ([]model.ScheduleEntry, error) {
	return nil, nil
}

func (f *fakeStore) ListSlides(sceneID int) ([]model.Slide, error) {
	return nil, nil
}

func (f *fakeStore) SetSceneHashes(sceneID int, contentHash, mediaHash string) (model.Scene, error) {
	s, ok := f.scenes[sceneID]
	if !ok {
		return model.Scene{}, sql.ErrNoRows
	}
	s.ContentHash = &contentHash
	s.MediaHash = &mediaHash
	f.scenes[sceneID] = s
	return s, nil
}

func (f *fakeStore) GetLayoutByID(id int) (model.Layout, error) {
	return model.Layout{}, sql.ErrNoRows
}

func (f *fakeStore) ListZones(layoutID int) ([]model.Zone, error) {
	return nil, nil
}

func (f *fakeStore) GetPlaylistByID(id int) (model.Playlist, error) {
	p, ok := f.playlists[id]
	if !ok {
		return model.Playlist{}, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakeStore) GetMediaByID(id int) (model.Media, error) {
	m, ok := f.media[id]
	if !ok {
		return model.Media{}, sql.ErrNoRows
	}
	return m, nil
}

func (f *fakeStore) TouchDeviceSeen(deviceID int, at time.Time) error { return nil }

func (f *fakeStore) RecordDeviceSync(deviceID int, sceneID *int, contentHash, mediaHash *string, status model.CacheStatus, at time.Time) error {
	f.syncs = append(f.syncs, status)
	return nil
}

func (f *fakeStore) MarkDeviceOffline(deviceID int, at time.Time, status model.CacheStatus) error {
	return nil
}

func (f *fakeStore) InsertOfflineEvent(event model.OfflineEvent) error {
	f.events = append(f.events, event)
	return nil
}

type localURLs struct{}

func (localURLs) ResolveURL(stored string) string { return "http://test.local/uploads/" + stored }

func intPtr(i int) *int { return &i }

func setupRouter(t *testing.T, store *fakeStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	res := resolver.New(store)
	mat := content.NewMaterializer(store, localURLs{})
	cache := devicecache.NewCoordinator(store, res, store, nil, devicecache.DefaultOfflineThreshold)
	ctl := NewPlayerController(store, res, mat, cache)

	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api/player"}, ContentModule(ctl), PairingModule(ctl))
	return r
}

// seedPlaylistDevice wires device 1 to a one-item assigned playlist.
func seedPlaylistDevice(store *fakeStore) {
	media := model.Media{ID: 1, Name: "promo", Type: "video", URL: "promo.mp4", Duration: intPtr(15)}
	store.media[1] = media
	store.playlists[5] = model.Playlist{
		ID: 5, Name: "loop",
		Items: []model.PlaylistItem{{ID: 1, Position: 0, Media: &media}},
	}
	store.devices[1] = model.Device{ID: 1, TenantID: 1, Timezone: "UTC", PlaylistID: intPtr(5)}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestResolveContent(t *testing.T) {
	store := newFakeStore()
	seedPlaylistDevice(store)
	r := setupRouter(t, store)

	w := doJSON(t, r, http.MethodGet, "/api/player/screens/1/content", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp packets.ResolveContentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.DeviceID)
	assert.False(t, resp.Empty)
	require.NotNil(t, resp.Content)
	require.NotNil(t, resp.Content.Playlist)
	assert.Equal(t, string(resolver.SourceAssignedPlaylist), string(resp.Content.Source))
	require.Len(t, resp.Content.Playlist.Items, 1)
	assert.Equal(t, "http://test.local/uploads/promo.mp4", resp.Content.Playlist.Items[0].Media.URL)
}

func TestResolveContent_UnknownDevice(t *testing.T) {
	r := setupRouter(t, newFakeStore())

	w := doJSON(t, r, http.MethodGet, "/api/player/screens/99/content", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResolveContent_NothingAssignedIsEmptyNotError(t *testing.T) {
	store := newFakeStore()
	store.devices[1] = model.Device{ID: 1, TenantID: 1, Timezone: "UTC"}
	r := setupRouter(t, store)

	w := doJSON(t, r, http.MethodGet, "/api/player/screens/1/content", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp packets.ResolveContentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Empty)
	assert.Nil(t, resp.Content)
}

func TestCheckContentChecksums(t *testing.T) {
	store := newFakeStore()
	ch, mh := "current", "media"
	store.scenes[3] = model.Scene{ID: 3, PlaylistID: intPtr(5), ContentHash: &ch, MediaHash: &mh}
	store.playlists[5] = model.Playlist{ID: 5, Name: "loop"}
	store.devices[1] = model.Device{
		ID: 1, TenantID: 1, Timezone: "UTC", OverrideSceneID: intPtr(3),
	}
	r := setupRouter(t, store)

	w := doJSON(t, r, http.MethodGet, "/api/player/screens/1/checksums", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var report devicecache.StalenessReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.True(t, report.NeedsUpdate, "device has never reported a cached hash")
	assert.Equal(t, "current", *report.ContentHash)
}

func TestRecordSync(t *testing.T) {
	store := newFakeStore()
	store.devices[1] = model.Device{ID: 1, TenantID: 1, Timezone: "UTC"}
	r := setupRouter(t, store)

	w := doJSON(t, r, http.MethodPost, "/api/player/screens/1/sync", packets.RecordSyncRequest{
		SceneID:     intPtr(3),
		ContentHash: func(s string) *string { return &s }("abc"),
		Status:      "ok",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.syncs, 1)
	assert.Equal(t, model.CacheStatusOK, store.syncs[0])
}

func TestRecordSync_RejectsUnknownStatus(t *testing.T) {
	store := newFakeStore()
	store.devices[1] = model.Device{ID: 1, TenantID: 1, Timezone: "UTC"}
	r := setupRouter(t, store)

	w := doJSON(t, r, http.MethodPost, "/api/player/screens/1/sync", map[string]string{"status": "weird"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.syncs)
}

func TestSyncOfflineEvents(t *testing.T) {
	store := newFakeStore()
	store.devices[1] = model.Device{ID: 1, TenantID: 1, Timezone: "UTC"}
	r := setupRouter(t, store)

	recorded := time.Now().UTC().Add(-time.Hour)
	w := doJSON(t, r, http.MethodPost, "/api/player/screens/1/events/sync", packets.SyncOfflineEventsRequest{
		Events: []devicecache.IncomingEvent{
			{EventType: "impression", RecordedAt: recorded},
			{EventType: "", RecordedAt: recorded},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result devicecache.SyncResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, store.events, 1)
	assert.Equal(t, "impression", store.events[0].EventType)
}

func TestResolveByPairingCode(t *testing.T) {
	mr := miniredis.RunT(t)
	redis.InitRedis(mr.Addr(), "", "")
	t.Cleanup(func() { redis.Rdb = nil })

	store := newFakeStore()
	seedPlaylistDevice(store)
	r := setupRouter(t, store)

	ctx := context.Background()
	require.NoError(t, redis.StorePairingCode(ctx, "AB3XY9", 1, 5*time.Minute))

	w := doJSON(t, r, http.MethodPost, "/api/player/pair/resolve", packets.ResolveByPairingCodeRequest{Code: "ab3xy9"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp packets.ResolveContentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.DeviceID)
	require.NotNil(t, resp.Content)

	// the code is single-use
	w = doJSON(t, r, http.MethodPost, "/api/player/pair/resolve", packets.ResolveByPairingCodeRequest{Code: "AB3XY9"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
