package db

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Signalis-Media/beacon/internal/model"
)

// Store exposes the persistence surface consumed by the resolution engine
// and the HTTP layer. One interface keeps handler wiring and tests uniform.
type Store interface {
	// users
	CreateUser(tenantID int, email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)

	// devices
	GetDeviceByID(id int) (model.Device, error)
	GetDeviceByHardwareID(hardwareID string) (model.Device, error)
	ListDevices(tenantID int) ([]model.Device, error)
	TouchDeviceSeen(deviceID int, at time.Time) error
	RecordDeviceSync(deviceID int, sceneID *int, contentHash, mediaHash *string, status model.CacheStatus, at time.Time) error
	MarkDeviceOffline(deviceID int, at time.Time, status model.CacheStatus) error
	SetDeviceOverrideScene(deviceID int, sceneID *int) error
	SetDeviceAssignments(deviceID int, layoutID, playlistID, sceneScheduleID, scheduleID *int) error

	// groups
	GetScreenGroupByID(id int) (model.ScreenGroup, error)
	SetGroupOverrideScene(groupID int, sceneID *int) error

	// scenes and slides
	GetSceneByID(id int) (model.Scene, error)
	GetSceneVariantByLanguage(languageGroupID int, language string) (model.Scene, error)
	GetDefaultSceneVariant(languageGroupID int) (model.Scene, error)
	ListSlides(sceneID int) ([]model.Slide, error)
	SetSceneHashes(sceneID int, contentHash, mediaHash string) (model.Scene, error)
	UpdateSlideDesign(slideID int, design json.RawMessage, duration *int) (int, error)

	// layouts and playlists
	GetLayoutByID(id int) (model.Layout, error)
	ListZones(layoutID int) ([]model.Zone, error)
	GetPlaylistByID(id int) (model.Playlist, error)
	GetMediaByID(id int) (model.Media, error)

	// schedules
	ListScheduleEntries(scheduleID int) ([]model.ScheduleEntry, error)

	// emergency
	GetActiveEmergency(tenantID int) (model.EmergencyState, error)
	SetEmergency(tenantID int, contentType string, contentID int, startedAt time.Time, durationMinutes *int, createdBy int) (model.EmergencyState, error)
	ClearExpiredEmergency(tenantID int, now time.Time) (bool, error)
	CancelEmergency(tenantID int) error

	// offline events
	InsertOfflineEvent(event model.OfflineEvent) error
	ListOfflineEvents(deviceID int, limit int) ([]model.OfflineEvent, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore() Store {
	return &pgStore{db: DB}
}
