package endpoints

import (
	"database/sql"
	"errors"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Signalis-Media/beacon/internal/db"
	"github.com/Signalis-Media/beacon/internal/devicecache"
	"github.com/Signalis-Media/beacon/internal/http/api"
	"github.com/Signalis-Media/beacon/internal/http/api/admin/packets"
	"github.com/Signalis-Media/beacon/internal/model"
	"github.com/Signalis-Media/beacon/internal/mqtt"
	"github.com/Signalis-Media/beacon/internal/redis"
)

const pairingCodeTTL = 5 * time.Minute

type DeviceController struct {
	store     db.Store
	cache     *devicecache.Coordinator
	publisher *mqtt.Publisher
}

// DeviceModule mounts the operator-facing screen endpoints: fleet status,
// manual overrides, content assignments and pairing-code issuance.
func DeviceModule(store db.Store, cache *devicecache.Coordinator, publisher *mqtt.Publisher) api.Module {
	ctl := &DeviceController{store: store, cache: cache, publisher: publisher}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/screens", ctl.listDevices)
		c.POST("/screens/:id/override", ctl.setDeviceOverride)
		c.POST("/screens/:id/assignments", ctl.setDeviceAssignments)
		c.POST("/screens/:id/pairing-code", ctl.issuePairingCode)
		c.POST("/groups/:id/override", ctl.setGroupOverride)
	})
}

// GET /api/admin/screens
func (d *DeviceController) listDevices(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	devices, err := d.store.ListDevices(user.TenantID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}

	now := time.Now().UTC()
	out := make([]packets.DeviceStatusResponse, 0, len(devices))
	for _, device := range devices {
		// Lazily apply the offline transition for devices whose
		// heartbeat lapsed since we last looked.
		if err := d.cache.ReconcileConnectivity(device, now); err != nil {
			log.Error().Err(err).Int("device_id", device.ID).Msg("connectivity reconciliation failed")
		}
		out = append(out, packets.DeviceStatusResponse{
			ID:           device.ID,
			Name:         device.Name,
			Location:     device.Location,
			Paired:       device.Paired,
			GroupID:      device.GroupID,
			Timezone:     device.Timezone,
			Language:     device.Language,
			CacheStatus:  string(device.CacheStatus),
			LastSeenAt:   device.LastSeenAt,
			LastSyncedAt: device.LastSyncedAt,
			OfflineSince: device.OfflineSince,
			Online:       device.LastSeenAt != nil && now.Sub(*device.LastSeenAt) <= devicecache.DefaultOfflineThreshold,
		})
	}
	return out, nil
}

// POST /api/admin/screens/:id/override
func (d *DeviceController) setDeviceOverride(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	device, apiErr := d.tenantDevice(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.SetOverrideRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := d.store.SetDeviceOverrideScene(device.ID, request.SceneID); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not set override"}
	}

	d.publisher.NotifyDevice(device.ID)
	return gin.H{"status": "updated"}, nil
}

// POST /api/admin/screens/:id/assignments
func (d *DeviceController) setDeviceAssignments(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	device, apiErr := d.tenantDevice(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.SetAssignmentsRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := d.store.SetDeviceAssignments(device.ID, request.LayoutID, request.PlaylistID, request.SceneScheduleID, request.ScheduleID); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update assignments"}
	}

	d.publisher.NotifyDevice(device.ID)
	return gin.H{"status": "updated"}, nil
}

// POST /api/admin/screens/:id/pairing-code
func (d *DeviceController) issuePairingCode(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	device, apiErr := d.tenantDevice(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	code := generatePairCode()
	if err := redis.StorePairingCode(ctx, code, device.ID, pairingCodeTTL); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not store pairing code"}
	}

	return packets.PairingCodeResponse{
		Code:      code,
		ExpiresAt: time.Now().UTC().Add(pairingCodeTTL),
	}, nil
}

// POST /api/admin/groups/:id/override
func (d *DeviceController) setGroupOverride(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	groupID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid group id"}
	}
	group, err := d.store.GetScreenGroupByID(groupID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && group.TenantID != user.TenantID) {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "group not found"}
	}
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}

	var request packets.SetOverrideRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := d.store.SetGroupOverrideScene(groupID, request.SceneID); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not set group override"}
	}

	d.publisher.NotifyTenant(user.TenantID)
	return gin.H{"status": "updated"}, nil
}

// tenantDevice loads the :id device and checks it belongs to the caller's
// tenant.
func (d *DeviceController) tenantDevice(ctx *gin.Context, user *model.User) (model.Device, *api.APIError) {
	deviceID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return model.Device{}, &api.APIError{Code: http.StatusBadRequest, Message: "invalid device id"}
	}
	device, err := d.store.GetDeviceByID(deviceID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && device.TenantID != user.TenantID) {
		return model.Device{}, &api.APIError{Code: http.StatusNotFound, Message: "device not found"}
	}
	if err != nil {
		return model.Device{}, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	return device, nil
}

func generatePairCode() string {
	const charset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	b := make([]byte, 6)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
