package endpoints

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Signalis-Media/beacon/internal/content"
	"github.com/Signalis-Media/beacon/internal/db"
	"github.com/Signalis-Media/beacon/internal/devicecache"
	"github.com/Signalis-Media/beacon/internal/http/api"
	"github.com/Signalis-Media/beacon/internal/http/api/player/packets"
	"github.com/Signalis-Media/beacon/internal/model"
	"github.com/Signalis-Media/beacon/internal/resolver"
)

// PlayerController serves the unauthenticated device-facing surface: full
// content resolution, the cheap checksum probe, sync reporting and the
// offline-event backlog flush.
type PlayerController struct {
	store        db.Store
	resolver     *resolver.Resolver
	materializer *content.Materializer
	cache        *devicecache.Coordinator
}

func NewPlayerController(store db.Store, res *resolver.Resolver, mat *content.Materializer, cache *devicecache.Coordinator) *PlayerController {
	return &PlayerController{store: store, resolver: res, materializer: mat, cache: cache}
}

// ContentModule mounts the /screens/* player endpoints.
func ContentModule(ctl *PlayerController) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.Group.GET("/screens/:id/content", ctl.resolveContent)
		c.Group.GET("/screens/:id/checksums", ctl.checkContentChecksums)
		c.Group.POST("/screens/:id/sync", ctl.recordSync)
		c.Group.POST("/screens/:id/events/sync", ctl.syncOfflineEvents)
	})
}

// GET /api/player/screens/:id/content
func (p *PlayerController) resolveContent(c *gin.Context) {
	deviceID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
		return
	}

	device, err := p.store.GetDeviceByID(deviceID)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp, apiErr := p.resolveForDevice(device)
	if apiErr != nil {
		c.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// resolveForDevice runs heartbeat + resolve + materialize for one device.
// Shared with the pairing-code path.
func (p *PlayerController) resolveForDevice(device model.Device) (packets.ResolveContentResponse, *api.APIError) {
	now := time.Now().UTC()
	p.cache.Heartbeat(device.ID, now)

	res, err := p.resolver.ResolveDevice(device, now)
	if errors.Is(err, resolver.ErrNoContent) {
		return packets.ResolveContentResponse{DeviceID: device.ID, Empty: true}, nil
	}
	if err != nil {
		log.Error().Err(err).Int("device_id", device.ID).Msg("content resolution failed")
		return packets.ResolveContentResponse{}, &api.APIError{Code: http.StatusInternalServerError, Message: "resolution failed"}
	}

	payload, err := p.materializer.Materialize(res)
	if err != nil {
		log.Error().Err(err).Int("device_id", device.ID).Str("ref", res.Ref.String()).Msg("materialization failed")
		return packets.ResolveContentResponse{}, &api.APIError{Code: http.StatusInternalServerError, Message: "materialization failed"}
	}

	return packets.ResolveContentResponse{DeviceID: device.ID, Content: &payload}, nil
}

// GET /api/player/screens/:id/checksums
func (p *PlayerController) checkContentChecksums(c *gin.Context) {
	deviceID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
		return
	}

	now := time.Now().UTC()
	report, err := p.cache.CheckStaleness(deviceID, now)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Int("device_id", deviceID).Msg("staleness check failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "staleness check failed"})
		return
	}

	// The probe is the high-frequency poll, so it carries the heartbeat too.
	p.cache.Heartbeat(deviceID, now)

	c.JSON(http.StatusOK, report)
}

// POST /api/player/screens/:id/sync
func (p *PlayerController) recordSync(c *gin.Context) {
	deviceID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
		return
	}

	var request packets.RecordSyncRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now().UTC()
	if err := p.cache.RecordSync(deviceID, request.SceneID, request.ContentHash, request.MediaHash, model.CacheStatus(request.Status), now); err != nil {
		log.Error().Err(err).Int("device_id", deviceID).Msg("failed to record sync")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record sync"})
		return
	}
	p.cache.Heartbeat(deviceID, now)

	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}

// POST /api/player/screens/:id/events/sync
func (p *PlayerController) syncOfflineEvents(c *gin.Context) {
	deviceID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
		return
	}

	if _, err := p.store.GetDeviceByID(deviceID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}

	var request packets.SyncOfflineEventsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now().UTC()
	result := p.cache.SyncOfflineEvents(deviceID, request.Events, now)
	p.cache.Heartbeat(deviceID, now)

	c.JSON(http.StatusOK, result)
}
