package endpoints

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Signalis-Media/beacon/internal/http/api"
	"github.com/Signalis-Media/beacon/internal/http/api/player/packets"
	"github.com/Signalis-Media/beacon/internal/redis"
)

// PairingModule mounts the first-contact resolution endpoint: a device that
// knows only its pairing code gets back its id plus its first payload.
func PairingModule(ctl *PlayerController) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.Group.POST("/pair/resolve", ctl.resolveByPairingCode)
	})
}

// POST /api/player/pair/resolve
func (p *PlayerController) resolveByPairingCode(c *gin.Context) {
	var request packets.ResolveByPairingCodeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deviceID, err := redis.ConsumePairingCode(c, request.Code)
	if errors.Is(err, goredis.Nil) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown or expired pairing code"})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("pairing code lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "pairing lookup failed"})
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
