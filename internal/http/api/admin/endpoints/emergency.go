package endpoints

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Signalis-Media/beacon/internal/db"
	"github.com/Signalis-Media/beacon/internal/http/api"
	"github.com/Signalis-Media/beacon/internal/http/api/admin/packets"
	"github.com/Signalis-Media/beacon/internal/model"
	"github.com/Signalis-Media/beacon/internal/mqtt"
)

type EmergencyController struct {
	store     db.Store
	publisher *mqtt.Publisher
}

// EmergencyModule mounts the tenant-wide broadcast override endpoints.
// Lifecycle: set by an admin action, cleared by either expiry-on-read during
// resolution or an explicit cancel here.
func EmergencyModule(store db.Store, publisher *mqtt.Publisher) api.Module {
	ctl := &EmergencyController{store: store, publisher: publisher}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/emergency", ctl.getEmergency)
		c.POST("/emergency", ctl.setEmergency)
		c.DELETE("/emergency", ctl.cancelEmergency)
	})
}

// GET /api/admin/emergency
func (e *EmergencyController) getEmergency(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	em, err := e.store.GetActiveEmergency(user.TenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "no active emergency"}
	}
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	return emergencyResponse(em), nil
}

// POST /api/admin/emergency
func (e *EmergencyController) setEmergency(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.SetEmergencyRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if _, err := model.NewContentRef(request.ContentType, request.ContentID); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	em, err := e.store.SetEmergency(user.TenantID, request.ContentType, request.ContentID, time.Now().UTC(), request.DurationMinutes, user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not set emergency"}
	}

	e.publisher.NotifyTenant(user.TenantID)
	return emergencyResponse(em), nil
}

// DELETE /api/admin/emergency
func (e *EmergencyController) cancelEmergency(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if err := e.store.CancelEmergency(user.TenantID); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not cancel emergency"}
	}
	e.publisher.NotifyTenant(user.TenantID)
	return gin.H{"status": "cancelled"}, nil
}

func emergencyResponse(em model.EmergencyState) packets.EmergencyResponse {
	return packets.EmergencyResponse{
		ID:              em.ID,
		ContentType:     em.ContentType,
		ContentID:       em.ContentID,
		StartedAt:       em.StartedAt,
		DurationMinutes: em.DurationMinutes,
		Active:          em.Active,
	}
}
