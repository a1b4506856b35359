package endpoints

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Signalis-Media/beacon/internal/db"
	"github.com/Signalis-Media/beacon/internal/http/api"
	"github.com/Signalis-Media/beacon/internal/http/api/admin/packets"
	"github.com/Signalis-Media/beacon/internal/model"
	"github.com/Signalis-Media/beacon/internal/mqtt"
)

type SceneController struct {
	store     db.Store
	publisher *mqtt.Publisher
}

// SceneModule mounts the slide write path. Editing a slide is the mutation
// that invalidates the owning scene's hash pair, so it lives next to the
// engine rather than in a generic CRUD layer.
func SceneModule(store db.Store, publisher *mqtt.Publisher) api.Module {
	ctl := &SceneController{store: store, publisher: publisher}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUT("/slides/:id", ctl.updateSlide)
		c.GET("/scenes/:id", ctl.getScene)
	})
}

// PUT /api/admin/slides/:id
func (s *SceneController) updateSlide(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	slideID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid slide id"}
	}

	var request packets.UpdateSlideRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	sceneID, err := s.store.UpdateSlideDesign(slideID, request.Design, request.Duration)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "slide not found"}
	}
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update slide"}
	}

	// Hashes are now NULL; players re-poll, observe the mismatch and
	// re-fetch, which recomputes the pair lazily.
	s.publisher.NotifyTenant(user.TenantID)
	return gin.H{"status": "updated", "scene_id": sceneID}, nil
}

// GET /api/admin/scenes/:id
func (s *SceneController) getScene(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	sceneID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid scene id"}
	}
	scene, err := s.store.GetSceneByID(sceneID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && scene.TenantID != user.TenantID) {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "scene not found"}
	}
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	return scene, nil
}
