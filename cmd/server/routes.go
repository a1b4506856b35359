package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Signalis-Media/beacon/internal/content"
	"github.com/Signalis-Media/beacon/internal/db"
	"github.com/Signalis-Media/beacon/internal/devicecache"
	"github.com/Signalis-Media/beacon/internal/http/api"
	adminapi "github.com/Signalis-Media/beacon/internal/http/api/admin/endpoints"
	authapi "github.com/Signalis-Media/beacon/internal/http/api/admin/auth/endpoints"
	playerapi "github.com/Signalis-Media/beacon/internal/http/api/player/endpoints"
	"github.com/Signalis-Media/beacon/internal/mqtt"
	"github.com/Signalis-Media/beacon/internal/resolver"
	"github.com/Signalis-Media/beacon/internal/storage"
)

// RegisterRoutes sets up all application routes.
func RegisterRoutes(r *gin.Engine, env Environment, store db.Store, mediaStorage storage.Storage, publisher *mqtt.Publisher) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
			"If-None-Match",
			"X-If-None-Match",
		},
		ExposeHeaders: []string{
			"Content-Length",
			"ETag",
			"X-Content-ETag",
		},
		AllowCredentials: false,
	}))

	res := resolver.New(store)
	materializer := content.NewMaterializer(store, mediaStorage)
	coordinator := devicecache.NewCoordinator(store, res, store, redisPresence(env), devicecache.DefaultOfflineThreshold)
	playerCtl := playerapi.NewPlayerController(store, res, materializer, coordinator)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		authapi.AuthPublicModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: env.SecretKey,
		Store:     store,
	},
		adminapi.EmergencyModule(store, publisher),
		adminapi.DeviceModule(store, coordinator, publisher),
		adminapi.SceneModule(store, publisher),
		authapi.AuthSessionModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/player",
	},
		playerapi.ContentModule(playerCtl),
		playerapi.PairingModule(playerCtl),
	)

	// Static content
	if !env.UseSpaces {
		r.Static("/uploads", "./uploads")
	}
}
