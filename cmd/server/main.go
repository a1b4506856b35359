package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Signalis-Media/beacon/internal/db"
	"github.com/Signalis-Media/beacon/internal/devicecache"
	"github.com/Signalis-Media/beacon/internal/mqtt"
	"github.com/Signalis-Media/beacon/internal/redis"
	"github.com/Signalis-Media/beacon/internal/storage"
)

func main() {
	env := LoadEnvironment()

	if env.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// initialize PostgreSQL
	if err := db.Init(env.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init failed")
	}

	// run pending migrations
	if err := db.RunMigrations(env.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	// redis backs pairing codes and device presence
	redis.InitRedis(env.RedisAddress, env.RedisUsername, env.RedisPassword)

	store := db.NewStore()
	mediaStorage := buildStorage(env)
	publisher := buildPublisher(env)

	r := gin.Default()
	RegisterRoutes(r, env, store, mediaStorage, publisher)

	log.Info().Str("address", env.ServerAddress).Msg("listening")
	if err := r.Run(env.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func buildStorage(env Environment) storage.Storage {
	if env.UseSpaces {
		s, err := storage.NewSpacesStorage(
			env.SpacesEndpoint,
			env.SpacesRegion,
			env.SpacesBucket,
			env.SpacesCDNURL,
			env.SpacesAccessKey,
			env.SpacesSecretKey,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("spaces storage init failed")
		}
		return s
	}
	return storage.NewLocalStorage(env.PublicBaseURL)
}

// buildPublisher connects to the MQTT broker when one is configured; a nil
// publisher disables push refresh notices and players fall back to polling.
func buildPublisher(env Environment) *mqtt.Publisher {
	if env.MQTTBrokerURL == "" {
		return nil
	}
	publisher, err := mqtt.NewPublisher(env.MQTTBrokerURL, "beacon-server")
	if err != nil {
		log.Error().Err(err).Msg("MQTT init failed, continuing without push notices")
		return nil
	}
	return publisher
}

// redisPresence enables the presence keys only when redis is configured.
func redisPresence(env Environment) devicecache.Presence {
	if env.RedisAddress == "" {
		return nil
	}
	return redis.PresenceStore{}
}
