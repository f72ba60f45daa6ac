package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bitquan/Stayboost-sub003/internal/db"
	"github.com/bitquan/Stayboost-sub003/internal/http/middleware"
	"github.com/bitquan/Stayboost-sub003/internal/redis"
	"github.com/bitquan/Stayboost-sub003/internal/schedule"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("APP_ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	env := LoadEnvironment()

	// initialize PostgreSQL
	if err := db.Init(env.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init failed")
	}

	// run pending migrations
	if err := db.RunMigrations(env.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migration failed")
	}

	store := db.NewStore(db.DB)

	if env.RedisAddress != "" {
		redis.InitRedis(env.RedisAddress, env.RedisUsername, env.RedisPassword)
	}

	// live widget updates are optional; without a broker every publish is a no-op
	if env.MQTTBrokerURL != "" {
		if err := middleware.InitEventClient(env.MQTTBrokerURL, "stayboost-server"); err != nil {
			log.Error().Err(err).Msg("MQTT init failed, widget push disabled")
		}
		defer middleware.CleanupEvents()
	}

	// background sweep that records activations for auto-activate schedules
	activator := schedule.NewActivator(store)
	if err := activator.Start(); err != nil {
		log.Fatal().Err(err).Msg("activator start failed")
	}
	defer activator.Stop()

	storageSystem := InitStorage(env)

	if env.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	RegisterRoutes(r, env, store, storageSystem)

	log.Info().Str("address", env.ServerAddress).Msg("listening")
	if err := r.Run(env.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
