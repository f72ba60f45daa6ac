package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bitquan/Stayboost-sub003/internal/db"
	"github.com/bitquan/Stayboost-sub003/internal/http/api"
	adminapi "github.com/bitquan/Stayboost-sub003/internal/http/api/admin/endpoints"
	authapi "github.com/bitquan/Stayboost-sub003/internal/http/api/admin/auth/endpoints"
	storefrontapi "github.com/bitquan/Stayboost-sub003/internal/http/api/storefront/endpoints"
	"github.com/bitquan/Stayboost-sub003/internal/redis"
	"github.com/bitquan/Stayboost-sub003/internal/storage"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, env Environment, store db.Store, storageSystem storage.Storage) {
	// CORS: admin dashboard and storefront widgets call from shop origins
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api",
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
		adminapi.PopupModule(store),
		adminapi.TemplateModule(store),
		adminapi.ScheduleModule(store),
		adminapi.ABTestModule(store),
		adminapi.AnalyticsModule(store),
		adminapi.BackupModule(store, storageSystem),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/storefront",
	},
		storefrontapi.StorefrontModule(store),
	)

	r.GET("/healthz", func(c *gin.Context) {
		status := http.StatusOK
		health := gin.H{"database": "ok", "redis": "ok"}
		if err := store.Ping(); err != nil {
			health["database"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if err := redis.Ping(c); err != nil {
			health["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, health)
	})
}
