package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bitquan/Stayboost-sub003/internal/db"
	"github.com/bitquan/Stayboost-sub003/internal/http/api"
	"github.com/bitquan/Stayboost-sub003/internal/http/api/admin/auth/packets"
	"github.com/bitquan/Stayboost-sub003/internal/http/middleware"
)

// AuthPublicModule mounts the shop registration and token-exchange endpoints.
// This stands in for the hosting platform's session system: a shop installs
// once, receives an API secret, then trades shop+secret for session tokens.
func AuthPublicModule(jwtSecret string, store db.Store) api.Module {
	ctl := newShopManager(jwtSecret, store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/auth/install", ctl.shopInstall)
		c.PUBLIC_POST("/auth/token", ctl.shopToken)
	})
}

type ShopManager struct {
	jwtSecret string
	store     db.Store
}

func newShopManager(secret string, store db.Store) *ShopManager {
	return &ShopManager{jwtSecret: secret, store: store}
}

// POST /api/auth/install
func (m *ShopManager) shopInstall(ctx *gin.Context) (any, *api.APIError) {
	var request packets.InstallRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if existing, _ := m.store.GetShopByDomain(request.Shop); existing != nil {
		log.Warn().Str("shop", request.Shop).Msg("install for already-registered shop")
		return nil, &api.APIError{Code: http.StatusConflict, Message: "shop already registered"}
	}

	// the plaintext secret is returned exactly once
	secret := uuid.NewString()
	hashed, err := middleware.HashSecret(secret)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not hash secret"}
	}

	shop, err := m.store.CreateShop(request.Shop, hashed)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not register shop"}
	}

	token, err := middleware.GenerateJWT(shop.Domain, m.jwtSecret)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not generate token"}
	}

	return gin.H{"shop": shop.Domain, "secret": secret, "token": token}, nil
}

// POST /api/auth/token
func (m *ShopManager) shopToken(ctx *gin.Context) (any, *api.APIError) {
	var request packets.TokenRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	shop, err := m.store.GetShopByDomain(request.Shop)
	if err != nil || shop == nil || !middleware.CheckSecret(shop.HashedSecret, request.Secret) {
		return nil, &api.APIError{Code: http.StatusUnauthorized, Message: middleware.ErrInvalidCredentials.Error()}
	}

	token, err := middleware.GenerateJWT(shop.Domain, m.jwtSecret)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not generate token"}
	}

	return gin.H{"token": token}, nil
}
