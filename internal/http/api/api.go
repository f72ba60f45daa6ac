package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bitquan/Stayboost-sub003/internal/http/middleware"
	"github.com/bitquan/Stayboost-sub003/internal/model"
)

type APIError struct {
	Code    int
	Message string
}

type HandlerFuncWithShop func(ctx *gin.Context, shop *model.Shop) (any, *APIError)
type HandlerFunc func(ctx *gin.Context) (any, *APIError)

func ResolveEndpointWithShop(h HandlerFuncWithShop) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		shop, ok := middleware.GetCurrentShop(ctx)
		if !ok {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		result, apiErr := h(ctx, shop)
		if apiErr != nil {
			ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}

		ctx.JSON(http.StatusOK, result)
	}
}

func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		if apiErr != nil {
			ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}

		ctx.JSON(http.StatusOK, result)
	}
}
