package endpoints

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bitquan/Stayboost-sub003/internal/db"
	"github.com/bitquan/Stayboost-sub003/internal/http/api"
	"github.com/bitquan/Stayboost-sub003/internal/http/api/admin/packets"
	"github.com/bitquan/Stayboost-sub003/internal/http/middleware"
	"github.com/bitquan/Stayboost-sub003/internal/model"
)

type PopupController struct {
	store db.Store
}

func NewPopupController(store db.Store) *PopupController {
	return &PopupController{store: store}
}

func PopupModule(store db.Store) api.Module {
	ctl := NewPopupController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/popup", ctl.getSettings)
		c.PUT("/popup", ctl.updateSettings)
	})
}

func (p *PopupController) getSettings(ctx *gin.Context, shop *model.Shop) (any, *api.APIError) {
	settings, err := p.store.GetPopupSettings(shop.Domain)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			// a shop that never saved settings gets the defaults
			return defaultSettings(shop.Domain), nil
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to load settings"}
	}
	return settings, nil
}

func (p *PopupController) updateSettings(ctx *gin.Context, shop *model.Shop) (any, *api.APIError) {
	var request packets.UpdatePopupSettingsRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	current, err := p.store.GetPopupSettings(shop.Domain)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to load settings"}
		}
		current = defaultSettings(shop.Domain)
	}

	if request.Enabled != nil {
		current.Enabled = *request.Enabled
	}
	if request.Title != nil {
		current.Title = *request.Title
	}
	if request.Message != nil {
		current.Message = *request.Message
	}
	if request.DiscountCode != nil {
		current.DiscountCode = *request.DiscountCode
	}
	if request.DiscountPercentage != nil {
		current.DiscountPercentage = *request.DiscountPercentage
	}
	if request.DelaySeconds != nil {
		current.DelaySeconds = *request.DelaySeconds
	}
	if request.ShowOnce != nil {
		current.ShowOnce = *request.ShowOnce
	}

	saved, err := p.store.UpsertPopupSettings(current)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save settings"}
	}

	middleware.PublishShopUpdate(shop.Domain, "settings")

	return saved, nil
}

func defaultSettings(shop string) model.PopupSettings {
	return model.PopupSettings{
		Shop:               shop,
		Enabled:            false,
		Title:              "Wait! Don't leave yet!",
		Message:            "Get 10% off your first order",
		DiscountCode:       "SAVE10",
		DiscountPercentage: 10,
		DelaySeconds:       2,
		ShowOnce:           true,
	}
}
