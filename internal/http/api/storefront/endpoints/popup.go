package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/bitquan/Stayboost-sub003/internal/abtest"
	"github.com/bitquan/Stayboost-sub003/internal/db"
	"github.com/bitquan/Stayboost-sub003/internal/http/api"
	"github.com/bitquan/Stayboost-sub003/internal/http/api/storefront/packets"
	"github.com/bitquan/Stayboost-sub003/internal/model"
	"github.com/bitquan/Stayboost-sub003/internal/redis"
	"github.com/bitquan/Stayboost-sub003/internal/schedule"
)

// how long the show-once cap remembers a visitor
const seenTTL = 24 * time.Hour

type StorefrontController struct {
	store db.Store
	now   func() time.Time
}

func NewStorefrontController(store db.Store) *StorefrontController {
	return &StorefrontController{store: store, now: time.Now}
}

// StorefrontModule mounts the widget-facing endpoints. No JWT here: the
// widget runs on the shop's public pages.
func StorefrontModule(store db.Store) api.Module {
	ctl := NewStorefrontController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/popup", ctl.getPopup)
		c.PUBLIC_POST("/events", ctl.recordEvent)
	})
}

// GET /api/storefront/popup?shop=&visitor=
//
// Resolution happens fresh on every request; nothing about the "current
// active template" is cached.
func (s *StorefrontController) getPopup(ctx *gin.Context) (any, *api.APIError) {
	var query packets.PopupQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	settings, err := s.store.GetPopupSettings(query.Shop)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return packets.PopupResponse{Enabled: false}, nil
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to load settings"}
	}
	if !settings.Enabled {
		return packets.PopupResponse{Enabled: false}, nil
	}

	if settings.ShowOnce && !redis.MarkShown(ctx, query.Shop, query.Visitor, seenTTL) {
		return packets.PopupResponse{Enabled: false, Suppressed: true}, nil
	}

	response := packets.PopupResponse{
		Enabled:            true,
		Title:              settings.Title,
		Message:            settings.Message,
		DiscountCode:       settings.DiscountCode,
		DiscountPercentage: settings.DiscountPercentage,
		DelaySeconds:       settings.DelaySeconds,
	}

	templateID, variantName, apiErr := s.pickTemplate(ctx, query.Shop, query.Visitor)
	if apiErr != nil {
		return nil, apiErr
	}
	if templateID != 0 {
		tpl, err := s.store.GetTemplate(query.Shop, templateID)
		if err != nil {
			log.Error().Err(err).Int("template_id", templateID).Str("shop", query.Shop).
				Msg("resolved template missing")
		} else {
			response.Template = &packets.TemplatePayload{
				ID:       tpl.ID,
				Name:     tpl.Name,
				Category: tpl.Category,
				Config:   tpl.Config,
			}
			response.ABVariant = variantName
		}
	}

	return response, nil
}

// pickTemplate resolves the scheduled template for "now" and then lets a
// running A/B test override it for this visitor.
func (s *StorefrontController) pickTemplate(ctx *gin.Context, shop, visitor string) (int, string, *api.APIError) {
	active, err := s.store.ListActiveSchedules(shop)
	if err != nil {
		return 0, "", &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list schedules"}
	}
	resolution, err := schedule.ResolveActive(active, s.now().UTC())
	if err != nil {
		return 0, "", &api.APIError{Code: http.StatusInternalServerError, Message: "failed to resolve schedule"}
	}

	templateID := 0
	if resolution != nil {
		templateID = resolution.Schedule.TemplateID
	}

	test, variants, err := s.store.GetRunningABTest(shop)
	if err != nil {
		return 0, "", &api.APIError{Code: http.StatusInternalServerError, Message: "failed to load ab test"}
	}
	if test != nil && visitor != "" {
		if v := abtest.PickVariant(test.ID, visitor, variants); v != nil {
			return v.TemplateID, v.Name, nil
		}
	}
	return templateID, "", nil
}

// POST /api/storefront/events
func (s *StorefrontController) recordEvent(ctx *gin.Context) (any, *api.APIError) {
	var request packets.RecordEventRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	// events are only accepted for registered shops
	if _, err := s.store.GetShopByDomain(request.Shop); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "shop not found"}
	}

	now := s.now().UTC()
	event := model.PopupEvent{
		Shop:       request.Shop,
		EventType:  request.EventType,
		TemplateID: request.TemplateID,
		VisitorID:  request.VisitorID,
		OccurredAt: now,
	}
	if err := s.store.InsertPopupEvent(event); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not record event"}
	}

	redis.IncrEvent(ctx, request.Shop, request.EventType, now)

	return packets.EventAck{Recorded: true, OccurredAt: now}, nil
}
