package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bitquan/Stayboost-sub003/internal/db"
	"github.com/bitquan/Stayboost-sub003/internal/http/api"
	"github.com/bitquan/Stayboost-sub003/internal/http/api/admin/packets"
	"github.com/bitquan/Stayboost-sub003/internal/model"
)

const defaultStatsDays = 30

type AnalyticsController struct {
	store db.Store
	now   func() time.Time
}

func NewAnalyticsController(store db.Store) *AnalyticsController {
	return &AnalyticsController{store: store, now: time.Now}
}

func AnalyticsModule(store db.Store) api.Module {
	ctl := NewAnalyticsController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/analytics/stats", ctl.getStats)
	})
}

func (a *AnalyticsController) getStats(ctx *gin.Context, shop *model.Shop) (any, *api.APIError) {
	var query packets.StatsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	days := query.Days
	if days == 0 {
		days = defaultStatsDays
	}

	since := a.now().UTC().AddDate(0, 0, -days).Truncate(24 * time.Hour)
	series, err := a.store.GetDailyStats(shop.Domain, since)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to load stats"}
	}
	if series == nil {
		series = []model.DailyStat{}
	}

	response := packets.StatsResponse{Days: days, Series: series}
	for _, d := range series {
		response.Impressions += d.Impressions
		response.Conversions += d.Conversions
		response.Dismissals += d.Dismissals
	}
	if response.Impressions > 0 {
		response.ConversionRate = float64(response.Conversions) / float64(response.Impressions)
	}
	return response, nil
}
