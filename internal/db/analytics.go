package db

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bitquan/Stayboost-sub003/internal/model"
)

func (s *pgStore) InsertPopupEvent(e model.PopupEvent) error {
	const q = `
	INSERT INTO popup_events (shop, event_type, template_id, visitor_id, occurred_at)
	VALUES ($1, $2, $3, $4, $5);`
	_, err := s.db.Exec(q, e.Shop, e.EventType, e.TemplateID, e.VisitorID, e.OccurredAt)
	if err != nil {
		log.Error().Err(err).Str("shop", e.Shop).Str("event", e.EventType).Msg("InsertPopupEvent failed")
	}
	return err
}

func (s *pgStore) GetDailyStats(shop string, since time.Time) ([]model.DailyStat, error) {
	var out []model.DailyStat
	const q = `
	SELECT date_trunc('day', occurred_at) AS day,
	       count(*) FILTER (WHERE event_type = 'impression') AS impressions,
	       count(*) FILTER (WHERE event_type = 'conversion') AS conversions,
	       count(*) FILTER (WHERE event_type = 'dismissal')  AS dismissals
	  FROM popup_events
	 WHERE shop = $1 AND occurred_at >= $2
	 GROUP BY 1
	 ORDER BY 1;`
	if err := s.db.Select(&out, q, shop, since); err != nil {
		log.Error().Err(err).Str("shop", shop).Msg("GetDailyStats failed")
		return nil, err
	}
	return out, nil
}
