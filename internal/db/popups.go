package db

import (
	"github.com/rs/zerolog/log"

	"github.com/bitquan/Stayboost-sub003/internal/model"
)

const popupColumns = `
	id, shop, enabled, title, message, discount_code, discount_percentage,
	delay_seconds, show_once, created_at, updated_at`

func (s *pgStore) GetPopupSettings(shop string) (model.PopupSettings, error) {
	var p model.PopupSettings
	err := s.db.Get(&p, `SELECT `+popupColumns+` FROM popup_settings WHERE shop = $1;`, shop)
	if err != nil {
		return model.PopupSettings{}, wrapNotFound(err)
	}
	return p, nil
}

// UpsertPopupSettings writes the singleton settings row for a shop.
func (s *pgStore) UpsertPopupSettings(p model.PopupSettings) (model.PopupSettings, error) {
	var out model.PopupSettings
	const q = `
	INSERT INTO popup_settings
	  (shop, enabled, title, message, discount_code, discount_percentage,
	   delay_seconds, show_once, created_at, updated_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,now(),now())
	ON CONFLICT (shop) DO UPDATE SET
	  enabled = EXCLUDED.enabled,
	  title = EXCLUDED.title,
	  message = EXCLUDED.message,
	  discount_code = EXCLUDED.discount_code,
	  discount_percentage = EXCLUDED.discount_percentage,
	  delay_seconds = EXCLUDED.delay_seconds,
	  show_once = EXCLUDED.show_once,
	  updated_at = now()
	RETURNING ` + popupColumns + `;`
	err := s.db.Get(&out, q,
		p.Shop, p.Enabled, p.Title, p.Message, p.DiscountCode,
		p.DiscountPercentage, p.DelaySeconds, p.ShowOnce)
	if err != nil {
		log.Error().Err(err).Str("shop", p.Shop).Msg("UpsertPopupSettings failed")
		return model.PopupSettings{}, err
	}
	return out, nil
}
