package db

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/bitquan/Stayboost-sub003/internal/model"
)

func (s *pgStore) CreateTemplate(shop, name, category string, config json.RawMessage) (model.Template, error) {
	var t model.Template
	const q = `
	INSERT INTO templates (shop, name, category, config, created_at, updated_at)
	VALUES ($1, $2, $3, $4, now(), now())
	RETURNING id, shop, name, category, config, created_at, updated_at;`
	if err := s.db.Get(&t, q, shop, name, category, []byte(config)); err != nil {
		log.Error().Err(err).Str("shop", shop).Msg("CreateTemplate failed")
		return model.Template{}, err
	}
	return t, nil
}

func (s *pgStore) GetTemplate(shop string, id int) (model.Template, error) {
	var t model.Template
	const q = `
	SELECT id, shop, name, category, config, created_at, updated_at
	  FROM templates WHERE shop = $1 AND id = $2;`
	if err := s.db.Get(&t, q, shop, id); err != nil {
		return model.Template{}, wrapNotFound(err)
	}
	return t, nil
}

func (s *pgStore) ListTemplates(shop string) ([]model.Template, error) {
	var out []model.Template
	const q = `
	SELECT id, shop, name, category, config, created_at, updated_at
	  FROM templates WHERE shop = $1 ORDER BY id;`
	if err := s.db.Select(&out, q, shop); err != nil {
		log.Error().Err(err).Str("shop", shop).Msg("ListTemplates failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) UpdateTemplate(t model.Template) (model.Template, error) {
	var out model.Template
	const q = `
	UPDATE templates
	   SET name = $3, category = $4, config = $5, updated_at = now()
	 WHERE shop = $1 AND id = $2
	RETURNING id, shop, name, category, config, created_at, updated_at;`
	if err := s.db.Get(&out, q, t.Shop, t.ID, t.Name, t.Category, []byte(t.Config)); err != nil {
		log.Error().Err(err).Int("template_id", t.ID).Msg("UpdateTemplate failed")
		return model.Template{}, wrapNotFound(err)
	}
	return out, nil
}

func (s *pgStore) DeleteTemplate(shop string, id int) error {
	_, err := s.db.Exec(`DELETE FROM templates WHERE shop = $1 AND id = $2;`, shop, id)
	if err != nil {
		log.Error().Err(err).Int("template_id", id).Msg("DeleteTemplate failed")
	}
	return err
}

// TemplateInUse reports whether any schedule still references the template.
func (s *pgStore) TemplateInUse(shop string, id int) (bool, error) {
	var count int
	const q = `SELECT count(*) FROM schedules WHERE shop = $1 AND template_id = $2;`
	if err := s.db.Get(&count, q, shop, id); err != nil {
		return false, err
	}
	return count > 0, nil
}
