package db

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/bitquan/Stayboost-sub003/internal/model"
)

func (s *pgStore) CreateABTest(shop, name string) (model.ABTest, error) {
	var t model.ABTest
	const q = `
	INSERT INTO ab_tests (shop, name, status, created_at, updated_at)
	VALUES ($1, $2, 'draft', now(), now())
	RETURNING id, shop, name, status, created_at, updated_at;`
	if err := s.db.Get(&t, q, shop, name); err != nil {
		log.Error().Err(err).Str("shop", shop).Msg("CreateABTest failed")
		return model.ABTest{}, err
	}
	return t, nil
}

func (s *pgStore) GetABTest(shop string, id int) (model.ABTest, error) {
	var t model.ABTest
	const q = `SELECT id, shop, name, status, created_at, updated_at FROM ab_tests WHERE shop = $1 AND id = $2;`
	if err := s.db.Get(&t, q, shop, id); err != nil {
		return model.ABTest{}, wrapNotFound(err)
	}
	return t, nil
}

func (s *pgStore) ListABTests(shop string) ([]model.ABTest, error) {
	var out []model.ABTest
	const q = `SELECT id, shop, name, status, created_at, updated_at FROM ab_tests WHERE shop = $1 ORDER BY id;`
	if err := s.db.Select(&out, q, shop); err != nil {
		log.Error().Err(err).Str("shop", shop).Msg("ListABTests failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) UpdateABTestStatus(shop string, id int, status string) error {
	res, err := s.db.Exec(`
	UPDATE ab_tests SET status = $3, updated_at = now()
	 WHERE shop = $1 AND id = $2;`, shop, id, status)
	if err != nil {
		log.Error().Err(err).Int("test_id", id).Msg("UpdateABTestStatus failed")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *pgStore) DeleteABTest(shop string, id int) error {
	_, err := s.db.Exec(`DELETE FROM ab_tests WHERE shop = $1 AND id = $2;`, shop, id)
	if err != nil {
		log.Error().Err(err).Int("test_id", id).Msg("DeleteABTest failed")
	}
	return err
}

func (s *pgStore) AddABVariant(testID int, name string, templateID, weight int) (model.ABVariant, error) {
	var v model.ABVariant
	const q = `
	INSERT INTO ab_variants (test_id, name, template_id, weight, created_at)
	VALUES ($1, $2, $3, $4, now())
	RETURNING id, test_id, name, template_id, weight, created_at;`
	if err := s.db.Get(&v, q, testID, name, templateID, weight); err != nil {
		log.Error().Err(err).Int("test_id", testID).Msg("AddABVariant failed")
		return model.ABVariant{}, err
	}
	return v, nil
}

func (s *pgStore) ListABVariants(testID int) ([]model.ABVariant, error) {
	var out []model.ABVariant
	const q = `
	SELECT id, test_id, name, template_id, weight, created_at
	  FROM ab_variants WHERE test_id = $1 ORDER BY id;`
	if err := s.db.Select(&out, q, testID); err != nil {
		log.Error().Err(err).Int("test_id", testID).Msg("ListABVariants failed")
		return nil, err
	}
	return out, nil
}

// GetRunningABTest returns the shop's running test and its variants, or
// (nil, nil, nil) when no test is running.
func (s *pgStore) GetRunningABTest(shop string) (*model.ABTest, []model.ABVariant, error) {
	var t model.ABTest
	const q = `
	SELECT id, shop, name, status, created_at, updated_at
	  FROM ab_tests
	 WHERE shop = $1 AND status = 'running'
	 ORDER BY updated_at DESC
	 LIMIT 1;`
	if err := s.db.Get(&t, q, shop); err != nil {
		if errors.Is(wrapNotFound(err), ErrNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	variants, err := s.ListABVariants(t.ID)
	if err != nil {
		return nil, nil, err
	}
	return &t, variants, nil
}
