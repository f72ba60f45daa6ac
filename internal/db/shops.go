package db

import (
	"github.com/rs/zerolog/log"

	"github.com/bitquan/Stayboost-sub003/internal/model"
)

func (s *pgStore) CreateShop(domain, hashedSecret string) (model.Shop, error) {
	var sh model.Shop
	const q = `
	INSERT INTO shops (domain, hashed_secret, created_at, updated_at)
	VALUES ($1, $2, now(), now())
	RETURNING id, domain, hashed_secret, created_at, updated_at;`
	if err := s.db.Get(&sh, q, domain, hashedSecret); err != nil {
		log.Error().Err(err).Str("shop", domain).Msg("CreateShop failed")
		return model.Shop{}, err
	}
	return sh, nil
}

func (s *pgStore) GetShopByDomain(domain string) (*model.Shop, error) {
	var sh model.Shop
	const q = `SELECT id, domain, hashed_secret, created_at, updated_at FROM shops WHERE domain = $1;`
	if err := s.db.Get(&sh, q, domain); err != nil {
		return nil, wrapNotFound(err)
	}
	return &sh, nil
}
