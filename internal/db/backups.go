package db

import (
	"github.com/rs/zerolog/log"

	"github.com/bitquan/Stayboost-sub003/internal/model"
)

func (s *pgStore) CreateBackup(b model.Backup) error {
	const q = `
	INSERT INTO backups (id, shop, filename, size_bytes, created_at)
	VALUES ($1, $2, $3, $4, $5);`
	_, err := s.db.Exec(q, b.ID, b.Shop, b.Filename, b.SizeBytes, b.CreatedAt)
	if err != nil {
		log.Error().Err(err).Str("backup_id", b.ID).Msg("CreateBackup failed")
	}
	return err
}

func (s *pgStore) GetBackup(shop, id string) (model.Backup, error) {
	var b model.Backup
	const q = `SELECT id, shop, filename, size_bytes, created_at FROM backups WHERE shop = $1 AND id = $2;`
	if err := s.db.Get(&b, q, shop, id); err != nil {
		return model.Backup{}, wrapNotFound(err)
	}
	return b, nil
}

func (s *pgStore) ListBackups(shop string) ([]model.Backup, error) {
	var out []model.Backup
	const q = `SELECT id, shop, filename, size_bytes, created_at FROM backups WHERE shop = $1 ORDER BY created_at DESC;`
	if err := s.db.Select(&out, q, shop); err != nil {
		log.Error().Err(err).Str("shop", shop).Msg("ListBackups failed")
		return nil, err
	}
	return out, nil
}
