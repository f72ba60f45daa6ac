package db

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bitquan/Stayboost-sub003/internal/model"
)

const scheduleColumns = `
	id, shop, template_id, name, campaign_type, schedule_type, start_date,
	end_date, timezone, priority, is_active, conflict_resolution,
	auto_activate, metadata, created_at, updated_at`

func (s *pgStore) CreateSchedule(in model.Schedule) (model.Schedule, error) {
	var out model.Schedule
	const q = `
	INSERT INTO schedules
	  (shop, template_id, name, campaign_type, schedule_type, start_date,
	   end_date, timezone, priority, is_active, conflict_resolution,
	   auto_activate, metadata, created_at, updated_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,now(),now())
	RETURNING ` + scheduleColumns + `;`
	err := s.db.Get(&out, q,
		in.Shop, in.TemplateID, in.Name, in.CampaignType, in.ScheduleType,
		in.StartDate, in.EndDate, in.Timezone, in.Priority, in.IsActive,
		in.ConflictResolution, in.AutoActivate, []byte(in.Metadata))
	if err != nil {
		log.Error().Err(err).Str("shop", in.Shop).Msg("CreateSchedule failed")
		return model.Schedule{}, err
	}
	return out, nil
}

func (s *pgStore) GetSchedule(shop string, id int) (model.Schedule, error) {
	var out model.Schedule
	const q = `SELECT ` + scheduleColumns + ` FROM schedules WHERE shop = $1 AND id = $2;`
	if err := s.db.Get(&out, q, shop, id); err != nil {
		return model.Schedule{}, wrapNotFound(err)
	}
	return out, nil
}

func (s *pgStore) ListSchedules(shop string) ([]model.Schedule, error) {
	var out []model.Schedule
	const q = `SELECT ` + scheduleColumns + ` FROM schedules WHERE shop = $1 ORDER BY id;`
	if err := s.db.Select(&out, q, shop); err != nil {
		log.Error().Err(err).Str("shop", shop).Msg("ListSchedules failed")
		return nil, err
	}
	return out, nil
}

// ListActiveSchedules returns the is_active set the resolver operates on;
// ordering is left to the resolver.
func (s *pgStore) ListActiveSchedules(shop string) ([]model.Schedule, error) {
	var out []model.Schedule
	const q = `SELECT ` + scheduleColumns + ` FROM schedules WHERE shop = $1 AND is_active = true;`
	if err := s.db.Select(&out, q, shop); err != nil {
		log.Error().Err(err).Str("shop", shop).Msg("ListActiveSchedules failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) ListUpcomingSchedules(shop string, after time.Time, limit int) ([]model.Schedule, error) {
	var out []model.Schedule
	const q = `
	SELECT ` + scheduleColumns + `
	  FROM schedules
	 WHERE shop = $1 AND is_active = true AND start_date > $2
	 ORDER BY start_date, id
	 LIMIT $3;`
	if err := s.db.Select(&out, q, shop, after, limit); err != nil {
		log.Error().Err(err).Str("shop", shop).Msg("ListUpcomingSchedules failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) UpdateSchedule(in model.Schedule) (model.Schedule, error) {
	var out model.Schedule
	const q = `
	UPDATE schedules SET
	  template_id = $3, name = $4, campaign_type = $5, schedule_type = $6,
	  start_date = $7, end_date = $8, timezone = $9, priority = $10,
	  is_active = $11, conflict_resolution = $12, auto_activate = $13,
	  metadata = $14, updated_at = now()
	WHERE shop = $1 AND id = $2
	RETURNING ` + scheduleColumns + `;`
	err := s.db.Get(&out, q,
		in.Shop, in.ID, in.TemplateID, in.Name, in.CampaignType,
		in.ScheduleType, in.StartDate, in.EndDate, in.Timezone, in.Priority,
		in.IsActive, in.ConflictResolution, in.AutoActivate, []byte(in.Metadata))
	if err != nil {
		log.Error().Err(err).Int("schedule_id", in.ID).Msg("UpdateSchedule failed")
		return model.Schedule{}, wrapNotFound(err)
	}
	return out, nil
}

func (s *pgStore) DeleteSchedule(shop string, id int) error {
	_, err := s.db.Exec(`DELETE FROM schedules WHERE shop = $1 AND id = $2;`, shop, id)
	if err != nil {
		log.Error().Err(err).Int("schedule_id", id).Msg("DeleteSchedule failed")
	}
	return err
}
