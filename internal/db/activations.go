package db

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bitquan/Stayboost-sub003/internal/model"
)

func (s *pgStore) CreateActivation(scheduleID int, at time.Time, status string, data json.RawMessage) (model.Activation, error) {
	var a model.Activation
	const q = `
	INSERT INTO activations (schedule_id, activation_time, status, activation_data)
	VALUES ($1, $2, $3, $4)
	RETURNING id, schedule_id, activation_time, status, activation_data;`
	if err := s.db.Get(&a, q, scheduleID, at, status, []byte(data)); err != nil {
		log.Error().Err(err).Int("schedule_id", scheduleID).Msg("CreateActivation failed")
		return model.Activation{}, err
	}
	return a, nil
}

func (s *pgStore) ListActivations(shop string, scheduleID int) ([]model.Activation, error) {
	var out []model.Activation
	const q = `
	SELECT a.id, a.schedule_id, a.activation_time, a.status, a.activation_data
	  FROM activations a
	  JOIN schedules sc ON sc.id = a.schedule_id
	 WHERE sc.shop = $1 AND a.schedule_id = $2
	 ORDER BY a.activation_time DESC;`
	if err := s.db.Select(&out, q, shop, scheduleID); err != nil {
		log.Error().Err(err).Int("schedule_id", scheduleID).Msg("ListActivations failed")
		return nil, err
	}
	return out, nil
}

// ListDueAutoActivations returns auto-activating schedules whose window
// contains now and which have no activation recorded since the window opened.
// The NOT EXISTS clause is what keeps sweeping idempotent.
func (s *pgStore) ListDueAutoActivations(now time.Time) ([]model.Schedule, error) {
	var out []model.Schedule
	const q = `
	SELECT ` + scheduleColumns + `
	  FROM schedules sc
	 WHERE sc.auto_activate = true
	   AND sc.is_active = true
	   AND sc.start_date <= $1
	   AND (sc.end_date IS NULL OR sc.end_date >= $1)
	   AND NOT EXISTS (
	     SELECT 1 FROM activations a
	      WHERE a.schedule_id = sc.id AND a.activation_time >= sc.start_date
	   )
	 ORDER BY sc.id;`
	if err := s.db.Select(&out, q, now); err != nil {
		log.Error().Err(err).Msg("ListDueAutoActivations failed")
		return nil, err
	}
	return out, nil
}
