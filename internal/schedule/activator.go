package schedule

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/bitquan/Stayboost-sub003/internal/model"
)

// ActivationStore is the slice of the storage layer the activator needs.
type ActivationStore interface {
	ListDueAutoActivations(now time.Time) ([]model.Schedule, error)
	CreateActivation(scheduleID int, at time.Time, status string, data json.RawMessage) (model.Activation, error)
}

// activationSnapshot is the opaque identity payload persisted with each
// activation record.
type activationSnapshot struct {
	ScheduleID   int    `json:"schedule_id"`
	ScheduleName string `json:"schedule_name"`
	Shop         string `json:"shop"`
	TemplateID   int    `json:"template_id"`
	Priority     int    `json:"priority"`
}

// Activator periodically records activations for auto-activate schedules
// whose window has opened. The clock is injectable so tests never wait on
// real timers.
type Activator struct {
	store ActivationStore
	now   func() time.Time

	mu sync.Mutex
	c  *cron.Cron
}

func NewActivator(store ActivationStore) *Activator {
	return &Activator{store: store, now: time.Now}
}

// WithClock overrides the activator's clock; test hook.
func (a *Activator) WithClock(now func() time.Time) *Activator {
	a.now = now
	return a
}

// Start registers the sweep on a minutely cron and begins running it.
func (a *Activator) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.c != nil {
		return nil
	}
	a.c = cron.New()
	if _, err := a.c.AddFunc("@every 1m", func() { a.Sweep() }); err != nil {
		a.c = nil
		return err
	}
	a.c.Start()
	log.Info().Msg("auto-activation sweeper started")
	return nil
}

// Stop halts the cron and waits for an in-flight sweep to finish.
func (a *Activator) Stop() {
	a.mu.Lock()
	c := a.c
	a.c = nil
	a.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
		log.Info().Msg("auto-activation sweeper stopped")
	}
}

// Sweep records one activation per schedule that is due and not yet recorded
// for its current window. Dedupe lives in the store query, so running Sweep
// twice on unchanged data writes nothing the second time.
func (a *Activator) Sweep() {
	now := a.now().UTC()
	due, err := a.store.ListDueAutoActivations(now)
	if err != nil {
		log.Error().Err(err).Msg("activation sweep: due query failed")
		return
	}
	for _, s := range due {
		if !ActivationDue(s, now) {
			continue
		}
		if _, err := RecordActivation(a.store, s, now); err != nil {
			log.Error().Err(err).Int("schedule_id", s.ID).Msg("activation sweep: record failed")
		}
	}
	if len(due) > 0 {
		log.Info().Int("count", len(due)).Msg("recorded schedule activations")
	}
}

// RecordActivation appends the activation audit row for a schedule with a
// snapshot of its identity at activation time. Callers are responsible for
// checking that no activation exists for the current window.
func RecordActivation(store ActivationStore, s model.Schedule, now time.Time) (model.Activation, error) {
	snap, err := json.Marshal(activationSnapshot{
		ScheduleID:   s.ID,
		ScheduleName: s.Name,
		Shop:         s.Shop,
		TemplateID:   s.TemplateID,
		Priority:     s.Priority,
	})
	if err != nil {
		return model.Activation{}, err
	}
	return store.CreateActivation(s.ID, now, "activated", snap)
}
