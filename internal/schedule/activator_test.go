package schedule

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitquan/Stayboost-sub003/internal/model"
)

// fakeActivationStore mimics the database's dedupe: a schedule is due only
// until an activation lands inside its current window.
type fakeActivationStore struct {
	schedules   []model.Schedule
	activations []model.Activation
	nextID      int
}

func (f *fakeActivationStore) ListDueAutoActivations(now time.Time) ([]model.Schedule, error) {
	var due []model.Schedule
	for _, s := range f.schedules {
		if !ActivationDue(s, now) {
			continue
		}
		recorded := false
		for _, a := range f.activations {
			if a.ScheduleID == s.ID && !a.ActivationTime.Before(s.StartDate) {
				recorded = true
				break
			}
		}
		if !recorded {
			due = append(due, s)
		}
	}
	return due, nil
}

func (f *fakeActivationStore) CreateActivation(scheduleID int, at time.Time, status string, data json.RawMessage) (model.Activation, error) {
	f.nextID++
	a := model.Activation{
		ID:             f.nextID,
		ScheduleID:     scheduleID,
		ActivationTime: at,
		Status:         status,
		ActivationData: data,
	}
	f.activations = append(f.activations, a)
	return a, nil
}

func TestSweepRecordsDueActivations(t *testing.T) {
	due := sched(1, 10, 0, day(1), dayPtr(10))
	due.AutoActivate = true
	due.Name = "summer sale"
	notYet := sched(2, 20, 0, day(8), dayPtr(10))
	notYet.AutoActivate = true
	manual := sched(3, 30, 0, day(1), dayPtr(10))

	store := &fakeActivationStore{schedules: []model.Schedule{due, notYet, manual}}
	act := NewActivator(store).WithClock(func() time.Time { return day(4) })

	act.Sweep()

	require.Len(t, store.activations, 1)
	assert.Equal(t, due.ID, store.activations[0].ScheduleID)
	assert.Equal(t, "activated", store.activations[0].Status)

	var snap map[string]any
	require.NoError(t, json.Unmarshal(store.activations[0].ActivationData, &snap))
	assert.Equal(t, "summer sale", snap["schedule_name"])
	assert.Equal(t, float64(10), snap["template_id"])
}

func TestSweepIsIdempotentWithinWindow(t *testing.T) {
	s := sched(1, 10, 0, day(1), dayPtr(10))
	s.AutoActivate = true

	store := &fakeActivationStore{schedules: []model.Schedule{s}}
	act := NewActivator(store).WithClock(func() time.Time { return day(4) })

	act.Sweep()
	act.Sweep()

	assert.Len(t, store.activations, 1)
}

func TestRecordActivationSnapshot(t *testing.T) {
	s := sched(5, 42, 7, day(1), nil)
	s.Name = "exit intent"
	store := &fakeActivationStore{}

	a, err := RecordActivation(store, s, day(2))
	require.NoError(t, err)
	assert.Equal(t, 5, a.ScheduleID)
	assert.True(t, a.ActivationTime.Equal(day(2)))

	var snap activationSnapshot
	require.NoError(t, json.Unmarshal(a.ActivationData, &snap))
	assert.Equal(t, 42, snap.TemplateID)
	assert.Equal(t, 7, snap.Priority)
}
