package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitquan/Stayboost-sub003/internal/model"
)

var base = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time { return base.AddDate(0, 0, n-1) }

func dayPtr(n int) *time.Time {
	d := day(n)
	return &d
}

func sched(id, templateID, priority int, start time.Time, end *time.Time) model.Schedule {
	return model.Schedule{
		ID:         id,
		Shop:       "test.myshopify.com",
		TemplateID: templateID,
		StartDate:  start,
		EndDate:    end,
		Priority:   priority,
		IsActive:   true,
	}
}

func TestValidateWindow(t *testing.T) {
	assert.NoError(t, ValidateWindow(day(1), dayPtr(10)))
	assert.NoError(t, ValidateWindow(day(1), nil))
	assert.NoError(t, ValidateWindow(day(1), dayPtr(1)))
	assert.ErrorIs(t, ValidateWindow(day(10), dayPtr(1)), ErrInvalidWindow)
}

func TestFindConflictsDisjointWindows(t *testing.T) {
	a := sched(1, 1, 0, day(1), dayPtr(3))
	b := sched(2, 2, 0, day(5), dayPtr(8))

	conflicts, err := FindConflicts([]model.Schedule{a}, b, 0)
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	conflicts, err = FindConflicts([]model.Schedule{b}, a, 0)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestFindConflictsIsSymmetric(t *testing.T) {
	a := sched(1, 1, 0, day(1), dayPtr(10))
	b := sched(2, 2, 0, day(2), dayPtr(4))

	ab, err := FindConflicts([]model.Schedule{a}, b, 0)
	require.NoError(t, err)
	ba, err := FindConflicts([]model.Schedule{b}, a, 0)
	require.NoError(t, err)

	assert.Len(t, ab, 1)
	assert.Len(t, ba, 1)
}

func TestFindConflictsOpenEndedWindow(t *testing.T) {
	openEnded := sched(1, 1, 0, day(1), nil)
	farFuture := sched(2, 2, 0, day(300), dayPtr(310))

	conflicts, err := FindConflicts([]model.Schedule{openEnded}, farFuture, 0)
	require.NoError(t, err)
	assert.Len(t, conflicts, 1)
}

func TestFindConflictsSkipsSelfAndInactive(t *testing.T) {
	existing := sched(7, 1, 0, day(1), dayPtr(10))
	inactive := sched(8, 2, 0, day(1), dayPtr(10))
	inactive.IsActive = false

	edited := sched(7, 1, 0, day(2), dayPtr(9))
	conflicts, err := FindConflicts([]model.Schedule{existing, inactive}, edited, 7)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestFindConflictsRejectsInvalidWindow(t *testing.T) {
	bad := sched(1, 1, 0, day(10), dayPtr(2))
	_, err := FindConflicts(nil, bad, 0)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestResolveActiveNoSchedules(t *testing.T) {
	res, err := ResolveActive(nil, day(4))
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestResolveActiveNoneInWindow(t *testing.T) {
	res, err := ResolveActive([]model.Schedule{sched(1, 1, 0, day(5), dayPtr(6))}, day(1))
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestResolveActiveHigherPriorityWins(t *testing.T) {
	x := sched(1, 10, 0, day(1), dayPtr(10))
	y := sched(2, 20, 5, day(3), dayPtr(5))

	res, err := ResolveActive([]model.Schedule{x, y}, day(4))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, y.ID, res.Schedule.ID)
	assert.Len(t, res.Candidates, 2)
}

func TestResolveActiveLaterStartBreaksPriorityTie(t *testing.T) {
	x := sched(1, 10, 5, day(1), nil)
	y := sched(2, 20, 5, day(5), nil)

	res, err := ResolveActive([]model.Schedule{x, y}, day(10))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, y.ID, res.Schedule.ID)
}

func TestResolveActiveIsDeterministic(t *testing.T) {
	in := []model.Schedule{
		sched(1, 10, 5, day(1), nil),
		sched(2, 20, 5, day(5), nil),
		sched(3, 30, 2, day(2), dayPtr(20)),
	}
	first, err := ResolveActive(in, day(10))
	require.NoError(t, err)
	second, err := ResolveActive(in, day(10))
	require.NoError(t, err)
	assert.Equal(t, first.Schedule.ID, second.Schedule.ID)
	assert.Equal(t, first.Candidates, second.Candidates)
}

func TestResolveActiveIdBreaksFullTie(t *testing.T) {
	a := sched(1, 10, 5, day(1), nil)
	b := sched(2, 20, 5, day(1), nil)

	res, err := ResolveActive([]model.Schedule{a, b}, day(3))
	require.NoError(t, err)
	assert.Equal(t, b.ID, res.Schedule.ID)
}

func TestResolveActiveOpenEndedFarFuture(t *testing.T) {
	s := sched(1, 10, 0, day(1), nil)
	res, err := ResolveActive([]model.Schedule{s}, day(1).AddDate(10, 0, 0))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, s.ID, res.Schedule.ID)
}

func TestResolveActiveSkipsInactive(t *testing.T) {
	s := sched(1, 10, 0, day(1), dayPtr(10))
	s.IsActive = false
	res, err := ResolveActive([]model.Schedule{s}, day(4))
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestResolveActiveBoundsInclusive(t *testing.T) {
	s := sched(1, 10, 0, day(1), dayPtr(10))

	res, err := ResolveActive([]model.Schedule{s}, day(1))
	require.NoError(t, err)
	assert.NotNil(t, res)

	res, err = ResolveActive([]model.Schedule{s}, day(10))
	require.NoError(t, err)
	assert.NotNil(t, res)

	res, err = ResolveActive([]model.Schedule{s}, day(10).Add(time.Second))
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestResolveActiveLatestStrategy(t *testing.T) {
	// Leader by priority declares "latest": the latest-starting candidate
	// wins even though it ranks lower.
	leader := sched(1, 10, 9, day(1), nil)
	leader.ConflictResolution = model.ResolutionLatest
	late := sched(2, 20, 0, day(8), nil)

	res, err := ResolveActive([]model.Schedule{leader, late}, day(10))
	require.NoError(t, err)
	assert.Equal(t, late.ID, res.Schedule.ID)
}

func TestResolveActiveFirstStrategy(t *testing.T) {
	leader := sched(1, 10, 9, day(5), nil)
	leader.ConflictResolution = model.ResolutionFirst
	early := sched(2, 20, 0, day(1), nil)

	res, err := ResolveActive([]model.Schedule{leader, early}, day(10))
	require.NoError(t, err)
	assert.Equal(t, early.ID, res.Schedule.ID)
}

func TestResolveActiveMergeStrategy(t *testing.T) {
	leader := sched(1, 10, 9, day(1), nil)
	leader.ConflictResolution = model.ResolutionMerge
	other := sched(2, 20, 0, day(2), nil)

	res, err := ResolveActive([]model.Schedule{leader, other}, day(5))
	require.NoError(t, err)
	assert.Equal(t, leader.ID, res.Schedule.ID)
	require.Len(t, res.Merged, 1)
	assert.Equal(t, other.ID, res.Merged[0].ID)
}

func TestActivationDue(t *testing.T) {
	s := sched(1, 10, 0, day(1), dayPtr(10))
	s.AutoActivate = true
	assert.True(t, ActivationDue(s, day(4)))
	assert.False(t, ActivationDue(s, day(11)))

	s.AutoActivate = false
	assert.False(t, ActivationDue(s, day(4)))

	s.AutoActivate = true
	s.IsActive = false
	assert.False(t, ActivationDue(s, day(4)))
}
