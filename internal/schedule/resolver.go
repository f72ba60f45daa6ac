// Package schedule holds the pure scheduling core: conflict detection between
// template schedules and resolution of the single active schedule at an instant.
// It never touches storage; callers load the shop's active schedules and pass
// them in.
package schedule

import (
	"errors"
	"sort"
	"time"

	"github.com/bitquan/Stayboost-sub003/internal/model"
)

// ErrInvalidWindow is returned when a schedule's end date precedes its start date.
var ErrInvalidWindow = errors.New("schedule window end precedes start")

// ValidateWindow rejects windows whose end precedes their start. An absent end
// means the window is open-ended and always valid.
func ValidateWindow(start time.Time, end *time.Time) error {
	if end != nil && end.Before(start) {
		return ErrInvalidWindow
	}
	return nil
}

// Contains reports whether the schedule's window contains the instant.
// Both bounds are inclusive; a nil end extends to positive infinity.
func Contains(s model.Schedule, at time.Time) bool {
	if at.Before(s.StartDate) {
		return false
	}
	return s.EndDate == nil || !at.After(*s.EndDate)
}

// overlaps reports whether two windows have a non-empty intersection:
// a.start <= (b.end ?? +inf) && b.start <= (a.end ?? +inf).
func overlaps(a, b model.Schedule) bool {
	if a.EndDate != nil && b.StartDate.After(*a.EndDate) {
		return false
	}
	if b.EndDate != nil && a.StartDate.After(*b.EndDate) {
		return false
	}
	return true
}

// FindConflicts returns the existing schedules whose windows intersect the
// candidate's. Overlap is advisory: callers surface the result as a warning,
// never as a rejection. excludeID skips a schedule when re-checking an update
// against itself; pass 0 for creates. Inactive peers never conflict.
func FindConflicts(existing []model.Schedule, candidate model.Schedule, excludeID int) ([]model.Schedule, error) {
	if err := ValidateWindow(candidate.StartDate, candidate.EndDate); err != nil {
		return nil, err
	}
	var conflicts []model.Schedule
	for _, s := range existing {
		if s.ID == excludeID || !s.IsActive {
			continue
		}
		if err := ValidateWindow(s.StartDate, s.EndDate); err != nil {
			return nil, err
		}
		if overlaps(s, candidate) {
			conflicts = append(conflicts, s)
		}
	}
	return conflicts, nil
}

// Resolution is the outcome of resolving the active schedule at an instant.
// Candidates holds every in-window schedule in rank order, winner first.
// Merged is populated only when the winner declares the merge strategy and
// carries the shadowed candidates so callers can blend display data.
type Resolution struct {
	Schedule   model.Schedule   `json:"schedule"`
	Candidates []model.Schedule `json:"candidates"`
	Merged     []model.Schedule `json:"merged,omitempty"`
}

// ResolveActive picks the single schedule active at the given instant, or nil
// when no window contains it. Candidates are ranked by priority descending,
// then later start date, then higher id, which makes the order total; the
// leader's declared conflict_resolution strategy may then re-pick among the
// candidates (see pickByStrategy).
func ResolveActive(schedules []model.Schedule, at time.Time) (*Resolution, error) {
	var candidates []model.Schedule
	for _, s := range schedules {
		if !s.IsActive {
			continue
		}
		if err := ValidateWindow(s.StartDate, s.EndDate); err != nil {
			return nil, err
		}
		if Contains(s, at) {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return rankLess(candidates[i], candidates[j])
	})

	res := &Resolution{
		Schedule:   pickByStrategy(candidates),
		Candidates: candidates,
	}
	if res.Schedule.ConflictResolution == model.ResolutionMerge {
		for _, c := range candidates {
			if c.ID != res.Schedule.ID {
				res.Merged = append(res.Merged, c)
			}
		}
	}
	return res, nil
}

// rankLess orders schedules by the global resolution key: higher priority
// first, then the more recently started, then the higher id.
func rankLess(a, b model.Schedule) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if !a.StartDate.Equal(b.StartDate) {
		return a.StartDate.After(b.StartDate)
	}
	return a.ID > b.ID
}

// pickByStrategy applies the rank leader's declared strategy to the ranked
// candidate set. higher_priority and merge keep the leader (merge additionally
// exposes the shadowed candidates on the Resolution); latest picks the
// latest-starting candidate and first the earliest-starting one, priority and
// id breaking ties.
func pickByStrategy(ranked []model.Schedule) model.Schedule {
	leader := ranked[0]
	switch leader.ConflictResolution {
	case model.ResolutionLatest:
		pick := ranked[0]
		for _, c := range ranked[1:] {
			if c.StartDate.After(pick.StartDate) {
				pick = c
			}
		}
		return pick
	case model.ResolutionFirst:
		pick := ranked[0]
		for _, c := range ranked[1:] {
			if c.StartDate.Before(pick.StartDate) {
				pick = c
			}
		}
		return pick
	default:
		// higher_priority, merge, or unset: the ranked leader stands.
		return leader
	}
}

// ActivationDue reports whether an auto-activating schedule's window contains
// now. Writing the activation record, and checking that one does not already
// exist for the current window, is the caller's job; the resolver holds no
// state.
func ActivationDue(s model.Schedule, now time.Time) bool {
	return s.AutoActivate && s.IsActive && Contains(s, now)
}
