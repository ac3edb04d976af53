// Package shift holds the identified half-open time interval assigned (or
// not) to a worker. It is a direct port of mobius/shift.py.
package shift

import (
	"math"
	"sort"
	"time"
)

// UnassignedUserID is the sentinel worker id meaning "no worker assigned",
// mirroring mobius.constants.UNASSIGNED_USER_ID.
const UnassignedUserID = ""

// Shift is a candidate or pre-bound [Start, Stop) interval.
type Shift struct {
	ShiftID string
	// UserID is UnassignedUserID when the shift has no worker bound.
	UserID string
	Start  time.Time
	Stop   time.Time
}

// TotalMinutes returns the shift's length in minutes, rounded up.
func (s Shift) TotalMinutes() int {
	return int(math.Ceil(s.Stop.Sub(s.Start).Minutes()))
}

// MinutesOverlap returns how many minutes of the shift fall within
// [start, stop), rounded up. Returns 0 when there is no overlap.
func (s Shift) MinutesOverlap(start, stop time.Time) int {
	overlapStart := s.Start
	if start.After(overlapStart) {
		overlapStart = start
	}
	overlapStop := s.Stop
	if stop.Before(overlapStop) {
		overlapStop = stop
	}

	delta := overlapStop.Sub(overlapStart)
	if delta <= 0 {
		return 0
	}
	return int(math.Ceil(delta.Minutes()))
}

// IsAssigned reports whether the shift currently has a worker bound.
func (s Shift) IsAssigned() bool {
	return s.UserID != UnassignedUserID
}

// SortByStart sorts shifts in place by Start, the canonical order used for
// constraint generation and logging (spec §5 Ordering).
func SortByStart(shifts []Shift) {
	sort.Slice(shifts, func(i, j int) bool {
		return shifts[i].Start.Before(shifts[j].Start)
	})
}
