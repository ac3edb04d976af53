// Package worker holds per-worker preprocessing: preference and
// availability grids, time-off adjustment, existing-shift subtraction,
// alpha/beta happiness weighting, and the availability predicate used by
// the assignment engine. It is a direct port of mobius/employee.py.
package worker

import (
	"time"

	"github.com/Staffjoy/mobius-assignment/internal/environment"
	"github.com/Staffjoy/mobius-assignment/internal/shift"
	"github.com/Staffjoy/mobius-assignment/internal/temporal"
)

// HoursPerDay is the number of clock-hour cells in one day's grid.
const HoursPerDay = 24

// Grid is a per-day, 24-hour 0/1 vector: availability or preference.
type Grid map[string][HoursPerDay]int

// AllTrueGrid returns a week range with every cell set to 1, mirroring
// mobius.helpers.week_range_all_true.
func AllTrueGrid() Grid {
	g := make(Grid, 7)
	var full [HoursPerDay]int
	for i := range full {
		full[i] = 1
	}
	for _, d := range temporal.DaysOfWeek {
		g[d] = full
	}
	return g
}

// Sum totals every cell in the grid across all seven days, mirroring
// mobius.helpers.week_sum.
func (g Grid) Sum() int {
	total := 0
	for _, d := range temporal.DaysOfWeek {
		for _, v := range g[d] {
			total += v
		}
	}
	return total
}

func (g Grid) clone() Grid {
	out := make(Grid, len(g))
	for d, v := range g {
		out[d] = v
	}
	return out
}

// TimeOffState is the lifecycle state of a time-off request.
type TimeOffState string

// Recognized time-off states. Only the Approved* and Sick states affect
// preprocessing, mirroring mobius.constants.APPROVED_TIME_OFF_STATES.
const (
	TimeOffRequested     TimeOffState = "requested"
	TimeOffApprovedPaid  TimeOffState = "approved_paid"
	TimeOffApprovedUnpaid TimeOffState = "approved_unpaid"
	TimeOffSick          TimeOffState = "sick"
	TimeOffDenied        TimeOffState = "denied"
)

func (s TimeOffState) approved() bool {
	switch s {
	case TimeOffApprovedPaid, TimeOffApprovedUnpaid, TimeOffSick:
		return true
	default:
		return false
	}
}

// TimeOffRequest is one worker's request for time off during the week.
type TimeOffRequest struct {
	ID          string
	State       TimeOffState
	Start       time.Time
	MinutesPaid float64
}

// Params are the construction arguments for a Worker, mirroring
// Employee.__init__'s keyword arguments. Fields left at their zero value
// fall back to the defaults the Python original fetches lazily: Preferences
// and Availability default to AllTrueGrid(), PrecedingDayWorked/Streak
// default to whatever History implies.
type Params struct {
	UserID              string
	MinHoursPerWorkweek float64
	MaxHoursPerWorkweek float64

	// Preferences and Availability default to AllTrueGrid() when nil.
	Preferences  Grid
	Availability Grid

	TimeOffRequests []TimeOffRequest

	// PrecedingDayWorked and PrecedingDaysWorkedStreak are derived from
	// History when nil.
	PrecedingDayWorked        *bool
	PrecedingDaysWorkedStreak *int

	// History is this worker's own shifts that start before
	// Environment.Start, used to derive PrecedingDayWorked/Streak and
	// always sorted from Environment.Start backward is not required.
	History []shift.Shift

	// ExistingShifts are this worker's pre-bound shifts inside the week.
	ExistingShifts []shift.Shift

	Environment environment.Environment

	// DoubleDecrementExistingShiftHours reproduces the legacy double
	// subtraction of MaxHoursPerWorkweek for every existing shift (see
	// DESIGN.md "Open Question decisions"). The zero value (false) selects
	// the single decrement; config.Load defaults the setting to true.
	DoubleDecrementExistingShiftHours bool

	// StrictMinMaxClamp, when DoubleDecrementExistingShiftHours is true,
	// fixes a copy/paste typo in the legacy double-decrement path that
	// zeroes MinHoursPerWorkweek instead of MaxHoursPerWorkweek when the
	// first of the two max decrements underflows. Defaults to false
	// (typo preserved).
	StrictMinMaxClamp bool
}

// Worker is one preprocessed employee profile, ready to be fed to the
// assignment engine.
type Worker struct {
	UserID              string
	MinHoursPerWorkweek float64
	MaxHoursPerWorkweek float64

	Availability Grid
	Preferences  Grid

	ActiveDays map[string]bool

	PrecedingDayWorked        bool
	PrecedingDaysWorkedStreak int

	ExistingShifts []shift.Shift

	Alpha float64
	Beta  float64

	env environment.Environment
}

// New builds a Worker, running the nine-step preprocessing pipeline from
// spec §4.3 in order.
func New(p Params) Worker {
	w := Worker{
		UserID:              p.UserID,
		MinHoursPerWorkweek: p.MinHoursPerWorkweek,
		MaxHoursPerWorkweek: p.MaxHoursPerWorkweek,
		env:                 p.Environment,
	}

	// Step 1: active_days starts false for every day.
	w.ActiveDays = make(map[string]bool, 7)
	for _, d := range temporal.DaysOfWeek {
		w.ActiveDays[d] = false
	}

	// Steps 2-3: preferences/availability default to all-true.
	if p.Preferences != nil {
		w.Preferences = p.Preferences.clone()
	} else {
		w.Preferences = AllTrueGrid()
	}
	if p.Availability != nil {
		w.Availability = p.Availability.clone()
	} else {
		w.Availability = AllTrueGrid()
	}

	// Step 4: time-off requests.
	w.processTimeOffRequests(p.TimeOffRequests)

	// Step 5: preceding day worked.
	if p.PrecedingDayWorked != nil {
		w.PrecedingDayWorked = *p.PrecedingDayWorked
	} else {
		w.PrecedingDayWorked = w.derivePrecedingDayWorked(p.History)
	}

	// Step 6: preceding days worked streak.
	if p.PrecedingDaysWorkedStreak != nil {
		w.PrecedingDaysWorkedStreak = *p.PrecedingDaysWorkedStreak
	} else {
		w.PrecedingDaysWorkedStreak = w.derivePrecedingStreak(p.History)
	}

	// Step 7: existing shifts.
	w.ExistingShifts = append([]shift.Shift(nil), p.ExistingShifts...)
	w.processExistingShifts(p.DoubleDecrementExistingShiftHours, p.StrictMinMaxClamp)

	// Step 8: filter preferences by availability.
	w.filterPreferences()

	// Step 9: alpha/beta.
	w.setAlphaBeta()

	return w
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func (w *Worker) processTimeOffRequests(requests []TimeOffRequest) {
	for _, r := range requests {
		if !r.State.approved() {
			continue
		}

		w.MinHoursPerWorkweek = clampNonNegative(w.MinHoursPerWorkweek - r.MinutesPaid/60.0)
		w.MaxHoursPerWorkweek = clampNonNegative(w.MaxHoursPerWorkweek - r.MinutesPaid/60.0)

		day := temporal.DayOf(w.env.ToLocal(r.Start))
		w.Availability[day] = [HoursPerDay]int{}
	}
}

// derivePrecedingDayWorked mirrors Employee._fetch_preceding_day_worked:
// any shift in history starting within the one day before Environment.Start
// marks the worker as having worked the preceding day, and any such shift
// whose stop crosses Environment.Start activates the local day it rolls
// into.
func (w *Worker) derivePrecedingDayWorked(history []shift.Shift) bool {
	searchEnd := w.env.Start
	searchStart := searchEnd.Add(-24 * time.Hour)

	found := false
	for _, s := range history {
		if s.Start.Before(searchStart) || !s.Start.Before(searchEnd) {
			continue
		}
		found = true
		if s.Stop.After(w.env.Start) {
			w.ActiveDays[temporal.DayOf(w.env.ToLocal(s.Stop))] = true
		}
	}
	return found
}

// derivePrecedingStreak mirrors
// Employee._fetch_preceding_days_worked_streak: walk backward one day at a
// time, up to MaxConsecutiveWorkdays days, stopping at the first day with no
// shift starting in it.
func (w *Worker) derivePrecedingStreak(history []shift.Shift) int {
	streak := 0
	for t := 0; t < w.env.MaxConsecutiveWorkdays; t++ {
		dayEnd := w.env.Start.Add(-time.Duration(t) * 24 * time.Hour)
		dayStart := dayEnd.Add(-24 * time.Hour)

		worked := false
		for _, s := range history {
			if !s.Start.Before(dayStart) && s.Start.Before(dayEnd) {
				worked = true
				break
			}
		}
		if !worked {
			return streak
		}
		streak++
	}
	return streak
}

// processExistingShifts mirrors Employee._fetch_existing_shifts /
// _process_existing_shifts: each existing shift subtracts its length from
// MinHoursPerWorkweek once and from MaxHoursPerWorkweek once (twice when
// doubleDecrementMax is set) before marking its start/stop day active.
//
// doubleDecrementMax reproduces the legacy double subtraction of
// MaxHoursPerWorkweek. strictClamp, when doubleDecrementMax is true, fixes
// a copy/paste typo in the original that zeroes MinHoursPerWorkweek instead
// of MaxHoursPerWorkweek when the first max decrement alone underflows. See
// DESIGN.md.
func (w *Worker) processExistingShifts(doubleDecrementMax, strictClamp bool) {
	for _, s := range w.ExistingShifts {
		hours := float64(s.TotalMinutes()) / 60.0

		w.MinHoursPerWorkweek = clampNonNegative(w.MinHoursPerWorkweek - hours)

		w.MaxHoursPerWorkweek -= hours
		if doubleDecrementMax {
			if w.MaxHoursPerWorkweek < 0 {
				if strictClamp {
					w.MaxHoursPerWorkweek = 0
				} else {
					w.MinHoursPerWorkweek = 0
				}
			}
			w.MaxHoursPerWorkweek -= hours
		}
		w.MaxHoursPerWorkweek = clampNonNegative(w.MaxHoursPerWorkweek)

		w.ActiveDays[temporal.DayOf(w.env.ToLocal(s.Start))] = true
		if s.Stop.Before(w.env.Stop) {
			w.ActiveDays[temporal.DayOf(w.env.ToLocal(s.Stop))] = true
		}
	}
}

func (w *Worker) filterPreferences() {
	filtered := make(Grid, 7)
	for _, d := range temporal.DaysOfWeek {
		avail := w.Availability[d]
		pref := w.Preferences[d]
		var out [HoursPerDay]int
		for h := 0; h < HoursPerDay; h++ {
			out[h] = avail[h] * pref[h]
		}
		filtered[d] = out
	}
	w.Preferences = filtered
}

func (w *Worker) setAlphaBeta() {
	sumAvailability := w.Availability.Sum()
	sumPreferences := w.Preferences.Sum()

	if sumPreferences == sumAvailability || sumPreferences == 0 || sumAvailability == 0 {
		w.Alpha = 0
		w.Beta = 0
		return
	}

	w.Alpha = float64(sumAvailability-sumPreferences) / float64(sumAvailability)
	w.Beta = float64(sumPreferences) / float64(sumAvailability)
}

// hourWindow returns the [startHour, stopHourExclusive) window for a shift,
// and the day the stop-side hours should be attributed to, reproducing
// Employee.available_to_work's midnight-rollover branch: a shift ending
// exactly on a local midnight is attributed to its start day only, covering
// that day's hours from startHour through the last hour of the day.
func hourWindow(startLocal, stopLocal time.Time) (startDay string, startHour int, stopDay string, stopHour int) {
	startDay = temporal.DayOf(startLocal)
	stopDay = temporal.DayOf(stopLocal)
	startHour = startLocal.Hour()

	if stopLocal.Minute() > 0 || stopLocal.Second() > 0 || stopLocal.Nanosecond() > 0 {
		stopHour = stopLocal.Hour() + 1
	} else {
		stopHour = stopLocal.Hour()
		if stopHour == 0 {
			stopDay = startDay
			stopHour = HoursPerDay
		}
	}
	return startDay, startHour, stopDay, stopHour
}

// AvailableToWork reports whether the worker may be scheduled for s, per
// spec §4.3: existing shifts (expanded by MinMinutesBetweenShifts on both
// sides) must not overlap s, and every local clock-hour s covers must be
// marked available.
func (w Worker) AvailableToWork(s shift.Shift) bool {
	startLocal := w.env.ToLocal(s.Start)
	stopLocal := w.env.ToLocal(s.Stop)

	minBetween := time.Duration(w.env.MinMinutesBetweenShifts) * time.Minute
	for _, existing := range w.ExistingShifts {
		if temporal.Overlap(
			existing.Start.Add(-minBetween),
			existing.Stop.Add(minBetween),
			startLocal,
			stopLocal,
		) {
			return false
		}
	}

	startDay, startHour, stopDay, stopHour := hourWindow(startLocal, stopLocal)

	if startDay == stopDay {
		for h := startHour; h < stopHour; h++ {
			if w.Availability[startDay][h] != 1 {
				return false
			}
		}
		return true
	}

	startGrid := w.Availability[startDay]
	for h := startHour; h < HoursPerDay; h++ {
		if startGrid[h] != 1 {
			return false
		}
	}
	stopGrid := w.Availability[stopDay]
	for h := 0; h < stopHour; h++ {
		if stopGrid[h] != 1 {
			return false
		}
	}
	return true
}

// ShiftHappinessScore returns the per-shift happiness contribution, per
// spec §4.4: every whole local clock-hour the shift covers adds 1+Alpha
// when preferred, 1-Beta otherwise.
func (w Worker) ShiftHappinessScore(s shift.Shift) float64 {
	startLocal := w.env.ToLocal(s.Start)
	stopLocal := w.env.ToLocal(s.Stop)

	startDay, startHour, stopDay, stopHour := hourWindow(startLocal, stopLocal)

	score := 0.0
	scoreHour := func(day string, hour int) {
		if w.Preferences[day][hour] == 1 {
			score += 1 + w.Alpha
		} else {
			score += 1 - w.Beta
		}
	}

	if startDay == stopDay {
		for h := startHour; h < stopHour; h++ {
			scoreHour(startDay, h)
		}
		return score
	}

	for h := startHour; h < HoursPerDay; h++ {
		scoreHour(startDay, h)
	}
	for h := 0; h < stopHour; h++ {
		scoreHour(stopDay, h)
	}
	return score
}

// Env returns the environment this worker was built against.
func (w Worker) Env() environment.Environment {
	return w.env
}
