// Package engine builds and solves the shift-assignment Mixed Integer
// Program and applies the resulting assignment back onto the shifts. It is
// a direct port of mobius/assign.py onto the go-mip/go-highs solver stack,
// behind the narrow Solver interface so the encoding in calculate can be
// exercised without the real solver (see internal/engine/refsolver).
package engine

import (
	"fmt"
	"time"

	"github.com/Staffjoy/mobius-assignment/internal/environment"
	"github.com/Staffjoy/mobius-assignment/internal/runid"
	"github.com/Staffjoy/mobius-assignment/internal/shift"
	"github.com/Staffjoy/mobius-assignment/internal/temporal"
	"github.com/Staffjoy/mobius-assignment/internal/worker"
)

// MinutesPerHour converts between the hour-denominated worker bounds and
// the minute-denominated shift arithmetic.
const MinutesPerHour = 60

// Logger is the narrow leveled-logging surface the engine needs. It is
// satisfied by the hclog.Logger that internal/logging.New returns.
type Logger interface {
	Info(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}

// Config holds the tunable knobs of one calculation, mirroring
// mobius/config.py's solver-facing settings.
type Config struct {
	UnassignedPenalty        float64
	MinHoursViolationPenalty float64
	Duration                 time.Duration
	HappyCalculationTimeout  time.Duration
	RelativeGap              float64
}

// DefaultConfig mirrors the Python original's module-level constants
// (mobius/config.py: UNASSIGNED_PENALTY, MIN_HOURS_VIOLATION_PENALTY).
func DefaultConfig() Config {
	return Config{
		UnassignedPenalty:        -1000,
		MinHoursViolationPenalty: -1000,
		Duration:                 30 * time.Second,
		HappyCalculationTimeout:  120 * time.Second,
		RelativeGap:              0,
	}
}

// Result summarizes one successful calculation.
type Result struct {
	ConsecutiveDaysOffEnforced bool
	HappinessScored            bool
	ObjectiveValue             float64
	MinHoursViolations         []string
}

// Engine owns one week's workers and shifts and solves the assignment
// problem against them, mutating Shift.UserID in place on success.
type Engine struct {
	env       environment.Environment
	workers   []worker.Worker
	shifts    []shift.Shift
	config    Config
	log       Logger
	newSolver func() Solver
}

// New builds an Engine backed by the real HiGHS solver. shifts are sorted
// by Start, mirroring Assign.__init__.
func New(env environment.Environment, workers []worker.Worker, shifts []shift.Shift, cfg Config, log Logger) *Engine {
	return NewWithSolver(env, workers, shifts, cfg, log, func() Solver { return NewHighsSolver() })
}

// NewWithSolver builds an Engine against a caller-supplied Solver factory,
// invoked once per fallback tier in Calculate. Production callers should use
// New; this constructor exists so tests can substitute
// internal/engine/refsolver for the real HiGHS binary.
func NewWithSolver(env environment.Environment, workers []worker.Worker, shifts []shift.Shift, cfg Config, log Logger, newSolver func() Solver) *Engine {
	if log == nil {
		log = nopLogger{}
	}
	sorted := append([]shift.Shift(nil), shifts...)
	shift.SortByStart(sorted)
	return &Engine{env: env, workers: workers, shifts: sorted, config: cfg, log: log, newSolver: newSolver}
}

// Shifts returns the engine's shifts, reflecting the outcome of the most
// recent successful Calculate call.
func (e *Engine) Shifts() []shift.Shift {
	return e.shifts
}

// Calculate runs the three-tier escalating fallback from spec §5/§9:
// consecutive-days-off with happiness scoring, then consecutive-days-off
// alone, then neither. The first tier to solve to optimality wins; the
// third tier's error (if any) propagates.
func (e *Engine) Calculate() (Result, error) {
	run := runid.New()
	e.log.Info("starting calculation %s for role %s", run, e.env.RoleID)

	e.log.Info("trying consecutive days off with happiness")
	if res, err := e.calculate(true, true); err == nil {
		return res, nil
	} else {
		e.log.Info("consecutive days off with happiness failed: %v", err)
	}

	e.log.Info("trying consecutive days off without happiness")
	if res, err := e.calculate(true, false); err == nil {
		return res, nil
	} else {
		e.log.Info("consecutive days off without happiness failed: %v", err)
	}

	e.log.Info("trying neither consecutive days off nor happiness")
	return e.calculate(false, false)
}

type workerShiftKey struct {
	worker int
	shift  int
}

type workerDayKey struct {
	worker int
	day    string
}

func (e *Engine) calculate(consecutiveDaysOff, happinessScoring bool) (Result, error) {
	for i := range e.shifts {
		e.shifts[i].UserID = shift.UnassignedUserID
	}

	m := e.newSolver()
	var objTerms []Term

	assign := make(map[workerShiftKey]Var, len(e.workers)*len(e.shifts))
	unassigned := make([]Var, len(e.shifts))

	for si := range e.shifts {
		unassigned[si] = m.AddBinaryVar()
		objTerms = append(objTerms, Term{e.config.UnassignedPenalty, unassigned[si]})
	}

	for wi, wk := range e.workers {
		for si, sh := range e.shifts {
			v := m.AddBinaryVar()
			assign[workerShiftKey{wi, si}] = v
			if happinessScoring {
				objTerms = append(objTerms, Term{wk.ShiftHappinessScore(sh), v})
			}
		}
	}

	minViolation := make([]Var, len(e.workers))
	weekMinutesSum := make([]Var, len(e.workers))

	canonicalDays := temporal.MustWeekDayRange()
	dayShiftsSum := make(map[workerDayKey]Var, len(e.workers)*7)
	dayActive := make(map[workerDayKey]Var, len(e.workers)*7)

	maxShiftsPerDay := float64(len(e.shifts))
	maxWeekMinutes := 0.0
	for _, sh := range e.shifts {
		maxWeekMinutes += float64(sh.TotalMinutes())
	}

	for wi := range e.workers {
		minViolation[wi] = m.AddBinaryVar()
		objTerms = append(objTerms, Term{e.config.MinHoursViolationPenalty, minViolation[wi]})

		weekMinutesSum[wi] = m.AddContinuousVar(0, maxWeekMinutes)

		for _, day := range canonicalDays {
			dayShiftsSum[workerDayKey{wi, day}] = m.AddContinuousVar(0, maxShiftsPerDay)
			dayActive[workerDayKey{wi, day}] = m.AddBinaryVar()
		}
	}

	// Coverage: every shift is assigned to exactly one worker or marked
	// unassigned.
	for si := range e.shifts {
		terms := []Term{{1.0, unassigned[si]}}
		for wi := range e.workers {
			terms = append(terms, Term{1.0, assign[workerShiftKey{wi, si}]})
		}
		m.AddLinearConstraint(Equal, 1.0, terms...)
	}

	// Minimum separation between any two shifts a single worker could be
	// assigned: for every ordered pair (test, other), test's stop is
	// expanded by MinMinutesBetweenShifts (its start is not), mirroring
	// assign.py's asymmetric dt_overlaps check.
	minBetween := time.Duration(e.env.MinMinutesBetweenShifts) * time.Minute
	for ti, test := range e.shifts {
		for oi, other := range e.shifts {
			if oi == ti {
				continue
			}
			if temporal.Overlap(other.Start, other.Stop, test.Start, test.Stop.Add(minBetween)) {
				for wi := range e.workers {
					m.AddLinearConstraint(LessThanOrEqual, 1.0,
						Term{1.0, assign[workerShiftKey{wi, ti}]},
						Term{1.0, assign[workerShiftKey{wi, oi}]},
					)
				}
			}
		}
	}

	// Availability: a worker unavailable for a shift is pinned to zero.
	for wi, wk := range e.workers {
		for si, sh := range e.shifts {
			if !wk.AvailableToWork(sh) {
				m.AddLinearConstraint(Equal, 0.0, Term{1.0, assign[workerShiftKey{wi, si}]})
			}
		}
	}

	// Weekly hours bounds, with a penalized slack on the minimum.
	for wi, wk := range e.workers {
		sumTerms := []Term{{-1.0, weekMinutesSum[wi]}}
		for si, sh := range e.shifts {
			sumTerms = append(sumTerms, Term{float64(sh.TotalMinutes()), assign[workerShiftKey{wi, si}]})
		}
		m.AddLinearConstraint(Equal, 0.0, sumTerms...)

		m.AddLinearConstraint(LessThanOrEqual, wk.MaxHoursPerWorkweek*MinutesPerHour, Term{1.0, weekMinutesSum[wi]})

		// week_minutes_sum >= min*(1 - violation)
		m.AddLinearConstraint(GreaterThanOrEqual, wk.MinHoursPerWorkweek*MinutesPerHour,
			Term{1.0, weekMinutesSum[wi]},
			Term{wk.MinHoursPerWorkweek * MinutesPerHour, minViolation[wi]},
		)
	}

	// Day-active encoding: DayActive[w,day] == 1 iff no shift starting or
	// ending in that local day is assigned to w. Gurobi's original encodes
	// this with an SOS1 constraint between day_shifts_sum and day_active
	// plus a >=1 sum constraint; no SOS1 primitive is available here, so
	// the same effect is reproduced with a big-M upper bound.
	for wi := range e.workers {
		for _, day := range canonicalDays {
			key := workerDayKey{wi, day}

			sumTerms := []Term{{-1.0, dayShiftsSum[key]}}
			for si, sh := range e.shifts {
				startDay := temporal.DayOf(e.env.ToLocal(sh.Start))
				stopDay := temporal.DayOf(e.env.ToLocal(sh.Stop))
				stopWithinWeek := sh.Stop.Before(e.env.Stop) || sh.Stop.Equal(e.env.Stop)
				if startDay == day || (stopDay == day && stopWithinWeek) {
					sumTerms = append(sumTerms, Term{1.0, assign[workerShiftKey{wi, si}]})
				}
			}
			m.AddLinearConstraint(Equal, 0.0, sumTerms...)

			m.AddLinearConstraint(LessThanOrEqual, maxShiftsPerDay,
				Term{1.0, dayShiftsSum[key]},
				Term{maxShiftsPerDay, dayActive[key]},
			)

			m.AddLinearConstraint(GreaterThanOrEqual, 1.0,
				Term{1.0, dayShiftsSum[key]},
				Term{1.0, dayActive[key]},
			)
		}
	}

	// Consecutive days off: at least one pair of adjacent local days (in
	// the environment's week-start rotation) where neither day is active.
	// The Python original expresses this with a product of two binaries
	// for non-first days; that bilinear term is linearized here with an
	// auxiliary variable pairOff = dayActive[day] * dayActive[previous].
	if consecutiveDaysOff {
		weekDays, err := temporal.WeekDayRange(e.env.DayWeekStarts)
		if err != nil {
			return Result{}, fmt.Errorf("resolving week day range: %w", err)
		}

		for wi, wk := range e.workers {
			var terms []Term
			constant := 0.0

			var previousDay string
			for i, day := range weekDays {
				key := workerDayKey{wi, day}
				if i == 0 {
					if !wk.PrecedingDayWorked {
						terms = append(terms, Term{-1.0, dayActive[key]})
						constant += 1.0
					}
				} else {
					prevKey := workerDayKey{wi, previousDay}
					pairOff := m.AddBinaryVar()

					m.AddLinearConstraint(LessThanOrEqual, 0.0, Term{1.0, pairOff}, Term{-1.0, dayActive[key]})
					m.AddLinearConstraint(LessThanOrEqual, 0.0, Term{1.0, pairOff}, Term{-1.0, dayActive[prevKey]})
					m.AddLinearConstraint(GreaterThanOrEqual, -1.0,
						Term{1.0, pairOff},
						Term{-1.0, dayActive[key]},
						Term{-1.0, dayActive[prevKey]},
					)

					terms = append(terms, Term{-1.0, dayActive[key]}, Term{-1.0, dayActive[prevKey]}, Term{1.0, pairOff})
					constant += 1.0
				}
				previousDay = day
			}

			m.AddLinearConstraint(GreaterThanOrEqual, 1.0-constant, terms...)
		}
	}

	// Max minutes per local calendar day.
	workdayStart := e.env.Start
	for workdayStart.Before(e.env.Stop) {
		workdayStop := workdayStart.Add(24 * time.Hour)
		for wi := range e.workers {
			var terms []Term
			for si, sh := range e.shifts {
				if !temporal.Overlap(sh.Start, sh.Stop, workdayStart, workdayStop) {
					continue
				}
				minutes := sh.MinutesOverlap(workdayStart, workdayStop)
				if minutes > 0 {
					terms = append(terms, Term{float64(minutes), assign[workerShiftKey{wi, si}]})
				}
			}
			m.AddLinearConstraint(LessThanOrEqual, float64(e.env.MaxMinutesPerWorkday), terms...)
		}
		workdayStart = workdayStart.Add(24 * time.Hour)
	}

	m.SetObjective(true, objTerms...)

	duration := e.config.Duration
	if happinessScoring && e.config.HappyCalculationTimeout > 0 {
		duration = e.config.HappyCalculationTimeout
	}
	m.SetTimeLimit(duration)
	m.SetRelativeGap(e.config.RelativeGap)

	solution, err := m.Optimize()
	if err != nil {
		return Result{}, err
	}
	if solution.Status() != StatusOptimal {
		return Result{}, fmt.Errorf("calculation failed: solver did not reach optimality")
	}

	result := Result{
		ConsecutiveDaysOffEnforced: consecutiveDaysOff,
		HappinessScored:            happinessScoring,
		ObjectiveValue:             solution.ObjectiveValue(),
	}

	for wi, wk := range e.workers {
		if solution.Value(minViolation[wi]) > 0.5 {
			result.MinHoursViolations = append(result.MinHoursViolations, wk.UserID)
			e.log.Info("worker %s unable to meet min hours for week", wk.UserID)
		}
		for si := range e.shifts {
			if solution.Value(assign[workerShiftKey{wi, si}]) > 0.5 {
				e.shifts[si].UserID = wk.UserID
				e.log.Debug("worker %s assigned shift %s", wk.UserID, e.shifts[si].ShiftID)
			}
		}
	}

	e.log.Info("optimized, objective value %.2f", result.ObjectiveValue)

	return result, nil
}
