package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Staffjoy/mobius-assignment/internal/engine"
	"github.com/Staffjoy/mobius-assignment/internal/engine/refsolver"
	"github.com/Staffjoy/mobius-assignment/internal/environment"
	"github.com/Staffjoy/mobius-assignment/internal/shift"
	"github.com/Staffjoy/mobius-assignment/internal/worker"
)

// newTestEngine builds an Engine against refsolver's brute-force Solver so
// these tests exercise calculate's MIP encoding without the real HiGHS
// binary.
func newTestEngine(env environment.Environment, workers []worker.Worker, shifts []shift.Shift, cfg engine.Config) *engine.Engine {
	return engine.NewWithSolver(env, workers, shifts, cfg, nil, func() engine.Solver { return refsolver.New() })
}

func testEnv(t *testing.T) environment.Environment {
	t.Helper()
	loc, err := time.LoadLocation("UTC")
	require.NoError(t, err)

	start := time.Date(2015, time.December, 21, 0, 0, 0, 0, loc)
	return environment.New(environment.Params{
		Location:                loc,
		Start:                   start,
		Stop:                    start.Add(7 * 24 * time.Hour),
		DayWeekStarts:           "monday",
		MinMinutesPerWorkday:    0,
		MaxMinutesPerWorkday:    60 * 12,
		MinMinutesBetweenShifts: 60 * 8,
		MaxConsecutiveWorkdays:  6,
	})
}

func TestCalculateAssignsSingleShiftToSoleAvailableWorker(t *testing.T) {
	env := testEnv(t)
	w := worker.New(worker.Params{
		UserID:              "1",
		MinHoursPerWorkweek: 0,
		MaxHoursPerWorkweek: 40,
		Environment:         env,
	})

	s := shift.Shift{
		ShiftID: "s1",
		Start:   env.Start.Add(8 * time.Hour),
		Stop:    env.Start.Add(12 * time.Hour),
	}

	e := newTestEngine(env, []worker.Worker{w}, []shift.Shift{s}, engine.DefaultConfig())
	res, err := e.Calculate()
	require.NoError(t, err)

	assert.Equal(t, "1", e.Shifts()[0].UserID)
	assert.Empty(t, res.MinHoursViolations)
}

func TestCalculateLeavesShiftUnassignedWhenNoWorkerAvailable(t *testing.T) {
	env := testEnv(t)
	avail := worker.AllTrueGrid()
	mondayHours := avail["monday"]
	mondayHours[8] = 0
	mondayHours[9] = 0
	mondayHours[10] = 0
	mondayHours[11] = 0
	avail["monday"] = mondayHours

	w := worker.New(worker.Params{
		UserID:              "1",
		MinHoursPerWorkweek: 0,
		MaxHoursPerWorkweek: 40,
		Availability:        avail,
		Environment:         env,
	})

	s := shift.Shift{
		ShiftID: "s1",
		Start:   env.Start.Add(8 * time.Hour),
		Stop:    env.Start.Add(12 * time.Hour),
	}

	e := newTestEngine(env, []worker.Worker{w}, []shift.Shift{s}, engine.DefaultConfig())
	_, err := e.Calculate()
	require.NoError(t, err)

	assert.Equal(t, shift.UnassignedUserID, e.Shifts()[0].UserID)
}

func TestCalculateRejectsDoubleBookingTooCloseTogether(t *testing.T) {
	env := testEnv(t)
	w := worker.New(worker.Params{
		UserID:              "1",
		MinHoursPerWorkweek: 0,
		MaxHoursPerWorkweek: 80,
		Environment:         env,
	})

	// Two shifts only 2 hours apart; MinMinutesBetweenShifts is 8 hours, so
	// the single worker cannot take both.
	s1 := shift.Shift{ShiftID: "s1", Start: env.Start.Add(8 * time.Hour), Stop: env.Start.Add(12 * time.Hour)}
	s2 := shift.Shift{ShiftID: "s2", Start: env.Start.Add(14 * time.Hour), Stop: env.Start.Add(18 * time.Hour)}

	e := newTestEngine(env, []worker.Worker{w}, []shift.Shift{s1, s2}, engine.DefaultConfig())
	_, err := e.Calculate()
	require.NoError(t, err)

	assigned := 0
	for _, s := range e.Shifts() {
		if s.IsAssigned() {
			assigned++
		}
	}
	assert.Equal(t, 1, assigned)
}

func TestCalculateRecordsMinHoursViolationWhenUnavoidable(t *testing.T) {
	env := testEnv(t)
	w := worker.New(worker.Params{
		UserID:              "1",
		MinHoursPerWorkweek: 30,
		MaxHoursPerWorkweek: 40,
		Environment:         env,
	})

	s := shift.Shift{
		ShiftID: "s1",
		Start:   env.Start.Add(8 * time.Hour),
		Stop:    env.Start.Add(12 * time.Hour),
	}

	e := newTestEngine(env, []worker.Worker{w}, []shift.Shift{s}, engine.DefaultConfig())
	res, err := e.Calculate()
	require.NoError(t, err)

	assert.Contains(t, res.MinHoursViolations, "1")
}
