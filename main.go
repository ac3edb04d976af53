// package main holds the nextmv CLI entrypoint for one shift-assignment
// calculation: read an input document describing a week's environment,
// workers, and candidate shifts, run the engine, and print the resulting
// assignment and solve statistics.
package main

import (
	"context"
	"log"
	"time"

	"github.com/nextmv-io/sdk"
	"github.com/nextmv-io/sdk/run"
	"github.com/nextmv-io/sdk/run/schema"
	"github.com/nextmv-io/sdk/run/statistics"

	"github.com/Staffjoy/mobius-assignment/internal/config"
	"github.com/Staffjoy/mobius-assignment/internal/engine"
	"github.com/Staffjoy/mobius-assignment/internal/environment"
	"github.com/Staffjoy/mobius-assignment/internal/logging"
	"github.com/Staffjoy/mobius-assignment/internal/shift"
	"github.com/Staffjoy/mobius-assignment/internal/worker"
)

// appLogger is built once at startup from process configuration and shared
// by every solver invocation; run.CLI's solver signature leaves no room for
// passing it in explicitly.
var appLogger engine.Logger

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	appLogger = logging.New(cfg)

	if err := run.CLI(solver).Run(context.Background()); err != nil {
		appLogger.Info("run failed: %v", err)
		log.Fatal(err)
	}
}

// options lets a caller override the solver's tunable knobs without
// touching the input document itself.
type options struct {
	UnassignedPenalty        *float64 `json:"unassigned_penalty,omitempty"`
	MinHoursViolationPenalty *float64 `json:"min_hours_violation_penalty,omitempty"`
	DurationSeconds          *int     `json:"duration_seconds,omitempty"`
}

type gridDocument map[string][worker.HoursPerDay]int

func (g gridDocument) toGrid() worker.Grid {
	if g == nil {
		return nil
	}
	out := make(worker.Grid, len(g))
	for day, cells := range g {
		out[day] = cells
	}
	return out
}

type shiftDocument struct {
	ShiftID string    `json:"shift_id"`
	UserID  string    `json:"user_id,omitempty"`
	Start   time.Time `json:"start"`
	Stop    time.Time `json:"stop"`
}

func (s shiftDocument) toShift() shift.Shift {
	return shift.Shift{ShiftID: s.ShiftID, UserID: s.UserID, Start: s.Start, Stop: s.Stop}
}

type timeOffDocument struct {
	ID          string    `json:"id"`
	State       string    `json:"state"`
	Start       time.Time `json:"start"`
	MinutesPaid float64   `json:"minutes_paid"`
}

func (t timeOffDocument) toRequest() worker.TimeOffRequest {
	return worker.TimeOffRequest{
		ID:          t.ID,
		State:       worker.TimeOffState(t.State),
		Start:       t.Start,
		MinutesPaid: t.MinutesPaid,
	}
}

type workerDocument struct {
	UserID                    string            `json:"user_id"`
	MinHoursPerWorkweek       float64           `json:"min_hours_per_workweek"`
	MaxHoursPerWorkweek       float64           `json:"max_hours_per_workweek"`
	Availability              gridDocument      `json:"availability,omitempty"`
	Preferences               gridDocument      `json:"preferences,omitempty"`
	TimeOffRequests           []timeOffDocument `json:"time_off_requests,omitempty"`
	ExistingShifts            []shiftDocument   `json:"existing_shifts,omitempty"`
	History                   []shiftDocument   `json:"history,omitempty"`
	PrecedingDayWorked        *bool             `json:"preceding_day_worked,omitempty"`
	PrecedingDaysWorkedStreak *int              `json:"preceding_days_worked_streak,omitempty"`
}

// input is the full document for one calculation, mirroring the
// organization/location/role/schedule hierarchy a task fetches in
// production (see internal/tasking).
type input struct {
	OrganizationID string `json:"organization_id"`
	LocationID     string `json:"location_id"`
	RoleID         string `json:"role_id"`
	ScheduleID     string `json:"schedule_id"`

	Timezone      string    `json:"timezone"`
	Start         time.Time `json:"start"`
	Stop          time.Time `json:"stop"`
	DayWeekStarts string    `json:"day_week_starts"`

	MinHoursPerWorkday     float64 `json:"min_hours_per_workday"`
	MaxHoursPerWorkday     float64 `json:"max_hours_per_workday"`
	MinHoursBetweenShifts  float64 `json:"min_hours_between_shifts"`
	MaxConsecutiveWorkdays int     `json:"max_consecutive_workdays"`

	DoubleDecrementExistingShiftHours bool `json:"double_decrement_existing_shift_hours"`
	StrictMinMaxClamp                 bool `json:"strict_min_max_clamp"`

	Workers []workerDocument `json:"workers"`
	Shifts  []shiftDocument  `json:"shifts"`
}

type assignmentOutput struct {
	ShiftID string `json:"shift_id"`
	UserID  string `json:"user_id,omitempty"`
}

type solutionDocument struct {
	Assignments                []assignmentOutput `json:"assignments"`
	ConsecutiveDaysOffEnforced bool                `json:"consecutive_days_off_enforced"`
	HappinessScored             bool                `json:"happiness_scored"`
	MinHoursViolations           []string            `json:"min_hours_violations,omitempty"`
}

type customResultStatistics struct {
	ObjectiveValue             float64 `json:"objective_value"`
	ConsecutiveDaysOffEnforced bool    `json:"consecutive_days_off_enforced"`
	HappinessScored            bool    `json:"happiness_scored"`
}

func solver(_ context.Context, in input, opts options) (schema.Output, error) {
	loc, err := time.LoadLocation(in.Timezone)
	if err != nil {
		return schema.Output{}, err
	}

	env := environment.New(environment.Params{
		OrganizationID:          in.OrganizationID,
		LocationID:              in.LocationID,
		RoleID:                  in.RoleID,
		ScheduleID:              in.ScheduleID,
		Location:                loc,
		Start:                   in.Start,
		Stop:                    in.Stop,
		DayWeekStarts:           in.DayWeekStarts,
		MinMinutesPerWorkday:    int(in.MinHoursPerWorkday * engine.MinutesPerHour),
		MaxMinutesPerWorkday:    int(in.MaxHoursPerWorkday * engine.MinutesPerHour),
		MinMinutesBetweenShifts: int(in.MinHoursBetweenShifts * engine.MinutesPerHour),
		MaxConsecutiveWorkdays:  in.MaxConsecutiveWorkdays,
	})

	workers := make([]worker.Worker, 0, len(in.Workers))
	for _, wd := range in.Workers {
		history := make([]shift.Shift, 0, len(wd.History))
		for _, s := range wd.History {
			history = append(history, s.toShift())
		}
		existing := make([]shift.Shift, 0, len(wd.ExistingShifts))
		for _, s := range wd.ExistingShifts {
			existing = append(existing, s.toShift())
		}
		timeOff := make([]worker.TimeOffRequest, 0, len(wd.TimeOffRequests))
		for _, t := range wd.TimeOffRequests {
			timeOff = append(timeOff, t.toRequest())
		}

		w := worker.New(worker.Params{
			UserID:                            wd.UserID,
			MinHoursPerWorkweek:               wd.MinHoursPerWorkweek,
			MaxHoursPerWorkweek:               wd.MaxHoursPerWorkweek,
			Availability:                      wd.Availability.toGrid(),
			Preferences:                       wd.Preferences.toGrid(),
			TimeOffRequests:                   timeOff,
			ExistingShifts:                    existing,
			History:                           history,
			Environment:                       env,
			PrecedingDayWorked:                wd.PrecedingDayWorked,
			PrecedingDaysWorkedStreak:         wd.PrecedingDaysWorkedStreak,
			DoubleDecrementExistingShiftHours: in.DoubleDecrementExistingShiftHours,
			StrictMinMaxClamp:                 in.StrictMinMaxClamp,
		})

		// A worker with no availability beyond their minimum hours can
		// never be usefully assigned; skip them, mirroring
		// tasking.Handler.processTask's identical filter.
		if float64(w.Availability.Sum()) <= w.MinHoursPerWorkweek {
			continue
		}
		workers = append(workers, w)
	}

	shifts := make([]shift.Shift, 0, len(in.Shifts))
	for _, sd := range in.Shifts {
		shifts = append(shifts, sd.toShift())
	}

	cfg := engine.DefaultConfig()
	if opts.UnassignedPenalty != nil {
		cfg.UnassignedPenalty = *opts.UnassignedPenalty
	}
	if opts.MinHoursViolationPenalty != nil {
		cfg.MinHoursViolationPenalty = *opts.MinHoursViolationPenalty
	}
	if opts.DurationSeconds != nil {
		cfg.Duration = time.Duration(*opts.DurationSeconds) * time.Second
	}

	e := engine.New(env, workers, shifts, cfg, appLogger)
	result, err := e.Calculate()
	if err != nil {
		return schema.Output{}, err
	}

	return format(e, result), nil
}

func format(e *engine.Engine, result engine.Result) schema.Output {
	o := schema.Output{}
	o.Version = schema.Version{Sdk: sdk.VERSION}

	assignments := make([]assignmentOutput, 0, len(e.Shifts()))
	for _, s := range e.Shifts() {
		assignments = append(assignments, assignmentOutput{ShiftID: s.ShiftID, UserID: s.UserID})
	}

	o.Solutions = append(o.Solutions, solutionDocument{
		Assignments:                assignments,
		ConsecutiveDaysOffEnforced: result.ConsecutiveDaysOffEnforced,
		HappinessScored:            result.HappinessScored,
		MinHoursViolations:         result.MinHoursViolations,
	})

	stats := statistics.NewStatistics()
	res := statistics.Result{}
	value := statistics.Float64(result.ObjectiveValue)
	res.Value = &value
	res.Custom = customResultStatistics{
		ObjectiveValue:             result.ObjectiveValue,
		ConsecutiveDaysOffEnforced: result.ConsecutiveDaysOffEnforced,
		HappinessScored:            result.HappinessScored,
	}
	stats.Result = &res
	o.Statistics = stats

	return o
}
