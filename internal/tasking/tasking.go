// Package tasking implements the polling daemon that claims one
// shift-assignment job at a time from an external queue, runs the engine
// against it, and reports the result back, mirroring mobius/tasking.py's
// Tasking.server/_process_task loop. Source is the seam between this
// package and whatever system actually holds schedules, workers, and
// shifts; the Staffjoy REST API the Python original talks to has no
// equivalent library in this stack, so production wiring of Source is left
// to the caller — this package owns only the polling, retry, and
// reboot-on-error behavior.
package tasking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Staffjoy/mobius-assignment/internal/config"
	"github.com/Staffjoy/mobius-assignment/internal/engine"
	"github.com/Staffjoy/mobius-assignment/internal/environment"
	"github.com/Staffjoy/mobius-assignment/internal/shift"
	"github.com/Staffjoy/mobius-assignment/internal/worker"
)

// ErrNoTask is returned by Source.ClaimTask when the queue is empty.
var ErrNoTask = errors.New("tasking: no task available")

// RequeueState is the schedule state a failed task is patched back to,
// mirroring Tasking.REQUEUE_STATE.
const RequeueState = "mobius-queue"

// Task identifies one schedule to calculate.
type Task struct {
	OrganizationID string
	LocationID     string
	RoleID         string
	ScheduleID     string
}

// ScheduleEnvironment carries the role/location/schedule facts needed to
// build an environment.Environment for a task.
type ScheduleEnvironment struct {
	Timezone                string
	Start                   time.Time
	Stop                    time.Time
	DayWeekStarts           string
	MinHoursPerWorkday      float64
	MaxHoursPerWorkday      float64
	MinHoursBetweenShifts   float64
	MaxConsecutiveWorkdays  int
}

// WorkerRecord is one worker's scalar profile, prior to the availability,
// preference, time-off, and existing-shift enrichment fetched separately.
type WorkerRecord struct {
	UserID              string
	MinHoursPerWorkweek float64
	MaxHoursPerWorkweek float64
}

// Source is the external-collaborator contract this package polls against.
// Reboot and Rebooter are a narrower slice, a production Source is also
// responsible for the lookups that feed worker.Params.
type Source interface {
	ClaimTask(ctx context.Context) (Task, error)
	ScheduleEnvironment(ctx context.Context, t Task) (ScheduleEnvironment, error)
	Workers(ctx context.Context, t Task) ([]WorkerRecord, error)
	Availability(ctx context.Context, t Task, userID string) (worker.Grid, error)
	Preferences(ctx context.Context, t Task, userID string) (worker.Grid, error)
	TimeOffRequests(ctx context.Context, t Task, userID string) ([]worker.TimeOffRequest, error)
	ExistingShifts(ctx context.Context, t Task, userID string, env environment.Environment) ([]shift.Shift, error)
	History(ctx context.Context, t Task, userID string, env environment.Environment) ([]shift.Shift, error)
	UnassignedShifts(ctx context.Context, t Task, env environment.Environment) ([]shift.Shift, error)
	ApplyAssignments(ctx context.Context, t Task, shifts []shift.Shift) error
	Requeue(ctx context.Context, t Task) error
}

// Logger is the narrow leveled-logging surface this package needs.
type Logger interface {
	Info(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// Rebooter terminates the process, mirroring the Python original's
// `os.system("shutdown -r now")` — rebooting the container sometimes
// clears a stuck solver connection.
type Rebooter func()

// Handler polls Source for tasks and runs the engine against each one.
type Handler struct {
	Source   Source
	Config   config.Config
	Log      Logger
	Reboot   Rebooter
	now      func() time.Time
	sleep    func(time.Duration)
}

// NewHandler builds a Handler with production time/sleep behavior.
func NewHandler(source Source, cfg config.Config, log Logger, reboot Rebooter) *Handler {
	return &Handler{
		Source: source,
		Config: cfg,
		Log:    log,
		Reboot: reboot,
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// Run polls for tasks until ctx is canceled, mirroring Tasking.server.
func (h *Handler) Run(ctx context.Context) error {
	previousRequestFailed := false

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		task, err := h.Source.ClaimTask(ctx)
		if errors.Is(err, ErrNoTask) {
			h.Log.Debug("no task found, sleeping")
			previousRequestFailed = false
			h.sleep(h.Config.TaskingFetchInterval)
			continue
		}
		if err != nil {
			if !previousRequestFailed {
				h.Log.Info("unable to fetch task, retrying: %v", err)
				previousRequestFailed = true
			} else {
				h.Log.Error("unable to fetch task after previous failure: %v", err)
			}
			h.sleep(h.Config.TaskingFetchInterval)
			continue
		}
		previousRequestFailed = false

		h.Log.Info("task received: %+v", task)
		if err := h.processTask(ctx, task); err != nil {
			h.Log.Error("failed schedule %s: %v", task.ScheduleID, err)
			h.Log.Info("requeuing schedule %s", task.ScheduleID)

			if reqErr := h.Source.Requeue(ctx, task); reqErr != nil {
				h.Log.Error("failed to requeue schedule %s: %v", task.ScheduleID, reqErr)
			}

			if h.Config.KillOnError && h.Reboot != nil {
				h.sleep(h.Config.KillDelay)
				h.Log.Info("rebooting to clear stuck solver state")
				h.Reboot()
			}
			continue
		}

		h.Log.Info("task completed: %+v", task)
	}
}

func (h *Handler) processTask(ctx context.Context, t Task) error {
	sched, err := h.Source.ScheduleEnvironment(ctx, t)
	if err != nil {
		return err
	}

	loc, err := loadLocation(sched.Timezone)
	if err != nil {
		return err
	}

	env := environment.New(environment.Params{
		OrganizationID:          t.OrganizationID,
		LocationID:              t.LocationID,
		RoleID:                  t.RoleID,
		ScheduleID:              t.ScheduleID,
		Location:                loc,
		Start:                   sched.Start,
		Stop:                    sched.Stop,
		DayWeekStarts:           sched.DayWeekStarts,
		MinMinutesPerWorkday:    int(sched.MinHoursPerWorkday * engine.MinutesPerHour),
		MaxMinutesPerWorkday:    int(sched.MaxHoursPerWorkday * engine.MinutesPerHour),
		MinMinutesBetweenShifts: int(sched.MinHoursBetweenShifts * engine.MinutesPerHour),
		MaxConsecutiveWorkdays:  sched.MaxConsecutiveWorkdays,
	})

	records, err := h.Source.Workers(ctx, t)
	if err != nil {
		return err
	}

	workers := make([]worker.Worker, 0, len(records))
	for _, r := range records {
		avail, err := h.Source.Availability(ctx, t, r.UserID)
		if err != nil {
			return err
		}
		prefs, err := h.Source.Preferences(ctx, t, r.UserID)
		if err != nil {
			return err
		}
		timeOff, err := h.Source.TimeOffRequests(ctx, t, r.UserID)
		if err != nil {
			return err
		}
		existing, err := h.Source.ExistingShifts(ctx, t, r.UserID, env)
		if err != nil {
			return err
		}
		history, err := h.Source.History(ctx, t, r.UserID, env)
		if err != nil {
			return err
		}

		w := worker.New(worker.Params{
			UserID:                            r.UserID,
			MinHoursPerWorkweek:               r.MinHoursPerWorkweek,
			MaxHoursPerWorkweek:               r.MaxHoursPerWorkweek,
			Availability:                      avail,
			Preferences:                       prefs,
			TimeOffRequests:                   timeOff,
			ExistingShifts:                    existing,
			History:                          history,
			Environment:                       env,
			DoubleDecrementExistingShiftHours: h.Config.DoubleDecrementExistingShiftHours,
			StrictMinMaxClamp:                 h.Config.StrictMinMaxClamp,
		})

		// A worker with no availability beyond their minimum hours can
		// never be usefully assigned; skip them, mirroring
		// Tasking._process_task's week_sum(availability) > min_hours_per_workweek
		// filter.
		if float64(w.Availability.Sum()) <= w.MinHoursPerWorkweek {
			continue
		}
		workers = append(workers, w)
	}

	if len(workers) == 0 {
		h.Log.Info("no workers with availability for schedule %s", t.ScheduleID)
		return nil
	}

	shifts, err := h.Source.UnassignedShifts(ctx, t, env)
	if err != nil {
		return err
	}
	if len(shifts) == 0 {
		h.Log.Info("no unassigned shifts for schedule %s", t.ScheduleID)
		return nil
	}

	e := engine.New(env, workers, shifts, engineConfig(h.Config), h.Log)
	if _, err := e.Calculate(); err != nil {
		return err
	}

	return h.Source.ApplyAssignments(ctx, t, e.Shifts())
}

func loadLocation(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("tasking: loading timezone %q: %w", name, err)
	}
	return loc, nil
}

func engineConfig(cfg config.Config) engine.Config {
	return engine.Config{
		UnassignedPenalty:        cfg.UnassignedPenalty,
		MinHoursViolationPenalty: cfg.MinHoursViolationPenalty,
		Duration:                 30 * time.Second,
		HappyCalculationTimeout:  cfg.HappyCalculationTimeout,
	}
}
