// Package environment holds the immutable week parameters shared by every
// worker and shift in one calculation. It is a direct port of
// mobius/environment.py.
package environment

import "time"

// Environment describes the role, location, and organization context for one
// week's calculation. It never changes after construction.
type Environment struct {
	OrganizationID string
	LocationID     string
	RoleID         string
	ScheduleID     string

	// Location is the IANA timezone all local-day/local-hour reasoning is
	// performed in.
	Location *time.Location

	// Start and Stop bound the half-open week window [Start, Stop), already
	// expressed in Location so later arithmetic aligns on local midnights.
	Start time.Time
	Stop  time.Time

	// DayWeekStarts is one of the seven recognized day names.
	DayWeekStarts string

	MinMinutesPerWorkday    int
	MaxMinutesPerWorkday    int
	MinMinutesBetweenShifts int
	MaxConsecutiveWorkdays  int
}

// Params is the constructor argument bundle, mirroring Environment.__init__'s
// keyword arguments.
type Params struct {
	OrganizationID          string
	LocationID              string
	RoleID                  string
	ScheduleID              string
	Location                *time.Location
	Start                   time.Time
	Stop                    time.Time
	DayWeekStarts           string
	MinMinutesPerWorkday    int
	MaxMinutesPerWorkday    int
	MinMinutesBetweenShifts int
	MaxConsecutiveWorkdays  int
}

// New builds an Environment, re-expressing Start/Stop in Location so every
// later local-day/local-hour computation aligns consistently. No validation
// of window length is performed — shifts and workers are expected to cover
// roughly seven local days, but nothing enforces it.
func New(p Params) Environment {
	return Environment{
		OrganizationID:          p.OrganizationID,
		LocationID:              p.LocationID,
		RoleID:                  p.RoleID,
		ScheduleID:              p.ScheduleID,
		Location:                p.Location,
		Start:                   p.Start.In(p.Location),
		Stop:                    p.Stop.In(p.Location),
		DayWeekStarts:           p.DayWeekStarts,
		MinMinutesPerWorkday:    p.MinMinutesPerWorkday,
		MaxMinutesPerWorkday:    p.MaxMinutesPerWorkday,
		MinMinutesBetweenShifts: p.MinMinutesBetweenShifts,
		MaxConsecutiveWorkdays:  p.MaxConsecutiveWorkdays,
	}
}

// ToLocal interprets t as UTC when it carries no offset, then projects it
// into the environment's timezone. Mirrors
// Environment.datetime_utc_to_local.
func (e Environment) ToLocal(t time.Time) time.Time {
	return t.In(e.Location)
}
