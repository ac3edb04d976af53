package shift_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Staffjoy/mobius-assignment/internal/shift"
)

func mustShift(startOffset, durationMinutes time.Duration) shift.Shift {
	base := time.Date(2015, time.December, 21, 0, 0, 0, 0, time.UTC)
	start := base.Add(startOffset)
	return shift.Shift{
		ShiftID: "s1",
		Start:   start,
		Stop:    start.Add(durationMinutes),
	}
}

func TestTotalMinutesRoundsUp(t *testing.T) {
	s := shift.Shift{
		Start: time.Date(2015, 12, 21, 8, 0, 0, 0, time.UTC),
		Stop:  time.Date(2015, 12, 21, 8, 0, 30, 0, time.UTC),
	}
	assert.Equal(t, 1, s.TotalMinutes())
}

func TestMinutesOverlapClampsToWindow(t *testing.T) {
	s := mustShift(6*time.Hour, 4*time.Hour)
	dayStart := time.Date(2015, time.December, 21, 0, 0, 0, 0, time.UTC)
	dayStop := dayStart.Add(24 * time.Hour)

	assert.Equal(t, 240, s.MinutesOverlap(dayStart, dayStop))
}

func TestMinutesOverlapReturnsZeroOutsideWindow(t *testing.T) {
	s := mustShift(6*time.Hour, 2*time.Hour)
	laterStart := time.Date(2015, time.December, 22, 0, 0, 0, 0, time.UTC)
	laterStop := laterStart.Add(24 * time.Hour)

	assert.Equal(t, 0, s.MinutesOverlap(laterStart, laterStop))
}

func TestIsAssigned(t *testing.T) {
	unassigned := shift.Shift{UserID: shift.UnassignedUserID}
	assigned := shift.Shift{UserID: "27182818"}

	assert.False(t, unassigned.IsAssigned())
	assert.True(t, assigned.IsAssigned())
}

func TestSortByStart(t *testing.T) {
	base := time.Date(2015, time.December, 21, 0, 0, 0, 0, time.UTC)
	shifts := []shift.Shift{
		{ShiftID: "b", Start: base.Add(2 * time.Hour)},
		{ShiftID: "a", Start: base},
		{ShiftID: "c", Start: base.Add(time.Hour)},
	}

	shift.SortByStart(shifts)

	ids := []string{shifts[0].ShiftID, shifts[1].ShiftID, shifts[2].ShiftID}
	assert.Equal(t, []string{"a", "c", "b"}, ids)
}
