package temporal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Staffjoy/mobius-assignment/internal/temporal"
)

func TestWeekDayRangeRotatesFromStartDay(t *testing.T) {
	days, err := temporal.WeekDayRange("wednesday")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"wednesday", "thursday", "friday", "saturday", "sunday", "monday", "tuesday",
	}, days)
}

func TestWeekDayRangeRejectsUnknownDay(t *testing.T) {
	_, err := temporal.WeekDayRange("miercoles")
	assert.ErrorIs(t, err, temporal.ErrInvalidDay)
}

func TestNormalizeToMidnightPreservesDateAndZone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	start := time.Date(1990, time.December, 9, 6, 22, 11, 0, loc)
	got := temporal.NormalizeToMidnight(start)

	assert.Equal(t, time.Date(1990, time.December, 9, 0, 0, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestDayOf(t *testing.T) {
	d := time.Date(2015, time.December, 23, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, "wednesday", temporal.DayOf(d))
}

func TestOverlapContainedInterval(t *testing.T) {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	outerStart, outerStop := base, base.Add(2*time.Hour)
	innerStart, innerStop := base.Add(30*time.Minute), base.Add(time.Hour)

	assert.True(t, temporal.Overlap(innerStart, innerStop, outerStart, outerStop))
}

func TestOverlapTouchingEndpointsDoNotOverlap(t *testing.T) {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	aStart, aStop := base, base.Add(time.Hour)
	bStart, bStop := aStop, aStop.Add(time.Hour)

	assert.False(t, temporal.Overlap(aStart, aStop, bStart, bStop))
}

func TestOverlapDegenerateIntervalAtSharedEndpoint(t *testing.T) {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	aStart, aStop := base, base.Add(time.Hour)
	// A zero-width interval exactly at the boundary is contained in [aStart, aStop).
	assert.True(t, temporal.Overlap(aStop, aStop, aStart, aStop))
}

func TestFormatQueryInstantRoundTrips(t *testing.T) {
	parsed, err := temporal.ParseInstant("2015-12-21T08:00:00-08:00")
	require.NoError(t, err)
	assert.Equal(t, "2015-12-21T16:00:00Z", temporal.FormatQueryInstant(parsed))
}
