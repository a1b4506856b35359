package resolver

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/Signalis-Media/beacon/internal/model"
)

func clock(s string) *string { return &s }

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestIsEntryActive_UnconstrainedAlwaysMatches(t *testing.T) {
	entry := model.ScheduleEntry{}
	now := time.Date(2026, 8, 25, 3, 30, 0, 0, time.UTC)
	assert.True(t, IsEntryActive(entry, now, "UTC"))
	assert.True(t, IsEntryActive(entry, now, "Asia/Tokyo"))
	assert.True(t, IsEntryActive(entry, now, ""))
}

func TestIsEntryActive_TimeWindowInclusiveBounds(t *testing.T) {
	entry := model.ScheduleEntry{StartTime: clock("09:00"), EndTime: clock("17:00")}

	at := func(h, m int) time.Time {
		return time.Date(2026, 8, 25, h, m, 0, 0, time.UTC)
	}

	assert.False(t, IsEntryActive(entry, at(8, 59), "UTC"))
	assert.True(t, IsEntryActive(entry, at(9, 0), "UTC"), "start bound is inclusive")
	assert.True(t, IsEntryActive(entry, at(12, 30), "UTC"))
	assert.True(t, IsEntryActive(entry, at(17, 0), "UTC"), "end bound is inclusive")
	assert.False(t, IsEntryActive(entry, at(17, 1), "UTC"))
}

func TestIsEntryActive_UsesDeviceTimezoneNotServer(t *testing.T) {
	entry := model.ScheduleEntry{StartTime: clock("09:00"), EndTime: clock("17:00")}

	// 14:00 UTC is 09:00 in New York (EST, January): inside the window
	// there, outside it in Tokyo (23:00).
	now := time.Date(2026, 1, 6, 14, 0, 0, 0, time.UTC)
	assert.True(t, IsEntryActive(entry, now, "America/New_York"))
	assert.False(t, IsEntryActive(entry, now, "Asia/Tokyo"))
}

func TestIsEntryActive_DayOfWeekSet(t *testing.T) {
	weekdays := pq.Int64Array{1, 2, 3, 4, 5} // Mon..Fri
	entry := model.ScheduleEntry{DaysOfWeek: weekdays}

	tuesday := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	assert.True(t, IsEntryActive(entry, tuesday, "UTC"))
	assert.False(t, IsEntryActive(entry, saturday, "UTC"))
	assert.False(t, IsEntryActive(entry, sunday, "UTC"))

	sundayOnly := model.ScheduleEntry{DaysOfWeek: pq.Int64Array{0}}
	assert.True(t, IsEntryActive(sundayOnly, sunday, "UTC"), "0 means Sunday")
}

func TestIsEntryActive_DayOfWeekInDeviceZone(t *testing.T) {
	// 2026-08-25 01:00 in Tokyo is still 2026-08-24 (Monday) 16:00 UTC.
	entry := model.ScheduleEntry{DaysOfWeek: pq.Int64Array{2}} // Tuesday
	now := time.Date(2026, 8, 24, 16, 0, 0, 0, time.UTC)
	assert.True(t, IsEntryActive(entry, now, "Asia/Tokyo"))
	assert.False(t, IsEntryActive(entry, now, "UTC"))
}

func TestIsEntryActive_DateRange(t *testing.T) {
	entry := model.ScheduleEntry{
		StartDate: date(2026, 8, 10),
		EndDate:   date(2026, 8, 20),
	}

	assert.False(t, IsEntryActive(entry, time.Date(2026, 8, 9, 12, 0, 0, 0, time.UTC), "UTC"))
	assert.True(t, IsEntryActive(entry, time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC), "UTC"))
	assert.True(t, IsEntryActive(entry, time.Date(2026, 8, 20, 23, 59, 0, 0, time.UTC), "UTC"))
	assert.False(t, IsEntryActive(entry, time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC), "UTC"))
}

func TestIsEntryActive_OvernightWindowNeverMatches(t *testing.T) {
	// end before start is a plain range comparison, not a midnight wrap
	entry := model.ScheduleEntry{StartTime: clock("22:00"), EndTime: clock("06:00")}

	assert.False(t, IsEntryActive(entry, time.Date(2026, 8, 25, 23, 0, 0, 0, time.UTC), "UTC"))
	assert.False(t, IsEntryActive(entry, time.Date(2026, 8, 25, 5, 0, 0, 0, time.UTC), "UTC"))
	assert.False(t, IsEntryActive(entry, time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC), "UTC"))
}

func TestIsEntryActive_AllConstraintsMustHold(t *testing.T) {
	entry := model.ScheduleEntry{
		StartDate:  date(2026, 8, 1),
		EndDate:    date(2026, 8, 31),
		DaysOfWeek: pq.Int64Array{2},
		StartTime:  clock("09:00"),
		EndTime:    clock("17:00"),
	}

	tuesdayInWindow := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	tuesdayTooEarly := time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
	wednesdayInWindow := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)

	assert.True(t, IsEntryActive(entry, tuesdayInWindow, "UTC"))
	assert.False(t, IsEntryActive(entry, tuesdayTooEarly, "UTC"))
	assert.False(t, IsEntryActive(entry, wednesdayInWindow, "UTC"))
}

func TestIsEntryActive_UnknownTimezoneFallsBackToUTC(t *testing.T) {
	entry := model.ScheduleEntry{StartTime: clock("09:00"), EndTime: clock("17:00")}
	now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	assert.True(t, IsEntryActive(entry, now, "Not/AZone"))
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in     string
		minute int
		ok     bool
	}{
		{"09:00", 540, true},
		{"00:00", 0, true},
		{"23:59", 1439, true},
		{"09:30:15", 570, true},
		{"24:00", 0, false},
		{"09:60", 0, false},
		{"garbage", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		m, ok := parseClock(c.in)
		assert.Equal(t, c.ok, ok, c.in)
		if c.ok {
			assert.Equal(t, c.minute, m, c.in)
		}
	}
}
