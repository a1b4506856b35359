package resolver

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Signalis-Media/beacon/internal/model"
)

// IsEntryActive reports whether a schedule entry matches the current instant
// in the device's own timezone. The instant is converted to the device's
// local civil time first; the server's zone never participates. An entry with
// no date, day or time constraint always matches.
//
// Day-of-week uses 0=Sunday..6=Saturday. Time bounds are inclusive on both
// ends. An entry whose end time is earlier than its start time never matches;
// overnight windows are not wrapped past midnight.
func IsEntryActive(entry model.ScheduleEntry, nowUTC time.Time, deviceTimezone string) bool {
	local := nowUTC.In(deviceLocation(deviceTimezone))

	if entry.StartDate != nil || entry.EndDate != nil {
		today := civilDate(local)
		if entry.StartDate != nil && today.Before(civilDate(*entry.StartDate)) {
			return false
		}
		if entry.EndDate != nil && today.After(civilDate(*entry.EndDate)) {
			return false
		}
	}

	if len(entry.DaysOfWeek) > 0 {
		weekday := int64(local.Weekday())
		member := false
		for _, d := range entry.DaysOfWeek {
			if d == weekday {
				member = true
				break
			}
		}
		if !member {
			return false
		}
	}

	if entry.StartTime != nil || entry.EndTime != nil {
		minute := local.Hour()*60 + local.Minute()
		if entry.StartTime != nil {
			start, ok := parseClock(*entry.StartTime)
			if !ok || minute < start {
				return false
			}
		}
		if entry.EndTime != nil {
			end, ok := parseClock(*entry.EndTime)
			if !ok || minute > end {
				return false
			}
		}
	}

	return true
}

// deviceLocation loads the device's IANA timezone, falling back to UTC when
// the stored name is empty or unknown.
func deviceLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Str("timezone", name).Msg("unknown device timezone, using UTC")
		return time.UTC
	}
	return loc
}

// civilDate truncates a local instant to its calendar date.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// parseClock converts "HH:MM" (or "HH:MM:SS", seconds ignored) to a
// minute-of-day value.
func parseClock(s string) (int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}
