package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock is a time of day.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) minutes() int {
	return c.Hour*60 + c.Minute
}

// On returns the clock time on the date of the given day in loc.
func (c Clock) On(day time.Time, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, loc)
}

func parseClock(text string) (Clock, error) {
	hourText, minuteText, found := strings.Cut(text, ":")
	if !found {
		return Clock{}, fmt.Errorf("missing ':' in %q", text)
	}
	hour, err := strconv.Atoi(hourText)
	if err != nil {
		return Clock{}, fmt.Errorf("parse hour: %w", err)
	}
	minute, err := strconv.Atoi(minuteText)
	if err != nil {
		return Clock{}, fmt.Errorf("parse minute: %w", err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("clock out of range: %q", text)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// ParseTimeRange converts an entry time like "1:00-2:20" into 24 hour clock times.
//
// The schedule writes hours on a 12 hour clock without a meridiem, classes
// start no earlier than 8:00 so hours 1 through 7 are afternoon. An end time
// that would land before the start is moved 12 hours later.
func ParseTimeRange(text string) (start Clock, end Clock, err error) {
	startText, endText, found := strings.Cut(text, "-")
	if !found {
		return Clock{}, Clock{}, fmt.Errorf("missing '-' in time range %q", text)
	}
	start, err = parseClock(strings.TrimSpace(startText))
	if err != nil {
		return Clock{}, Clock{}, err
	}
	end, err = parseClock(strings.TrimSpace(endText))
	if err != nil {
		return Clock{}, Clock{}, err
	}

	if start.Hour >= 1 && start.Hour <= 7 {
		start.Hour += 12
	}
	if end.Hour >= 1 && end.Hour <= 7 {
		end.Hour += 12
	}
	if end.minutes() < start.minutes() && end.Hour+12 <= 23 {
		end.Hour += 12
	}
	return start, end, nil
}
