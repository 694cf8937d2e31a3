package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/Toronto")
	if err != nil {
		panic(err)
	}
}

// the schedule page lists times in Waterloo local time, calendar
// events must be created in that zone regardless of where this runs.
func Now() time.Time {
	return time.Now().In(Location)
}

// NextWeekday returns the first date on or after `from` that falls on `weekday`,
// truncated to midnight in Location.
func NextWeekday(from time.Time, weekday time.Weekday) time.Time {
	from = from.In(Location)
	offset := (int(weekday) - int(from.Weekday()) + 7) % 7
	day := from.AddDate(0, 0, offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, Location)
}
