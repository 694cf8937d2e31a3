package schedule

import (
	"strings"
	"time"
)

type Day string

const (
	Monday    Day = "M"
	Tuesday   Day = "T"
	Wednesday Day = "W"
	Thursday  Day = "TH"
	Friday    Day = "F"
)

var weekdays = map[Day]time.Weekday{
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
}

// Weekday returns the weekday of a known day token, ok is false for
// anything outside of M, T, W, TH, F.
func (d Day) Weekday() (weekday time.Weekday, ok bool) {
	weekday, ok = weekdays[d]
	return weekday, ok
}

// SplitDays splits an undelimited run of day codes like "MTWTHF" into tokens.
// "TH" is always taken over "T" when an H follows, every other character
// becomes a token of its own.
func SplitDays(text string) []Day {
	chars := []rune(strings.ToUpper(text))

	days := []Day{}
	for i := 0; i < len(chars); {
		if chars[i] == 'T' && i+1 < len(chars) && chars[i+1] == 'H' {
			days = append(days, Thursday)
			i += 2
			continue
		}
		days = append(days, Day(string(chars[i])))
		i++
	}
	return days
}
