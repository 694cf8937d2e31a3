package export

import (
	"fmt"
	"io"
	"strings"
	"time"
	"uwsched/internal/components/assert"
	"uwsched/internal/components/telemetry"
	"uwsched/internal/schedule"
	"uwsched/internal/session"
	"uwsched/lib/timezone"

	ics "github.com/arran4/golang-ical"
)

const (
	report_ics_entry = "ics.entry"
)

const localTimestampFormat = "20060102T150405"

var rruleDays = map[time.Weekday]string{
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
}

func eventUid(key, section string, day schedule.Day) string {
	id := fmt.Sprintf("%s-%s-%s@uwsched", key, section, day)
	return strings.ReplaceAll(strings.ToLower(id), " ", "-")
}

func setLocalTime(event *ics.VEvent, property ics.ComponentProperty, t time.Time) {
	event.SetProperty(
		property,
		t.In(timezone.Location).Format(localTimestampFormat),
		&ics.KeyValues{
			Key:   string(ics.ParameterTzid),
			Value: []string{timezone.Location.String()},
		},
	)
}

func timezoneRule(rule *ics.ComponentBase, start, rrule, from, to, name string) {
	rule.SetProperty(ics.ComponentPropertyDtStart, start)
	rule.SetProperty(ics.ComponentPropertyRrule, rrule)
	rule.SetProperty(ics.ComponentProperty(ics.PropertyTzoffsetfrom), from)
	rule.SetProperty(ics.ComponentProperty(ics.PropertyTzoffsetto), to)
	rule.SetProperty(ics.ComponentProperty(ics.PropertyTzname), name)
}

// addLocalTimezone defines the TZID used by every event, with the daylight
// saving rules America/Toronto follows since 2007.
func addLocalTimezone(cal *ics.Calendar) {
	tz := cal.AddTimezone(timezone.Location.String())

	standard := &ics.Standard{}
	timezoneRule(&standard.ComponentBase, "19701101T020000", "FREQ=YEARLY;BYMONTH=11;BYDAY=1SU", "-0400", "-0500", "EST")
	daylight := &ics.Daylight{}
	timezoneRule(&daylight.ComponentBase, "19700308T020000", "FREQ=YEARLY;BYMONTH=3;BYDAY=2SU", "-0500", "-0400", "EDT")

	tz.Components = append(tz.Components, standard, daylight)
}

// WriteICS writes every entry of the result set as weekly recurring events
// starting on the first matching weekday on or after termStart. There is one
// event per day of an entry. It returns the amount of events written.
//
// Entries that can't be placed on a calendar are skipped and reported.
func WriteICS(w io.Writer, rs session.ResultSet, termStart time.Time, tel telemetry.API) (int, error) {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("export", tel)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//uwsched//class schedule//EN")
	cal.SetXWRCalName("Class Schedule")
	cal.SetXWRTimezone(timezone.Location.String())
	addLocalTimezone(cal)

	stamp := time.Now().UTC()
	count := 0
	rs.Each(func(key string, entries []schedule.Entry) {
		for _, entry := range entries {
			start, end, err := schedule.ParseTimeRange(entry.Time)
			if err != nil {
				tel.ReportWarning(report_ics_entry, key, entry.Section, err)
				continue
			}
			for _, day := range entry.Days {
				weekday, ok := day.Weekday()
				if !ok {
					tel.ReportWarning(report_ics_entry, key, entry.Section, fmt.Errorf("unknown day '%s'", day))
					continue
				}
				date := timezone.NextWeekday(termStart, weekday)

				event := cal.AddEvent(eventUid(key, entry.Section, day))
				event.SetDtStampTime(stamp)
				event.SetSummary(fmt.Sprintf("%s %s", key, entry.Section))
				setLocalTime(event, ics.ComponentPropertyDtStart, start.On(date, timezone.Location))
				setLocalTime(event, ics.ComponentPropertyDtEnd, end.On(date, timezone.Location))
				event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s", rruleDays[weekday]))
				count++
			}
		}
	})

	_, err := io.WriteString(w, cal.Serialize())
	if err != nil {
		return count, err
	}
	return count, nil
}
