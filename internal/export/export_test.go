package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"
	"uwsched/internal/components/telemetry"
	"uwsched/internal/schedule"
	"uwsched/internal/scrapers/expert"
	"uwsched/internal/session"
	"uwsched/lib/testutil"
	"uwsched/lib/timezone"

	ics "github.com/arran4/golang-ical"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var cs246 = []schedule.Entry{
	{Section: "LEC 001", Time: "10:00-11:20", Days: []schedule.Day{schedule.Tuesday, schedule.Thursday}},
	{Section: "TUT 101", Time: "8:30-9:20", Days: []schedule.Day{schedule.Friday}},
}

var cs136 = []schedule.Entry{
	{Section: "LEC 002", Time: "1:00-2:20", Days: []schedule.Day{schedule.Monday, schedule.Wednesday}},
}

func testResultSet() session.ResultSet {
	rs := session.NewResultSet()
	rs.Set("CS 246", cs246)
	rs.Set("CS 136", cs136)
	return rs
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, WriteJSON(path, testResultSet()))

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(out), "{\n  \"CS 246\": [\n"))
	require.Less(t, strings.Index(string(out), "CS 246"), strings.Index(string(out), "CS 136"))
	require.True(t, strings.HasSuffix(string(out), "}\n"))
}

func TestWriteICS(t *testing.T) {
	rs := testResultSet()
	rs.Set("MATH 135", []schedule.Entry{
		{Section: "LEC 001", Time: "TBA-TBA", Days: []schedule.Day{schedule.Monday}},
		{Section: "LEC 002", Time: "9:30-10:20", Days: []schedule.Day{"S", schedule.Friday}},
	})

	// a sunday
	termStart := time.Date(2024, 9, 1, 0, 0, 0, 0, timezone.Location)
	tel := &telemetry.RecordingAPI{}

	var out strings.Builder
	count, err := WriteICS(&out, rs, termStart, tel)
	require.NoError(t, err)
	require.Equal(t, 6, count)
	require.Len(t, tel.Find("warning"), 2)

	cal, err := ics.ParseCalendar(strings.NewReader(out.String()))
	require.NoError(t, err)

	timezones := cal.Timezones()
	require.Len(t, timezones, 1)
	require.Equal(t, "America/Toronto", timezones[0].GetProperty(ics.ComponentPropertyTzid).Value)
	require.Contains(t, out.String(), "BEGIN:STANDARD\r\nDTSTART:19701101T020000\r\n")
	require.Contains(t, out.String(), "TZOFFSETTO:-0400\r\nTZNAME:EDT\r\nEND:DAYLIGHT")

	type event struct {
		Summary string
		Start   string
		End     string
		Rrule   string
	}
	var events []event
	for _, e := range cal.Events() {
		start := e.GetProperty(ics.ComponentPropertyDtStart)
		require.Equal(t, []string{"America/Toronto"}, start.ICalParameters["TZID"])
		events = append(events, event{
			Summary: e.GetProperty(ics.ComponentPropertySummary).Value,
			Start:   start.Value,
			End:     e.GetProperty(ics.ComponentPropertyDtEnd).Value,
			Rrule:   e.GetProperty(ics.ComponentPropertyRrule).Value,
		})
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Start < events[j].Start
	})

	expected := []event{
		{Summary: "CS 136 LEC 002", Start: "20240902T130000", End: "20240902T142000", Rrule: "FREQ=WEEKLY;BYDAY=MO"},
		{Summary: "CS 246 LEC 001", Start: "20240903T100000", End: "20240903T112000", Rrule: "FREQ=WEEKLY;BYDAY=TU"},
		{Summary: "CS 136 LEC 002", Start: "20240904T130000", End: "20240904T142000", Rrule: "FREQ=WEEKLY;BYDAY=WE"},
		{Summary: "CS 246 LEC 001", Start: "20240905T100000", End: "20240905T112000", Rrule: "FREQ=WEEKLY;BYDAY=TH"},
		{Summary: "CS 246 TUT 101", Start: "20240906T083000", End: "20240906T092000", Rrule: "FREQ=WEEKLY;BYDAY=FR"},
		{Summary: "MATH 135 LEC 002", Start: "20240906T093000", End: "20240906T102000", Rrule: "FREQ=WEEKLY;BYDAY=FR"},
	}
	if diff := cmp.Diff(expected, events); diff != "" {
		t.Fatal(diff)
	}
}

func openTestStore(t *testing.T) Store {
	t.Helper()
	db := testutil.OpenDB(t, Schema)
	// applying the schema again is a no-op
	store, err := OpenStore(context.Background(), db)
	require.NoError(t, err)
	return store
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	first := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	_, err := store.SaveSession(ctx, first, []session.Outcome{
		{Key: "CS 246", Subject: "cs", CourseNumber: "246", Status: session.StatusFound, Entries: cs246},
		{Key: "STAT 230", Subject: "STAT", CourseNumber: "230", Status: session.StatusSubjectNotFound, Err: &expert.LookupError{Subject: "STAT"}},
	})
	require.NoError(t, err)

	entries, startedAt, err := store.Latest(ctx, "CS 246")
	require.NoError(t, err)
	require.True(t, first.Equal(startedAt))
	if diff := cmp.Diff(cs246, entries); diff != "" {
		t.Fatal(diff)
	}

	_, _, err = store.Latest(ctx, "STAT 230")
	require.ErrorIs(t, err, ErrNoResults)
	_, _, err = store.Latest(ctx, "CS 999")
	require.ErrorIs(t, err, ErrNoResults)

	// a newer session that fails does not hide older results, a newer
	// session that finds something does
	second := first.Add(24 * time.Hour)
	secondId, err := store.SaveSession(ctx, second, []session.Outcome{
		{Key: "CS 246", Subject: "CS", CourseNumber: "246", Status: session.StatusAutomationFailed, Err: errors.New("navigate: timeout")},
		{Key: "CS 136", Subject: "CS", CourseNumber: "136", Status: session.StatusFound, Entries: cs136},
	})
	require.NoError(t, err)
	require.Greater(t, secondId, int64(1))

	entries, startedAt, err = store.Latest(ctx, "CS 246")
	require.NoError(t, err)
	require.True(t, first.Equal(startedAt))
	require.Len(t, entries, 2)

	_, err = store.SaveSession(ctx, second.Add(time.Hour), []session.Outcome{
		{Key: "CS 246", Subject: "CS", CourseNumber: "246", Status: session.StatusFound, Entries: cs246[:1]},
	})
	require.NoError(t, err)
	entries, _, err = store.Latest(ctx, "CS 246")
	require.NoError(t, err)
	require.Equal(t, cs246[:1], entries)

	var errText string
	err = store.db.QueryRowContext(ctx, "select error from query where status = ?", "automation_failed").Scan(&errText)
	require.NoError(t, err)
	require.Equal(t, "navigate: timeout", errText)
}
