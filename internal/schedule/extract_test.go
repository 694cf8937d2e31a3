package schedule

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const resultsPage = `CS 246  Object-Oriented Software Development  0.50
Class Comp Sec Camp Loc Assoc Class Rel1 Rel2 Enrl Cap Enrl Tot Wait Tot Time Days Bldg Room Instructor
5943 LEC 001 UW U 1 5947 0 90 88 0 10:00-11:20TTh MC 2065 Smith,Jane
                                   Reserve: Computer Science students
5944 LEC 002 UW U 2 5948 0 90 90 4 1:00-2:20MW MC 4020 Lee,Sam
5947 TUT 101 UW U 1 0 0 180 178 0 8:30-9:20F MC 4045
5948 TST 201 UW U 1 0 0 360 0 0 7:00-8:50PMTh STC 0050
`

func TestExtractSchedules(t *testing.T) {
	expected := []Entry{
		{Section: "LEC 001", Time: "10:00-11:20", Days: []Day{Tuesday, Thursday}},
		{Section: "LEC 002", Time: "1:00-2:20", Days: []Day{Monday, Wednesday}},
		{Section: "TUT 101", Time: "8:30-9:20", Days: []Day{Friday}},
	}

	diff := cmp.Diff(expected, ExtractSchedules(resultsPage))
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestExtractSchedulesSingle(t *testing.T) {
	entries := ExtractSchedules("LEC 001 ... 10:30-11:20MWF")
	require.Equal(t, []Entry{
		{Section: "LEC 001", Time: "10:30-11:20", Days: []Day{Monday, Wednesday, Friday}},
	}, entries)
}

func TestExtractSchedulesEmpty(t *testing.T) {
	require.Empty(t, ExtractSchedules(""))
	require.NotNil(t, ExtractSchedules(""))
	require.Empty(t, ExtractSchedules("no classes were found for this term"))
}

func TestExtractSchedulesReservedRows(t *testing.T) {
	text := "LEC 001 Reserve: Math students\nTUT 102 Reserve: AFM students"
	require.Empty(t, ExtractSchedules(text))
}

func TestExtractSchedulesOrder(t *testing.T) {
	text := "TUT 103 x 4:30-5:20W\nLEC 002 y 9:30-10:20MWF\nLEC 001 z 11:30-12:20TTH"
	entries := ExtractSchedules(text)

	sections := make([]string, len(entries))
	for i, e := range entries {
		sections[i] = e.Section
	}
	require.Equal(t, []string{"TUT 103", "LEC 002", "LEC 001"}, sections)
}

func TestExtractSchedulesDoesNotCrossLines(t *testing.T) {
	text := "LEC 001 TBA\n10:30-11:20MWF"
	require.Empty(t, ExtractSchedules(text))
}

func TestQueryKey(t *testing.T) {
	require.Equal(t, "CS 246", QueryKey("cs", "246"))
	require.Equal(t, "MATH 135", QueryKey(" Math ", " 135"))
	require.Equal(t, "CO 250a", QueryKey("co", "250a"))
}
