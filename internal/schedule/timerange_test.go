package schedule

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTimeRange(t *testing.T) {
	testCases := []struct {
		text  string
		start Clock
		end   Clock
	}{
		{text: "10:30-11:20", start: Clock{10, 30}, end: Clock{11, 20}},
		{text: "8:30-9:50", start: Clock{8, 30}, end: Clock{9, 50}},
		{text: "11:30-12:50", start: Clock{11, 30}, end: Clock{12, 50}},
		{text: "12:30-1:20", start: Clock{12, 30}, end: Clock{13, 20}},
		{text: "1:00-2:20", start: Clock{13, 0}, end: Clock{14, 20}},
		{text: "7:00-9:50", start: Clock{19, 0}, end: Clock{21, 50}},
		{text: "18:30-21:20", start: Clock{18, 30}, end: Clock{21, 20}},
	}

	for _, test := range testCases {
		start, end, err := ParseTimeRange(test.text)
		require.NoError(t, err, test.text)
		require.Equal(t, test.start, start, test.text)
		require.Equal(t, test.end, end, test.text)
	}
}

func TestParseTimeRangeInvalid(t *testing.T) {
	for _, text := range []string{"", "10:30", "10-11", "ab:cd-11:20", "10:75-11:20"} {
		_, _, err := ParseTimeRange(text)
		require.Error(t, err, text)
	}
}
