package schedule

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSplitDays(t *testing.T) {
	testCases := []struct {
		text     string
		expected []Day
	}{
		{text: "MTWTHF", expected: []Day{Monday, Tuesday, Wednesday, Thursday, Friday}},
		{text: "tth", expected: []Day{Tuesday, Thursday}},
		{text: "MWF", expected: []Day{Monday, Wednesday, Friday}},
		{text: "TTh", expected: []Day{Tuesday, Thursday}},
		{text: "ThTh", expected: []Day{Thursday, Thursday}},
		{text: "H", expected: []Day{"H"}},
		{text: "T", expected: []Day{Tuesday}},
		{text: "M,W", expected: []Day{Monday, ",", Wednesday}},
		{text: "", expected: []Day{}},
		{text: "mé", expected: []Day{Monday, "É"}},
		{text: "Tñh", expected: []Day{Tuesday, "Ñ", "H"}},
	}

	for _, test := range testCases {
		diff := cmp.Diff(test.expected, SplitDays(test.text))
		if diff != "" {
			t.Fatalf("SplitDays(%q): %s", test.text, diff)
		}
	}
}

func TestSplitDaysRoundTrip(t *testing.T) {
	alphabet := []Day{Monday, Tuesday, Wednesday, Thursday, Friday}
	rng := rand.New(rand.NewSource(246))

	for i := 0; i < 500; i++ {
		tokens := make([]Day, rng.Intn(12))
		var joined strings.Builder
		for j := range tokens {
			tokens[j] = alphabet[rng.Intn(len(alphabet))]
			joined.WriteString(string(tokens[j]))
		}

		diff := cmp.Diff(tokens, SplitDays(joined.String()))
		if diff != "" {
			t.Fatalf("round trip of %q: %s", joined.String(), diff)
		}
	}
}

func TestDayWeekday(t *testing.T) {
	weekday, ok := Thursday.Weekday()
	require.True(t, ok)
	require.Equal(t, time.Thursday, weekday)

	weekday, ok = Tuesday.Weekday()
	require.True(t, ok)
	require.Equal(t, time.Tuesday, weekday)

	_, ok = Day("S").Weekday()
	require.False(t, ok)
}
