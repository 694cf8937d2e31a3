package session

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
	"uwsched/internal/schedule"

	"github.com/stretchr/testify/require"
)

func TestRenderOutcomes(t *testing.T) {
	long := strings.Repeat("é", maxErrorWidth+10)

	var out strings.Builder
	RenderOutcomes(&out, []Outcome{
		{Key: "CS 246", Status: StatusFound, Entries: []schedule.Entry{{Section: "LEC 001"}}},
		{Key: "CS 999", Status: StatusAutomationFailed, Err: errors.New("results:\n" + long)},
	})

	rendered := out.String()
	require.True(t, utf8.ValidString(rendered))
	require.Contains(t, rendered, "CS 246")
	require.Contains(t, rendered, "automation_failed")
	require.Contains(t, rendered, "results: é")
	require.Contains(t, rendered, strings.Repeat("é", maxErrorWidth-3-len("results: "))+"...")
	require.NotContains(t, rendered, long)
}
