package expert

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
	"uwsched/internal/components/telemetry"
	"uwsched/internal/schedule"

	"github.com/stretchr/testify/require"
)

func TestDefaultChromeConfig(t *testing.T) {
	config := DefaultChromeConfig()
	require.Equal(t, DefaultURL, config.URL)
	require.Equal(t, 10*time.Second, config.StepTimeout)
	require.Equal(t, 2*time.Second, config.SettleDelay)
	require.False(t, config.Headful)
	require.ElementsMatch(t, []string{"disable-gpu", "no-sandbox", "disable-dev-shm-usage"}, config.Flags)

	fetcher := NewChromeFetcher(config, &telemetry.RecordingAPI{})
	// defaults plus one option per flag
	require.Greater(t, len(fetcher.allocatorOptions()), len(config.Flags))

	require.Panics(t, func() {
		NewChromeFetcher(config, nil)
	})
	require.Panics(t, func() {
		config := DefaultChromeConfig()
		config.StepTimeout = 0
		NewChromeFetcher(config, &telemetry.RecordingAPI{})
	})
}

func TestFillExprEscapesValues(t *testing.T) {
	expr := fillExpr(`CS"); alert("x`, "246\n")
	require.Contains(t, expr, `select.value = "CS\"); alert(\"x";`)
	require.Contains(t, expr, `input.value = "246\n";`)
}

func TestChromeLaunchFailure(t *testing.T) {
	config := DefaultChromeConfig()
	config.ExecPath = "/nonexistent/chrome"
	tel := &telemetry.RecordingAPI{}
	fetcher := NewChromeFetcher(config, tel)

	start := time.Now()
	text, err := fetcher.FetchScheduleText(testContext(t), "CS", "246")
	require.Empty(t, text)
	require.Less(t, time.Since(start), config.StepTimeout)

	var automationErr *AutomationError
	require.True(t, errors.As(err, &automationErr))
	require.Equal(t, stepLaunch, automationErr.Step)
	require.False(t, errors.Is(err, ErrSubjectNotFound))

	broken := tel.Find("broken")
	require.Len(t, broken, 1)
	require.True(t, strings.HasSuffix(broken[0].ID, report_chrome_fetch_schedule_text))

	called := false
	err = fetcher.withBrowser(testContext(t), func(ctx context.Context) error {
		called = true
		return nil
	})
	require.Error(t, err)
	require.False(t, called)

	_, err = fetcher.Subjects(testContext(t))
	require.Error(t, err)
	require.Len(t, tel.Find("broken"), 2)
}

// requires a local chrome, run with UWSCHED_CHROME_TEST=1
func TestChromeFetchScheduleText(t *testing.T) {
	if os.Getenv("UWSCHED_CHROME_TEST") == "" {
		t.Skip("UWSCHED_CHROME_TEST is not set")
	}

	server := newExpertServer(t)
	config := DefaultChromeConfig()
	config.URL = server.expertURL()
	config.SettleDelay = 500 * time.Millisecond
	config.ExecPath = os.Getenv("UWSCHED_CHROME_PATH")

	tel := &telemetry.RecordingAPI{}
	fetcher := NewChromeFetcher(config, tel)

	text, err := fetcher.FetchScheduleText(testContext(t), "cs", "246")
	require.NoError(t, err)
	require.Len(t, schedule.ExtractSchedules(text), 3)

	form := <-server.submitted
	require.Equal(t, "CS", form["subject"])
	require.Equal(t, "246", form["cournum"])

	_, err = fetcher.FetchScheduleText(testContext(t), "STAT", "230")
	require.ErrorIs(t, err, ErrSubjectNotFound)

	subjects, err := fetcher.Subjects(testContext(t))
	require.NoError(t, err)
	require.Len(t, subjects, 5)

	require.Empty(t, tel.Find("broken"))
}
