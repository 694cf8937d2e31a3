package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"uwsched/internal/components/assert"
	"uwsched/internal/components/telemetry"
	"uwsched/internal/schedule"
	"uwsched/internal/scrapers/expert"
)

const (
	report_session_query   = "session.query"
	report_session_results = "session.results"
)

const (
	subjectPrompt = "Enter subject (e.g., CS) or 'q' to quit: "
	coursePrompt  = "Enter course number (e.g., 246): "
)

type Options struct {
	// print the raw text of the results page after every successful fetch
	EchoRaw bool
}

// Session is an interactive run of queries, it keeps the results of every
// query that found something.
type Session struct {
	fetcher  expert.Fetcher
	prompter Prompter
	out      io.Writer
	tel      telemetry.API
	options  Options

	results  ResultSet
	outcomes []Outcome
}

func New(fetcher expert.Fetcher, prompter Prompter, out io.Writer, tel telemetry.API, options Options) *Session {
	assert.NotNil(fetcher)
	assert.NotNil(prompter)
	assert.NotNil(out)
	assert.NotNil(tel)

	return &Session{
		fetcher:  fetcher,
		prompter: prompter,
		out:      out,
		tel:      telemetry.NewScopedAPI("session", tel),
		options:  options,
		results:  NewResultSet(),
	}
}

func (s *Session) Results() ResultSet {
	return s.results
}

// Outcomes returns every query made so far in order, including failed ones.
func (s *Session) Outcomes() []Outcome {
	return s.outcomes
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func endOfInput(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Run prompts for queries until the user quits, the input ends or ctx is
// cancelled, then prints everything that was found.
func (s *Session) Run(ctx context.Context) error {
	for {
		subject, err := s.prompter.Prompt(ctx, subjectPrompt)
		if endOfInput(err) {
			s.printf("\n")
			break
		}
		if err != nil {
			return err
		}
		if strings.EqualFold(subject, "q") {
			break
		}

		courseNumber, err := s.prompter.Prompt(ctx, coursePrompt)
		if endOfInput(err) {
			s.printf("\n")
			break
		}
		if err != nil {
			return err
		}

		s.Query(ctx, subject, courseNumber)
	}

	return s.PrintSummary()
}

// Query fetches and extracts a single course, failures are printed and
// recorded as an outcome instead of being returned.
func (s *Session) Query(ctx context.Context, subject, courseNumber string) Outcome {
	subject = strings.TrimSpace(subject)
	courseNumber = strings.TrimSpace(courseNumber)
	key := schedule.QueryKey(subject, courseNumber)

	s.tel.ReportDebug("query", key)
	text, err := s.fetcher.FetchScheduleText(ctx, subject, courseNumber)

	var entries []schedule.Entry
	if err == nil {
		if s.options.EchoRaw {
			s.printf("\nResults for %s loaded:\n%s\n", key, text)
		}
		entries = schedule.ExtractSchedules(text)
	}

	outcome := Outcome{
		Key:          key,
		Subject:      subject,
		CourseNumber: courseNumber,
		Status:       classify(entries, err),
		Entries:      entries,
		Err:          err,
	}
	s.outcomes = append(s.outcomes, outcome)

	switch outcome.Status {
	case StatusSubjectNotFound:
		s.tel.ReportWarning(report_session_query, key, err)
		s.printf("%s.\n", err.Error())
		var lookupErr *expert.LookupError
		if errors.As(err, &lookupErr) && len(lookupErr.Suggestions) > 0 {
			s.printf("Did you mean: %s\n", strings.Join(lookupErr.Suggestions, ", "))
		}
	case StatusAutomationFailed:
		s.tel.ReportWarning(report_session_query, key, err)
		s.printf("Error: %s\n", err.Error())
	}

	if !s.results.Set(key, entries) {
		s.printf("No schedules found for %s\n", key)
		return outcome
	}
	s.tel.ReportCount(report_session_results, int64(s.results.Len()))

	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		s.tel.ReportBroken(report_session_query, fmt.Errorf("marshal entries: %w", err))
		return outcome
	}
	s.printf("%s\n", out)
	return outcome
}

// PrintSummary prints the aggregated results followed by a table of every
// query in the session.
func (s *Session) PrintSummary() error {
	out, err := s.results.IndentedJSON()
	if err != nil {
		return err
	}
	s.printf("\nTOTAL RESULTS:\n%s\n", out)

	if len(s.outcomes) > 0 {
		s.printf("\n")
		RenderOutcomes(s.out, s.outcomes)
	}
	return nil
}
