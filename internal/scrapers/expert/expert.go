// Package expert drives the CSCF "expert" class schedule page, a frameset
// with a query form in the `select` frame and the rendered schedule in the
// `results` frame.
package expert

import (
	"context"
	"errors"
	"fmt"
	"uwsched/lib/telemetry"
)

const DefaultURL = "https://cs.uwaterloo.ca/cscf/teaching/schedule/expert"

const (
	selectFrameName  = "select"
	resultsFrameName = "results"
	subjectField     = "subject"
	courseField      = "cournum"
	submitLabel      = "View Class Schedules"
)

const (
	report_chrome_fetch_schedule_text = "chrome.fetch-schedule-text"
	report_chrome_subjects            = "chrome.subjects"
	report_http_fetch_schedule_text   = "http.fetch-schedule-text"
	report_http_subjects              = "http.subjects"
)

var tracer = telemetry.Tracer("uwsched.scrapers.expert")

// Fetcher returns the text of the results frame for a query.
//
// Implementations own whatever resource they use (a browser process, an http
// session) for exactly one call and release it before returning.
type Fetcher interface {
	// FetchScheduleText selects the first subject whose label starts with `subject`
	// (case-insensitive), enters `courseNumber` verbatim and returns the visible
	// text of the results.
	//
	// The returned error wraps ErrSubjectNotFound when no subject matches, any other
	// error is an *AutomationError.
	FetchScheduleText(ctx context.Context, subject, courseNumber string) (string, error)
	// Subjects lists the subject dropdown in page order.
	Subjects(ctx context.Context) ([]Subject, error)
}

var ErrSubjectNotFound = errors.New("subject not found")

// LookupError is returned when no dropdown label starts with the requested subject.
type LookupError struct {
	Subject string
	// closest labels, best first
	Suggestions []string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("could not find subject '%s' in dropdown", e.Subject)
}

func (e *LookupError) Unwrap() error {
	return ErrSubjectNotFound
}

// AutomationError is returned when driving the page fails, this includes
// steps that exceed their timeout.
type AutomationError struct {
	Step string
	Err  error
}

func (e *AutomationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Step, e.Err.Error())
}

func (e *AutomationError) Unwrap() error {
	return e.Err
}

func automationError(step string, err error) error {
	var automationErr *AutomationError
	if errors.As(err, &automationErr) {
		return err
	}
	return &AutomationError{Step: step, Err: err}
}
