package session

import (
	"errors"
	"uwsched/internal/schedule"
	"uwsched/internal/scrapers/expert"
)

type Status string

const (
	StatusFound            Status = "found"
	StatusEmpty            Status = "empty"
	StatusSubjectNotFound  Status = "subject_not_found"
	StatusAutomationFailed Status = "automation_failed"
)

// Outcome is what happened to a single query.
type Outcome struct {
	Key          string
	Subject      string
	CourseNumber string
	Status       Status
	Entries      []schedule.Entry
	// nil unless the fetch failed
	Err error
}

func classify(entries []schedule.Entry, err error) Status {
	switch {
	case errors.Is(err, expert.ErrSubjectNotFound):
		return StatusSubjectNotFound
	case err != nil:
		return StatusAutomationFailed
	case len(entries) == 0:
		return StatusEmpty
	default:
		return StatusFound
	}
}
