package schedule

import (
	"fmt"
	"strings"
)

// Entry is a single section offering parsed out of the results page.
type Entry struct {
	// ex. "LEC 001"
	Section string `json:"section"`
	// ex. "10:30-11:20", hours are not zero-padded
	Time string `json:"time"`
	Days []Day  `json:"days"`
}

// QueryKey identifies a (subject, course number) query within a session.
func QueryKey(subject, courseNumber string) string {
	return fmt.Sprintf(
		"%s %s",
		strings.ToUpper(strings.TrimSpace(subject)),
		strings.TrimSpace(courseNumber),
	)
}
