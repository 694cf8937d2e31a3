package telemetry

import (
	"fmt"
	"sync"
)

// Report is a single call recorded by RecordingAPI.
type Report struct {
	// one of "broken", "warning", "debug", "count"
	Kind   string
	ID     string
	Params []any
}

// RecordingAPI keeps every report in memory so tests can assert on them.
type RecordingAPI struct {
	mutex   sync.Mutex
	Reports []Report
}

func (r *RecordingAPI) record(kind, id string, params []any) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.Reports = append(r.Reports, Report{Kind: kind, ID: id, Params: params})
}

func (r *RecordingAPI) ReportBroken(id string, params ...any) {
	r.record("broken", id, params)
}

func (r *RecordingAPI) ReportWarning(id string, params ...any) {
	r.record("warning", id, params)
}

func (r *RecordingAPI) ReportDebug(msg string, params ...any) {
	r.record("debug", msg, params)
}

func (r *RecordingAPI) ReportCount(id string, count int64) {
	r.record("count", id, []any{count})
}

// Find returns the reports of a given kind, in order.
func (r *RecordingAPI) Find(kind string) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []Report
	for _, report := range r.Reports {
		if report.Kind == kind {
			out = append(out, report)
		}
	}
	return out
}

func (r Report) String() string {
	return fmt.Sprintf("%s %s %v", r.Kind, r.ID, r.Params)
}
