// Package report records the outcome of one specification run and renders it
// as text, JSON or YAML.
//
// A Report is built by a Recorder while a host drives a spec.Fixture: one
// Outcome per test case, stamped with a monotonic seq from a Clock, plus the
// fixture's captured setup fault and any cleanup faults. Reports are what the
// run history store persists and what the mspec CLI prints.
package report

import (
	"time"

	"github.com/samber/lo"
)

// Status classifies a single test case outcome.
type Status string

const (
	StatusPassed   Status = "passed"
	StatusFailed   Status = "failed"
	StatusPending  Status = "pending"
	StatusFiltered Status = "filtered"
)

// Tag returns the four-letter marker used by the text writer.
func (s Status) Tag() string {
	switch s {
	case StatusPassed:
		return "PASS"
	case StatusFailed:
		return "FAIL"
	case StatusPending:
		return "PEND"
	case StatusFiltered:
		return "SKIP"
	default:
		return "????"
	}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return lo.Contains([]Status{StatusPassed, StatusFailed, StatusPending, StatusFiltered}, s)
}

// Outcome is the result of one test case.
type Outcome struct {
	Seq     int64  `json:"seq" yaml:"seq"`
	Name    string `json:"name" yaml:"name"`
	Member  string `json:"member" yaml:"member"`
	Status  Status `json:"status" yaml:"status"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Report is the result of running every test case of one specification
// instance.
type Report struct {
	RunID         string    `json:"run_id" yaml:"run_id"`
	Spec          string    `json:"spec" yaml:"spec"`
	Category      string    `json:"category,omitempty" yaml:"category,omitempty"`
	StartedAt     time.Time `json:"started_at" yaml:"started_at"`
	Fault         string    `json:"fault,omitempty" yaml:"fault,omitempty"`
	Outcomes      []Outcome `json:"outcomes" yaml:"outcomes"`
	CleanupFaults []string  `json:"cleanup_faults,omitempty" yaml:"cleanup_faults,omitempty"`
}

// Counts tallies outcomes by status.
type Counts struct {
	Passed   int `json:"passed" yaml:"passed"`
	Failed   int `json:"failed" yaml:"failed"`
	Pending  int `json:"pending" yaml:"pending"`
	Filtered int `json:"filtered" yaml:"filtered"`
}

// Total returns the number of outcomes counted.
func (c Counts) Total() int {
	return c.Passed + c.Failed + c.Pending + c.Filtered
}

// Counts tallies the report's outcomes.
func (r *Report) Counts() Counts {
	by := lo.CountValuesBy(r.Outcomes, func(o Outcome) Status { return o.Status })
	return Counts{
		Passed:   by[StatusPassed],
		Failed:   by[StatusFailed],
		Pending:  by[StatusPending],
		Filtered: by[StatusFiltered],
	}
}

// Succeeded reports whether no test case failed and the run left no fault
// behind, including in cleanup.
func (r *Report) Succeeded() bool {
	return r.Fault == "" && len(r.CleanupFaults) == 0 && r.Counts().Failed == 0
}
