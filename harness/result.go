// harness/result.go
package harness

import (
	"fmt"
	"time"
)

// Status classifies one executed case.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
)

// Result is the record of one case run. ErrorCount and WarningCount are
// the interface's post-run totals, not per-case deltas: once a rig is
// degraded, every later result says so.
type Result struct {
	Name         string        `json:"name"`
	Status       Status        `json:"status"`
	Reason       string        `json:"reason,omitempty"`
	Duration     time.Duration `json:"duration"`
	ErrorCount   uint32        `json:"error_count"`
	WarningCount uint32        `json:"warning_count"`
}

func (r Result) String() string {
	if r.Reason != "" {
		return fmt.Sprintf("%s: %s (%s)", r.Name, r.Status, r.Reason)
	}
	return fmt.Sprintf("%s: %s", r.Name, r.Status)
}

// SuiteResult aggregates one suite run. Results keep submission order.
type SuiteResult struct {
	Suite    string        `json:"suite"`
	RunID    string        `json:"run_id"`
	Rig      string        `json:"rig,omitempty"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Results  []Result      `json:"results"`
	Passed   int           `json:"passed"`
	Failed   int           `json:"failed"`
	Skipped  int           `json:"skipped"`
	Errors   int           `json:"errors"`
}

// add appends r and keeps the totals in step.
func (s *SuiteResult) add(r Result) {
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusPassed:
		s.Passed++
	case StatusFailed:
		s.Failed++
	case StatusSkipped:
		s.Skipped++
	case StatusError:
		s.Errors++
	}
}

// Total is the number of executed and skipped cases.
func (s *SuiteResult) Total() int { return len(s.Results) }

// Ok reports whether the suite is clean: skips are acceptable, failures
// and errors are not.
func (s *SuiteResult) Ok() bool { return s.Failed == 0 && s.Errors == 0 }
