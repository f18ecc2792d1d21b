// harness/runner.go
//
// Package harness runs named hardware checks against a shared transport
// and classifies each outcome. A case passes only when its operation
// succeeded AND the interface reports a clean status afterwards; an
// operation that worked against a degraded interface is a failure, not a
// pass. Suites keep submission order and carry identity (run id, rig) so
// reports from different benches stay attributable.
package harness

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
	"github.com/google/uuid"

	"paylink-go/hwif"
)

// Case is one named check. Run receives the shared interface under the
// runner's exclusive lock. A non-empty Skip short-circuits the case with
// that reason; Run is not called.
type Case struct {
	Name string
	Skip string
	Run  func(ctx context.Context, iface hwif.Interface) error
}

// Runner executes cases one at a time against a single interface.
// Params.Timeout bounds each case so a hung transport cannot stall the
// whole suite.
type Runner struct {
	mu     sync.Mutex
	iface  hwif.Interface
	params hwif.Params
}

func NewRunner(iface hwif.Interface, params hwif.Params) *Runner {
	return &Runner{iface: iface, params: params.OrDefaults()}
}

// Run executes one case and classifies it:
//
//	Error   the operation itself failed (or ran past the case budget)
//	Failed  the operation succeeded but the interface reports errors
//	Passed  the operation succeeded and the status is clean
//
// The error/warning counts in the result are the post-run status totals.
func (r *Runner) Run(ctx context.Context, c Case) Result {
	if c.Skip != "" {
		return Result{Name: c.Name, Status: StatusSkipped, Reason: c.Skip}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	err := hwif.WithTimeout(ctx, r.params.Timeout, func(ctx context.Context) error {
		return c.Run(ctx, r.iface)
	})
	res := Result{Name: c.Name, Duration: time.Since(start)}

	st := r.iface.Status()
	res.ErrorCount = st.ErrorCount
	res.WarningCount = st.WarningCount
	switch {
	case err != nil:
		res.Status = StatusError
		res.Reason = err.Error()
	case st.ErrorCount > 0:
		res.Status = StatusFailed
		res.Reason = fmt.Sprintf("%d errors reported", st.ErrorCount)
	default:
		res.Status = StatusPassed
	}
	glog.V(2).Infof("harness: %s", res)
	return res
}

// RunSuite executes cases in submission order and aggregates the results.
// Execution is sequential; a failing case does not stop the suite.
func (r *Runner) RunSuite(ctx context.Context, suite string, cases []Case) SuiteResult {
	s := SuiteResult{
		Suite:   suite,
		RunID:   uuid.NewString(),
		Rig:     rigID(),
		Started: time.Now(),
	}
	for _, c := range cases {
		s.add(r.Run(ctx, c))
	}
	s.Duration = time.Since(s.Started)
	glog.V(1).Infof("harness: suite %s: %d cases, %d passed, %d failed, %d skipped, %d errors",
		s.Suite, s.Total(), s.Passed, s.Failed, s.Skipped, s.Errors)
	return s
}

// rigID names the bench the suite ran on. Best effort: an unreadable
// machine id yields an empty rig, never an error.
func rigID() string {
	id, err := machineid.ID()
	if err != nil {
		return ""
	}
	return id
}
