// hwif/state.go
package hwif

import (
	"sync"
	"time"

	"github.com/golang/glog"
)

// State is the accounting block owned by each transport: lifecycle flag,
// degradation counters and the most recent failure. Counters only grow for
// the lifetime of the value; deinitialization does not reset them, so an
// "initialized but degraded" transport stays observable.
//
// State has its own lock so Status snapshots are safe while an operation
// is in flight on the owning transport.
type State struct {
	// Label names the transport in log lines, e.g. "i2c-1@0x50".
	// Empty disables logging (mocks leave it empty).
	Label string

	mu        sync.Mutex
	inited    bool
	errors    uint32
	warnings  uint32
	lastError string
	started   time.Time
}

// Status is an immutable snapshot of a State.
type Status struct {
	Initialized  bool          `json:"initialized"`
	ErrorCount   uint32        `json:"error_count"`
	WarningCount uint32        `json:"warning_count"`
	LastError    string        `json:"last_error,omitempty"`
	Uptime       time.Duration `json:"uptime"`
}

func (s *State) MarkInitialized() {
	s.mu.Lock()
	s.inited = true
	s.started = time.Now()
	s.mu.Unlock()
}

func (s *State) MarkDeinitialized() {
	s.mu.Lock()
	s.inited = false
	s.started = time.Time{}
	s.mu.Unlock()
}

func (s *State) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inited
}

// RecordError accounts a failed operation and reports it to the log sink.
// It returns err unchanged so failure paths can record and return in one
// statement.
func (s *State) RecordError(err error) error {
	if err == nil {
		return nil
	}
	s.mu.Lock()
	s.errors++
	s.lastError = err.Error()
	label := s.Label
	s.mu.Unlock()
	if label != "" {
		glog.Warningf("%s: %v", label, err)
	}
	return err
}

// RecordWarning accounts a condition worth surfacing that did not fail the
// operation (e.g. a config knob the backend cannot apply).
func (s *State) RecordWarning(msg string) {
	s.mu.Lock()
	s.warnings++
	label := s.Label
	s.mu.Unlock()
	if label != "" {
		glog.Warningf("%s: %s", label, msg)
	}
}

// Snapshot returns the current status. Uptime counts from the last
// successful Initialize and reads zero while deinitialized.
func (s *State) Snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		Initialized:  s.inited,
		ErrorCount:   s.errors,
		WarningCount: s.warnings,
		LastError:    s.lastError,
	}
	if s.inited && !s.started.IsZero() {
		st.Uptime = time.Since(s.started)
	}
	return st
}
