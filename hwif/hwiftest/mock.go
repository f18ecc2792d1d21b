// hwif/hwiftest/mock.go
//
// Package hwiftest provides scriptable stand-ins for the hwif transports.
// Each mock consumes an explicit, ordered expectation queue: a call that is
// not the next scripted step fails the operation AND is recorded as a
// violation, so a mis-scripted exchange can never pass silently. Lifecycle
// methods follow the real transport contract by default and consult the
// queue only when a lifecycle step was scripted explicitly.
package hwiftest

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"paylink-go/hwif"
)

const (
	methodInitialize   = "Initialize"
	methodDeinitialize = "Deinitialize"
	methodRead         = "Read"
	methodWrite        = "Write"
	methodTransfer     = "Transfer"
)

// Step is one scripted expectation.
type Step struct {
	method string
	wantTx []byte // expected outbound bytes; nil matches any
	data   []byte // inbound bytes handed to the caller
	n      int    // write result; <= 0 means "all of it"
	err    error
	times  int
	used   int
}

// Times marks the step to be consumed n times before the queue advances.
func (s *Step) Times(n int) *Step {
	if n > 0 {
		s.times = n
	}
	return s
}

type script struct {
	mu         sync.Mutex
	steps      []*Step
	violations []string
}

func (s *script) push(st *Step) *Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.times = 1
	s.steps = append(s.steps, st)
	return st
}

// next consumes the head step for method, or records a violation.
func (s *script) next(method string, tx []byte) (*Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.steps) == 0 {
		return nil, s.violate("unexpected %s: no expectations left", method)
	}
	head := s.steps[0]
	if head.method != method {
		return nil, s.violate("unexpected %s: next scripted call is %s", method, head.method)
	}
	if head.wantTx != nil && !bytes.Equal(head.wantTx, tx) {
		return nil, s.violate("%s sent % x, scripted % x", method, tx, head.wantTx)
	}
	head.used++
	if head.used >= head.times {
		s.steps = s.steps[1:]
	}
	return head, nil
}

// maybeNext consumes the head step only when it matches method.
// Lifecycle methods use it so an unscripted Initialize stays legal.
func (s *script) maybeNext(method string) (*Step, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.steps) == 0 || s.steps[0].method != method {
		return nil, false
	}
	head := s.steps[0]
	head.used++
	if head.used >= head.times {
		s.steps = s.steps[1:]
	}
	return head, true
}

// violate appends a breach and returns it as a failing error.
// Callers hold s.mu.
func (s *script) violate(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	s.violations = append(s.violations, msg)
	return hwif.OpFailed(msg, nil)
}

// failf is violate for callers that do not hold the lock.
func (s *script) failf(format string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.violate(format, args...)
}

// Violations returns every contract breach observed so far.
func (s *script) Violations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.violations))
	copy(out, s.violations)
	return out
}

// ExpectationsMet reports recorded violations and scripted steps that were
// never consumed.
func (s *script) ExpectationsMet() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.violations); n > 0 {
		return fmt.Errorf("%d violation(s), first: %s", n, s.violations[0])
	}
	if n := len(s.steps); n > 0 {
		return fmt.Errorf("%d scripted step(s) left, next: %s", n, s.steps[0].method)
	}
	return nil
}

// AssertExpectations fails the test when the script did not play out.
func (s *script) AssertExpectations(t *testing.T) {
	t.Helper()
	if err := s.ExpectationsMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

// lifecycleMock carries the queue plus real lifecycle accounting, shared by
// all three transport mocks.
type lifecycleMock struct {
	script
	st hwif.State
}

func (m *lifecycleMock) Initialize(ctx context.Context) error {
	if step, ok := m.maybeNext(methodInitialize); ok {
		if step.err != nil {
			return m.st.RecordError(step.err)
		}
		m.st.MarkInitialized()
		return nil
	}
	if m.st.Initialized() {
		return nil
	}
	m.st.MarkInitialized()
	return nil
}

func (m *lifecycleMock) Deinitialize(ctx context.Context) error {
	if step, ok := m.maybeNext(methodDeinitialize); ok {
		if step.err != nil {
			return m.st.RecordError(step.err)
		}
		m.st.MarkDeinitialized()
		return nil
	}
	if !m.st.Initialized() {
		return nil
	}
	m.st.MarkDeinitialized()
	return nil
}

func (m *lifecycleMock) Initialized() bool   { return m.st.Initialized() }
func (m *lifecycleMock) Status() hwif.Status { return m.st.Snapshot() }

// InjectError degrades the mock's status without a scripted call, for
// exercising "operation succeeded but the interface reported errors" paths.
func (m *lifecycleMock) InjectError(msg string) {
	m.st.RecordError(hwif.OpFailed(msg, nil))
}

func (m *lifecycleMock) InjectWarning(msg string) {
	m.st.RecordWarning(msg)
}

// gate enforces the data-plane contract common to every mock method.
func (m *lifecycleMock) gate() error {
	if !m.st.Initialized() {
		return m.st.RecordError(hwif.NotInited())
	}
	return nil
}

// read plays one scripted Read step into p.
func (m *lifecycleMock) read(p []byte) (int, error) {
	step, err := m.next(methodRead, nil)
	if err != nil {
		return 0, m.st.RecordError(err)
	}
	if step.err != nil {
		return 0, m.st.RecordError(step.err)
	}
	if len(step.data) > len(p) {
		return 0, m.st.RecordError(m.failf("scripted %d reply bytes do not fit caller buffer of %d", len(step.data), len(p)))
	}
	return copy(p, step.data), nil
}

// write plays one scripted Write step against p.
func (m *lifecycleMock) write(p []byte) (int, error) {
	step, err := m.next(methodWrite, p)
	if err != nil {
		return 0, m.st.RecordError(err)
	}
	if step.err != nil {
		return 0, m.st.RecordError(step.err)
	}
	n := step.n
	if n <= 0 || n > len(p) {
		n = len(p)
	}
	return n, nil
}

// transfer plays one scripted Transfer step.
func (m *lifecycleMock) transfer(tx, rx []byte) (int, error) {
	step, err := m.next(methodTransfer, tx)
	if err != nil {
		return 0, m.st.RecordError(err)
	}
	if step.err != nil {
		return 0, m.st.RecordError(step.err)
	}
	if len(step.data) != len(rx) {
		return 0, m.st.RecordError(m.failf("scripted reply is %d bytes, caller expects %d", len(step.data), len(rx)))
	}
	return copy(rx, step.data), nil
}
