// hwif/state_test.go
package hwif

import (
	"testing"
	"time"
)

func TestStateStartsCold(t *testing.T) {
	var s State
	st := s.Snapshot()
	if st.Initialized || st.ErrorCount != 0 || st.WarningCount != 0 || st.LastError != "" || st.Uptime != 0 {
		t.Fatalf("zero state not cold: %+v", st)
	}
}

func TestCountersOnlyGrow(t *testing.T) {
	var s State
	s.MarkInitialized()
	s.RecordError(TimeoutErr("first"))
	s.RecordError(CommErr("second", nil))
	s.RecordWarning("noted")
	s.MarkDeinitialized()

	st := s.Snapshot()
	if st.Initialized {
		t.Fatal("still initialized after MarkDeinitialized")
	}
	if st.ErrorCount != 2 || st.WarningCount != 1 {
		t.Fatalf("counts = %d/%d, want 2/1", st.ErrorCount, st.WarningCount)
	}
	if st.LastError != "communication_error: second" {
		t.Fatalf("last error = %q", st.LastError)
	}
}

func TestRecordErrorReturnsSameError(t *testing.T) {
	var s State
	e := NotInited()
	if got := s.RecordError(e); got != error(e) {
		t.Fatalf("RecordError changed the error: %v", got)
	}
	if s.RecordError(nil) != nil {
		t.Fatal("RecordError(nil) must be nil")
	}
	if s.Snapshot().ErrorCount != 1 {
		t.Fatal("nil record must not count")
	}
}

func TestUptimeRunsWhileInitialized(t *testing.T) {
	var s State
	s.MarkInitialized()
	time.Sleep(5 * time.Millisecond)
	if up := s.Snapshot().Uptime; up <= 0 {
		t.Fatalf("uptime = %v, want > 0", up)
	}
	s.MarkDeinitialized()
	if up := s.Snapshot().Uptime; up != 0 {
		t.Fatalf("uptime after deinit = %v, want 0", up)
	}
}
