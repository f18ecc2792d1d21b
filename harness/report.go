// harness/report.go
package harness

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

// timeQuantum is the display resolution for durations; the JSON report
// keeps full precision.
const timeQuantum = time.Millisecond

var (
	passPaint = color.New(color.FgGreen).SprintFunc()
	failPaint = color.New(color.FgRed, color.Bold).SprintFunc()
	skipPaint = color.New(color.FgYellow).SprintFunc()
	errPaint  = color.New(color.FgRed).SprintFunc()
	dimPaint  = color.New(color.Faint).SprintFunc()
)

// tag returns the console tag for a status, padded to a fixed width so
// the case names line up.
func tag(st Status) string {
	switch st {
	case StatusPassed:
		return passPaint("PASS ")
	case StatusFailed:
		return failPaint("FAIL ")
	case StatusSkipped:
		return skipPaint("SKIP ")
	default:
		return errPaint("ERROR")
	}
}

// WriteText renders a suite result as an aligned console table.
func WriteText(w io.Writer, s SuiteResult) {
	fmt.Fprintf(w, "suite %s", s.Suite)
	if s.Rig != "" {
		fmt.Fprintf(w, "  %s", dimPaint("rig "+short(s.Rig)))
	}
	fmt.Fprintf(w, "  %s\n", dimPaint("run "+short(s.RunID)))

	width := 0
	for _, r := range s.Results {
		if len(r.Name) > width {
			width = len(r.Name)
		}
	}
	for _, r := range s.Results {
		fmt.Fprintf(w, "  %s  %-*s", tag(r.Status), width, r.Name)
		if r.Status != StatusSkipped {
			fmt.Fprintf(w, "  %8s", r.Duration.Round(timeQuantum))
		}
		if r.Reason != "" {
			fmt.Fprintf(w, "  %s", r.Reason)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%d cases: %d passed, %d failed, %d skipped, %d errors in %s\n",
		s.Total(), s.Passed, s.Failed, s.Skipped, s.Errors, s.Duration.Round(timeQuantum))
}

// WriteJSON renders a suite result as indented JSON, one document.
func WriteJSON(w io.Writer, s SuiteResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// short truncates run/rig identifiers for the console; full values stay
// in the JSON report.
func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
