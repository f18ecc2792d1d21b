// hwif/resilience.go
package hwif

import (
	"context"
	"time"

	"paylink-go/internal/timeutil"
)

// ------------------------
// Resilience wrappers
// ------------------------
//
// Pacing, timeout and retry are separate wrappers so callers compose only
// what a device needs: Retry(WithTimeout(op)) bounds each attempt,
// WithTimeout(Retry(op)) bounds the whole exchange.

// Pacer enforces a fixed settle delay before each command dispatch, giving
// slow payload firmware time to recover between commands. The delay applies
// before every dispatch, including the first.
type Pacer struct {
	gap time.Duration
}

func NewPacer(gap time.Duration) *Pacer {
	return &Pacer{gap: gap}
}

// Wait blocks for the configured gap or until ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := timeutil.Sleep(ctx, p.gap); err != nil {
		return OpFailed("pacing interrupted", err)
	}
	return nil
}

// WithTimeout runs op under a deadline of d. On expiry it returns a timeout
// error and abandons op's eventual result (op keeps the derived context and
// should stop on its own). d <= 0 runs op without an added deadline.
func WithTimeout(ctx context.Context, d time.Duration, op func(context.Context) error) error {
	if d <= 0 {
		return op(ctx)
	}
	tctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- op(tctx) }()
	select {
	case err := <-done:
		if err != nil && tctx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			// The deadline fired while op was failing; timeout wins so the
			// caller sees a deterministic kind either way the race lands.
			return &Error{Kind: KindTimeout, Reason: "deadline " + d.String() + " exceeded", Err: err}
		}
		return err
	case <-tctx.Done():
		if err := ctx.Err(); err != nil {
			return OpFailed("canceled", err)
		}
		return TimeoutErr("deadline " + d.String() + " exceeded")
	}
}

// Retry runs op up to count times with a fixed delay between attempts.
// The first success wins. Non-transient kinds (see Kind.Transient) stop the
// loop immediately; exhausting all attempts surfaces the last error as-is.
// count <= 1 means a single attempt.
func Retry(ctx context.Context, count int, delay time.Duration, op func(context.Context) error) error {
	if count < 1 {
		count = 1
	}
	var err error
	for attempt := 0; attempt < count; attempt++ {
		if attempt > 0 {
			if serr := timeutil.Sleep(ctx, delay); serr != nil {
				return OpFailed("retry interrupted", serr)
			}
		}
		err = op(ctx)
		if err == nil {
			return nil
		}
		if !KindOf(err).Transient() {
			return err
		}
	}
	return err
}
