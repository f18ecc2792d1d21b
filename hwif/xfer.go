// hwif/xfer.go
package hwif

import (
	"context"
	"fmt"
	"time"

	"paylink-go/internal/timeutil"
)

// ------------------------
// Derived transfer helpers
// ------------------------

// ReadExact fills buf completely or fails. A transport error after partial
// progress is reported as a communication error naming the short count; an
// error before any byte arrived passes through unchanged. The timeout is
// the budget for the whole fill, not per chunk.
func ReadExact(ctx context.Context, r Readable, buf []byte, timeout time.Duration) error {
	deadline := time.Time{}
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	got := 0
	for got < len(buf) {
		remaining := timeout
		if !deadline.IsZero() {
			remaining = time.Until(deadline)
			if remaining <= 0 {
				return CommErr(fmt.Sprintf("short read: %d of %d bytes", got, len(buf)), TimeoutErr("read budget exhausted"))
			}
		}
		n, err := r.Read(ctx, buf[got:], remaining)
		got += n
		if err != nil {
			if got > 0 && got < len(buf) {
				return CommErr(fmt.Sprintf("short read: %d of %d bytes", got, len(buf)), err)
			}
			return err
		}
		if n == 0 {
			return CommErr(fmt.Sprintf("short read: %d of %d bytes", got, len(buf)), nil)
		}
	}
	return nil
}

// WriteAll writes p completely or fails with a communication error naming
// the short count.
func WriteAll(ctx context.Context, w Writable, p []byte) error {
	sent := 0
	for sent < len(p) {
		n, err := w.Write(ctx, p[sent:])
		sent += n
		if err != nil {
			if sent > 0 && sent < len(p) {
				return CommErr(fmt.Sprintf("short write: %d of %d bytes", sent, len(p)), err)
			}
			return err
		}
		if n == 0 {
			return CommErr(fmt.Sprintf("short write: %d of %d bytes", sent, len(p)), nil)
		}
	}
	return nil
}

// Exchange runs one command/response round trip over a byte-stream
// transport: write the frame, give the device settle time to prepare its
// reply, then read exactly rxLen bytes. It is the half-duplex counterpart
// of Bidirectional.Transfer.
func Exchange(ctx context.Context, rw ReadWriter, tx []byte, rxLen int, settle, timeout time.Duration) ([]byte, error) {
	if err := WriteAll(ctx, rw, tx); err != nil {
		return nil, err
	}
	if err := timeutil.Sleep(ctx, settle); err != nil {
		return nil, OpFailed("exchange interrupted", err)
	}
	buf := make([]byte, rxLen)
	if err := ReadExact(ctx, rw, buf, timeout); err != nil {
		return nil, err
	}
	return buf, nil
}
