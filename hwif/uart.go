// hwif/uart.go
package hwif

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/tarm/serial"
)

// uartReadSlice is the poll granularity of the serial driver. Read loops
// in slices of this length until data arrives or the caller budget runs
// out, so cancellation is observed between slices.
const uartReadSlice = 25 * time.Millisecond

// UART drives a byte-stream payload line through the host serial driver.
type UART struct {
	cfg UARTConfig
	st  State

	mu   sync.Mutex
	port io.ReadWriteCloser
	open func(cfg UARTConfig) (io.ReadWriteCloser, error) // swapped by tests
}

var _ Stream = (*UART)(nil)

func NewUART(cfg UARTConfig) *UART {
	cfg.Params = cfg.Params.OrDefaults()
	d := &UART{cfg: cfg, open: openSerial}
	d.st.Label = "uart " + cfg.Device
	return d
}

func openSerial(cfg UARTConfig) (io.ReadWriteCloser, error) {
	sc := &serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		Size:        byte(cfg.DataBits),
		ReadTimeout: uartReadSlice,
	}
	switch cfg.Parity {
	case ParityEven:
		sc.Parity = serial.ParityEven
	case ParityOdd:
		sc.Parity = serial.ParityOdd
	default:
		sc.Parity = serial.ParityNone
	}
	if cfg.StopBits == 2 {
		sc.StopBits = serial.Stop2
	} else {
		sc.StopBits = serial.Stop1
	}
	return serial.OpenPort(sc)
}

func (d *UART) Initialize(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.st.Initialized() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return d.st.RecordError(OpFailed("initialize canceled", err))
	}
	if d.cfg.DataBits < 5 || d.cfg.DataBits > 8 {
		return d.st.RecordError(InvalidParam(fmt.Sprintf("data bits %d out of range 5..8", d.cfg.DataBits)))
	}
	if d.cfg.StopBits != 1 && d.cfg.StopBits != 2 {
		return d.st.RecordError(InvalidParam(fmt.Sprintf("stop bits %d out of range 1..2", d.cfg.StopBits)))
	}
	port, err := d.open(d.cfg)
	if err != nil {
		return d.st.RecordError(classifyOpen(d.cfg.Device, err))
	}
	d.port = port
	d.st.MarkInitialized()
	if d.cfg.Flow != FlowNone {
		// The host serial driver has no flow-control knob; the line still
		// works, so this degrades to a warning instead of failing init.
		d.st.RecordWarning(d.cfg.Flow.String() + " flow control not applied on this backend")
	}
	glog.V(2).Infof("%s: initialized (baud=%d %d%s%d)",
		d.st.Label, d.cfg.Baud, d.cfg.DataBits, parityLetter(d.cfg.Parity), d.cfg.StopBits)
	return nil
}

func parityLetter(p Parity) string {
	switch p {
	case ParityEven:
		return "E"
	case ParityOdd:
		return "O"
	}
	return "N"
}

func (d *UART) Deinitialize(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.st.Initialized() {
		return nil
	}
	err := d.port.Close()
	d.port = nil
	d.st.MarkDeinitialized()
	if err != nil {
		return d.st.RecordError(CommErr("close", err))
	}
	glog.V(2).Infof("%s: deinitialized", d.st.Label)
	return nil
}

func (d *UART) Initialized() bool { return d.st.Initialized() }
func (d *UART) Status() Status    { return d.st.Snapshot() }

// Read returns as soon as at least one byte arrives, or fails with a
// timeout error after a silent line exhausts the budget. timeout <= 0
// falls back to the configured per-op timeout.
func (d *UART) Read(ctx context.Context, p []byte, timeout time.Duration) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.st.Initialized() {
		return 0, d.st.RecordError(NotInited())
	}
	if len(p) == 0 {
		return 0, nil
	}
	if timeout <= 0 {
		timeout = d.cfg.Params.Timeout
	}
	deadline := time.Now().Add(timeout)
	for {
		if err := ctx.Err(); err != nil {
			return 0, d.st.RecordError(OpFailed("read canceled", err))
		}
		n, err := d.port.Read(p)
		if n > 0 {
			return n, nil
		}
		if err != nil && err != io.EOF {
			return 0, d.st.RecordError(CommErr("read", err))
		}
		// io.EOF from the driver means the read slice elapsed silently.
		if !time.Now().Before(deadline) {
			return 0, d.st.RecordError(TimeoutErr("no data within " + timeout.String()))
		}
	}
}

func (d *UART) Write(ctx context.Context, p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.st.Initialized() {
		return 0, d.st.RecordError(NotInited())
	}
	if err := ctx.Err(); err != nil {
		return 0, d.st.RecordError(OpFailed("write canceled", err))
	}
	if len(p) == 0 {
		return 0, nil
	}
	n, err := d.port.Write(p)
	if err != nil {
		return n, d.st.RecordError(CommErr("write", err))
	}
	return n, nil
}
