// hwif/spi.go
package hwif

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"

	"paylink-go/internal/devio"
)

// SPI drives a payload on a Linux spidev node. SPI is inherently
// full duplex: Transfer clocks tx out while rx clocks in, so both sides
// must be the same length. Read clocks zeros out; Write discards the
// inbound side.
type SPI struct {
	cfg SPIConfig
	st  State

	mu   sync.Mutex
	conn devio.SPIConn
	open func(path string) (devio.SPIConn, error) // swapped by tests
}

var _ Port = (*SPI)(nil)

func NewSPI(cfg SPIConfig) *SPI {
	cfg.Params = cfg.Params.OrDefaults()
	d := &SPI{cfg: cfg, open: devio.OpenSPI}
	d.st.Label = fmt.Sprintf("spi %s mode%d", cfg.Device, cfg.Mode)
	return d
}

func (d *SPI) Initialize(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.st.Initialized() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return d.st.RecordError(OpFailed("initialize canceled", err))
	}
	if d.cfg.Mode > 3 {
		return d.st.RecordError(InvalidParam(fmt.Sprintf("spi mode %d out of range 0..3", d.cfg.Mode)))
	}
	conn, err := d.open(d.cfg.Device)
	if err != nil {
		return d.st.RecordError(classifyOpen(d.cfg.Device, err))
	}
	bits := d.cfg.BitsPerWord
	if bits == 0 {
		bits = 8
	}
	if err := conn.Setup(d.cfg.Mode, d.cfg.SpeedHz, bits); err != nil {
		conn.Close()
		return d.st.RecordError(CommErr("program mode/speed/word size", err))
	}
	d.conn = conn
	d.st.MarkInitialized()
	glog.V(2).Infof("%s: initialized (%d Hz)", d.st.Label, d.cfg.SpeedHz)
	return nil
}

func (d *SPI) Deinitialize(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.st.Initialized() {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	d.st.MarkDeinitialized()
	if err != nil {
		return d.st.RecordError(CommErr("close", err))
	}
	glog.V(2).Infof("%s: deinitialized", d.st.Label)
	return nil
}

func (d *SPI) Initialized() bool { return d.st.Initialized() }
func (d *SPI) Status() Status    { return d.st.Snapshot() }

// Transfer clocks one full-duplex transaction. tx and rx must be the same
// length; the check runs before any hardware is touched.
func (d *SPI) Transfer(ctx context.Context, tx, rx []byte, timeout time.Duration) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.st.Initialized() {
		return 0, d.st.RecordError(NotInited())
	}
	if len(tx) != len(rx) {
		return 0, d.st.RecordError(InvalidParam(fmt.Sprintf("transfer length mismatch: tx=%d rx=%d", len(tx), len(rx))))
	}
	if err := ctx.Err(); err != nil {
		return 0, d.st.RecordError(OpFailed("transfer canceled", err))
	}
	if len(tx) == 0 {
		return 0, nil
	}
	if err := d.conn.Transfer(tx, rx); err != nil {
		return 0, d.st.RecordError(CommErr("transfer", err))
	}
	return len(rx), nil
}

func (d *SPI) Read(ctx context.Context, p []byte, timeout time.Duration) (int, error) {
	tx := make([]byte, len(p))
	return d.Transfer(ctx, tx, p, timeout)
}

func (d *SPI) Write(ctx context.Context, p []byte) (int, error) {
	rx := make([]byte, len(p))
	if _, err := d.Transfer(ctx, p, rx, 0); err != nil {
		return 0, err
	}
	return len(p), nil
}
