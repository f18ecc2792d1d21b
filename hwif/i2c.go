// hwif/i2c.go
package hwif

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"
	"tinygo.org/x/drivers"

	"paylink-go/internal/devio"
)

// I2C drives a payload peripheral on a Linux i2c-dev bus. One value owns
// one open node; an internal lock keeps operations single flight.
//
// i2c-dev transactions complete at bus speed, so the per-call timeout
// parameter is advisory here; bound a misbehaving bus with WithTimeout.
type I2C struct {
	cfg I2CConfig
	st  State

	mu    sync.Mutex
	conn  devio.I2CConn
	bound uint16
	open  func(path string) (devio.I2CConn, error) // swapped by tests
}

// An initialized *I2C can back tinygo-style device drivers directly.
var _ drivers.I2C = (*I2C)(nil)

var _ Port = (*I2C)(nil)

func NewI2C(cfg I2CConfig) *I2C {
	cfg.Params = cfg.Params.OrDefaults()
	d := &I2C{cfg: cfg, open: devio.OpenI2C}
	d.st.Label = fmt.Sprintf("i2c-%d@0x%02x", cfg.Bus, cfg.Addr)
	return d
}

func (d *I2C) devicePath() string { return fmt.Sprintf("/dev/i2c-%d", d.cfg.Bus) }

func (d *I2C) Initialize(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.st.Initialized() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return d.st.RecordError(OpFailed("initialize canceled", err))
	}
	path := d.devicePath()
	conn, err := d.open(path)
	if err != nil {
		return d.st.RecordError(classifyOpen(path, err))
	}
	if err := conn.BindSlave(d.cfg.Addr); err != nil {
		conn.Close()
		return d.st.RecordError(CommErr("bind slave address", err))
	}
	d.conn = conn
	d.bound = d.cfg.Addr
	d.st.MarkInitialized()
	glog.V(2).Infof("%s: initialized", d.st.Label)
	return nil
}

// Deinitialize releases the node. It is idempotent and proceeds even when
// ctx is already done: teardown must not be blockable.
func (d *I2C) Deinitialize(ctx context.Context) error {
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

func (d *I2C) Initialized() bool { return d.st.Initialized() }
func (d *I2C) Status() Status    { return d.st.Snapshot() }

func (d *I2C) Read(ctx context.Context, p []byte, timeout time.Duration) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.st.Initialized() {
		return 0, d.st.RecordError(NotInited())
	}
	if err := ctx.Err(); err != nil {
		return 0, d.st.RecordError(OpFailed("read canceled", err))
	}
	if len(p) == 0 {
		return 0, nil
	}
	n, err := d.conn.Read(p)
	if err != nil {
		return 0, d.st.RecordError(CommErr("read", err))
	}
	return n, nil
}

func (d *I2C) Write(ctx context.Context, p []byte) (int, error) {
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
	n, err := d.conn.Write(p)
	if err != nil {
		return 0, d.st.RecordError(CommErr("write", err))
	}
	return n, nil
}

// Transfer is a write phase followed by a read phase against the bound
// peripheral, executed under one lock hold. tx and rx lengths are
// independent; either side may be empty.
func (d *I2C) Transfer(ctx context.Context, tx, rx []byte, timeout time.Duration) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.st.Initialized() {
		return 0, d.st.RecordError(NotInited())
	}
	if err := ctx.Err(); err != nil {
		return 0, d.st.RecordError(OpFailed("transfer canceled", err))
	}
	if len(tx) > 0 {
		n, err := d.conn.Write(tx)
		if err != nil {
			return 0, d.st.RecordError(CommErr("transfer write", err))
		}
		if n < len(tx) {
			return 0, d.st.RecordError(CommErr(fmt.Sprintf("short transfer write: %d of %d bytes", n, len(tx)), nil))
		}
	}
	if len(rx) == 0 {
		return 0, nil
	}
	n, err := d.conn.Read(rx)
	if err != nil {
		return 0, d.st.RecordError(CommErr("transfer read", err))
	}
	if n < len(rx) {
		return n, d.st.RecordError(CommErr(fmt.Sprintf("short transfer read: %d of %d bytes", n, len(rx)), nil))
	}
	return n, nil
}

// Tx implements tinygo.org/x/drivers.I2C so sensor drivers written against
// that contract can run over a payload bus. addr may differ from the
// configured peripheral; the node is rebound as needed.
func (d *I2C) Tx(addr uint16, w, r []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.st.Initialized() {
		return d.st.RecordError(NotInited())
	}
	if addr != d.bound {
		if err := d.conn.BindSlave(addr); err != nil {
			return d.st.RecordError(CommErr("bind slave address", err))
		}
		d.bound = addr
	}
	if len(w) > 0 {
		if _, err := d.conn.Write(w); err != nil {
			return d.st.RecordError(CommErr("tx write", err))
		}
	}
	if len(r) > 0 {
		if _, err := d.conn.Read(r); err != nil {
			return d.st.RecordError(CommErr("tx read", err))
		}
	}
	return nil
}
