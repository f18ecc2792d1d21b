// hwif/i2c_test.go
package hwif

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"testing"
	"time"

	"paylink-go/internal/devio"
)

type fakeI2CConn struct {
	reads   [][]byte
	written [][]byte
	bound   []uint16

	bindErr  error
	readErr  error
	writeErr error
	closeErr error
	shortW   int
	closed   bool
}

func (c *fakeI2CConn) BindSlave(addr uint16) error {
	if c.bindErr != nil {
		return c.bindErr
	}
	c.bound = append(c.bound, addr)
	return nil
}

func (c *fakeI2CConn) Read(p []byte) (int, error) {
	if c.readErr != nil {
		return 0, c.readErr
	}
	if len(c.reads) == 0 {
		return 0, nil
	}
	n := copy(p, c.reads[0])
	c.reads = c.reads[1:]
	return n, nil
}

func (c *fakeI2CConn) Write(p []byte) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	n := len(p)
	if c.shortW > 0 && n > c.shortW {
		n = c.shortW
	}
	c.written = append(c.written, append([]byte(nil), p[:n]...))
	return n, nil
}

func (c *fakeI2CConn) Close() error {
	c.closed = true
	return c.closeErr
}

// newTestI2C wires an I2C transport to a fake node.
func newTestI2C(t *testing.T, conn *fakeI2CConn) *I2C {
	t.Helper()
	d := NewI2C(I2CConfig{Bus: 1, Addr: 0x50})
	d.st.Label = "" // keep test logs quiet
	d.open = func(path string) (devio.I2CConn, error) {
		if path != "/dev/i2c-1" {
			t.Fatalf("opened %q, want /dev/i2c-1", path)
		}
		return conn, nil
	}
	return d
}

func TestI2CLifecycle(t *testing.T) {
	ctx := context.Background()
	conn := &fakeI2CConn{}
	d := newTestI2C(t, conn)

	if d.Initialized() {
		t.Fatal("initialized before Initialize")
	}
	if err := d.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !d.Initialized() {
		t.Fatal("not initialized after Initialize")
	}
	if len(conn.bound) != 1 || conn.bound[0] != 0x50 {
		t.Fatalf("bound = %v, want [0x50]", conn.bound)
	}

	// Initialize on a live link is a no-op.
	if err := d.Initialize(ctx); err != nil {
		t.Fatalf("second Initialize = %v, want nil", err)
	}
	if !d.Initialized() {
		t.Fatal("no longer initialized after repeated Initialize")
	}
	if len(conn.bound) != 1 {
		t.Fatalf("bound = %v, want a single bind across repeated Initialize", conn.bound)
	}

	if err := d.Deinitialize(ctx); err != nil {
		t.Fatalf("Deinitialize: %v", err)
	}
	if !conn.closed {
		t.Fatal("node not closed")
	}
	if err := d.Deinitialize(ctx); err != nil {
		t.Fatalf("repeated Deinitialize must succeed, got %v", err)
	}

	st := d.Status()
	if st.Initialized {
		t.Fatal("status still initialized")
	}
	if st.ErrorCount != 0 {
		t.Fatalf("error count = %d, want 0 across a clean lifecycle", st.ErrorCount)
	}
}

func TestI2COpenFailureClassification(t *testing.T) {
	d := NewI2C(I2CConfig{Bus: 7, Addr: 0x10})
	d.st.Label = ""
	d.open = func(path string) (devio.I2CConn, error) {
		return nil, &os.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	err := d.Initialize(context.Background())
	if KindOf(err) != KindDeviceNotFound {
		t.Fatalf("err = %v, want device_not_found", err)
	}
	if d.Initialized() {
		t.Fatal("initialized after failed open")
	}

	d.open = func(path string) (devio.I2CConn, error) {
		return nil, &os.PathError{Op: "open", Path: path, Err: fs.ErrPermission}
	}
	if err := d.Initialize(context.Background()); KindOf(err) != KindPermissionDenied {
		t.Fatalf("err = %v, want permission_denied", err)
	}
}

func TestI2COpsRequireInitialize(t *testing.T) {
	ctx := context.Background()
	opened := false
	d := NewI2C(I2CConfig{Bus: 1, Addr: 0x50})
	d.st.Label = ""
	d.open = func(string) (devio.I2CConn, error) {
		opened = true
		return &fakeI2CConn{}, nil
	}

	if _, err := d.Read(ctx, make([]byte, 4), 0); KindOf(err) != KindNotInitialized {
		t.Fatalf("read err = %v", err)
	}
	if _, err := d.Write(ctx, []byte{1}); KindOf(err) != KindNotInitialized {
		t.Fatalf("write err = %v", err)
	}
	if _, err := d.Transfer(ctx, []byte{1}, make([]byte, 2), 0); KindOf(err) != KindNotInitialized {
		t.Fatalf("transfer err = %v", err)
	}
	if err := d.Tx(0x50, []byte{1}, nil); KindOf(err) != KindNotInitialized {
		t.Fatalf("tx err = %v", err)
	}
	if opened {
		t.Fatal("hardware touched before Initialize")
	}
	if st := d.Status(); st.ErrorCount != 4 {
		t.Fatalf("error count = %d, want 4", st.ErrorCount)
	}
}

func TestI2CTransferIndependentLengths(t *testing.T) {
	ctx := context.Background()
	reply := []byte{0x39, 0x8E, 0xE3, 0x3D, 0x00, 0x00, 0x80, 0x3F}
	conn := &fakeI2CConn{reads: [][]byte{reply}}
	d := newTestI2C(t, conn)
	if err := d.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	rx := make([]byte, 8)
	n, err := d.Transfer(ctx, []byte{0x01, 0x00}, rx, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if n != 8 || !bytes.Equal(rx, reply) {
		t.Fatalf("rx = %x (n=%d)", rx, n)
	}
	if !bytes.Equal(conn.written[0], []byte{0x01, 0x00}) {
		t.Fatalf("tx = %x", conn.written[0])
	}
}

func TestI2CShortTransferWriteFails(t *testing.T) {
	ctx := context.Background()
	conn := &fakeI2CConn{shortW: 1}
	d := newTestI2C(t, conn)
	if err := d.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	_, err := d.Transfer(ctx, []byte{0x03, 0x04}, nil, 0)
	if KindOf(err) != KindCommunication {
		t.Fatalf("err = %v, want communication_error", err)
	}
	st := d.Status()
	if !st.Initialized || st.ErrorCount != 1 {
		t.Fatalf("degraded status wrong: %+v", st)
	}
}

func TestI2CTxRebindsForForeignAddress(t *testing.T) {
	ctx := context.Background()
	conn := &fakeI2CConn{reads: [][]byte{{0xAA}}}
	d := newTestI2C(t, conn)
	if err := d.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	r := make([]byte, 1)
	if err := d.Tx(0x68, []byte{0x0F}, r); err != nil {
		t.Fatalf("Tx: %v", err)
	}
	if len(conn.bound) != 2 || conn.bound[1] != 0x68 {
		t.Fatalf("bound = %v, want rebind to 0x68", conn.bound)
	}

	// Same address again: no extra rebind.
	conn.reads = [][]byte{{0xBB}}
	if err := d.Tx(0x68, []byte{0x0F}, r); err != nil {
		t.Fatalf("Tx: %v", err)
	}
	if len(conn.bound) != 2 {
		t.Fatalf("bound = %v, rebind repeated needlessly", conn.bound)
	}
}
