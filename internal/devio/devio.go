// internal/devio/devio.go
//
// Package devio is the seam between the transport layer and Linux character
// device nodes (/dev/i2c-N, /dev/spidevX.Y). It keeps every syscall and
// ioctl in one place so the transports above it can swap in fakes.
package devio

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// ------------------------
// Bus connection contracts
// ------------------------

// I2CConn is an open i2c-dev node bound (or bindable) to a slave address.
type I2CConn interface {
	io.ReadWriteCloser

	// BindSlave selects the peripheral address for subsequent reads/writes.
	BindSlave(addr uint16) error
}

// SPIConn is an open spidev node.
type SPIConn interface {
	io.Closer

	// Setup programs mode, clock and word size on the node.
	Setup(mode uint8, speedHz uint32, bitsPerWord uint8) error

	// Transfer clocks one full-duplex transaction. Callers guarantee
	// len(tx) == len(rx).
	Transfer(tx, rx []byte) error
}

// ------------------------
// Real implementations
// ------------------------

// OpenI2C opens an i2c-dev node read-write.
func OpenI2C(path string) (I2CConn, error) {
	n, err := openNode(path)
	if err != nil {
		return nil, err
	}
	return &i2cNode{node: n}, nil
}

// OpenSPI opens a spidev node read-write.
func OpenSPI(path string) (SPIConn, error) {
	n, err := openNode(path)
	if err != nil {
		return nil, err
	}
	return &spiNode{node: n}, nil
}

type node struct {
	fd   int
	path string
}

// openNode wraps failures in *os.PathError so callers can classify them
// with errors.Is(err, fs.ErrNotExist) / fs.ErrPermission.
func openNode(path string) (*node, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	return &node{fd: fd, path: path}, nil
}

func (n *node) Read(p []byte) (int, error) {
	c, err := unix.Read(n.fd, p)
	if err != nil {
		return 0, &os.PathError{Op: "read", Path: n.path, Err: err}
	}
	return c, nil
}

func (n *node) Write(p []byte) (int, error) {
	c, err := unix.Write(n.fd, p)
	if err != nil {
		return 0, &os.PathError{Op: "write", Path: n.path, Err: err}
	}
	return c, nil
}

func (n *node) Close() error {
	if err := unix.Close(n.fd); err != nil {
		return &os.PathError{Op: "close", Path: n.path, Err: err}
	}
	return nil
}
