// hwif/hwif.go
//
// Package hwif abstracts the payload-facing hardware buses of the onboard
// computer. Transports expose narrow capability interfaces (read, write,
// full-duplex transfer, lifecycle) so device clients depend only on what
// they actually use, and mocks can stand in per capability.
package hwif

import (
	"context"
	"time"
)

// ------------------------
// Capability contracts
// ------------------------

// Interface is the lifecycle capability shared by every transport.
//
// Initialize claims the underlying device node. Both lifecycle methods
// are idempotent: Initialize on a live transport and Deinitialize on a
// released one return nil without touching the hardware. Status never
// fails and never blocks behind an in-flight operation.
type Interface interface {
	Initialize(ctx context.Context) error
	Deinitialize(ctx context.Context) error
	Initialized() bool
	Status() Status
}

// Readable can move bytes from the device to the caller. Read returns the
// number of bytes placed in p, which may be fewer than len(p). The timeout
// bounds how long the transport waits for the first byte where the backend
// supports waiting; ctx covers cancellation throughout.
type Readable interface {
	Read(ctx context.Context, p []byte, timeout time.Duration) (int, error)
}

// Writable can move bytes from the caller to the device. Write returns the
// number of bytes accepted, which may be fewer than len(p).
type Writable interface {
	Write(ctx context.Context, p []byte) (int, error)
}

// ReadWriter is a byte-stream transport (UART-class).
type ReadWriter interface {
	Readable
	Writable
}

// Bidirectional adds a combined transaction on top of the stream
// capabilities: one write phase and one read phase (or a full-duplex clock
// for SPI) executed as a unit. It returns the number of bytes placed in rx.
type Bidirectional interface {
	ReadWriter
	Transfer(ctx context.Context, tx, rx []byte, timeout time.Duration) (int, error)
}

// Port is a transactional transport with lifecycle (I2C, SPI).
type Port interface {
	Interface
	Bidirectional
}

// Stream is a byte-stream transport with lifecycle (UART).
type Stream interface {
	Interface
	ReadWriter
}
