// emag/client.go
//
// Package emag drives the electromagnet payload: telemetry readout,
// charge-voltage target, coil actuation and wipe. The wire protocol is
// opcode-framed (commands.go); this file is the client that moves frames
// over a hwif transport with the pacing, retry and timeout policy the
// payload firmware requires.
package emag

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang/glog"

	"paylink-go/hwif"
)

// roundTrip moves one frame to the device and returns the fixed-length
// reply. Chosen at construction: Transfer for transactional ports,
// write/settle/read for byte streams.
type roundTrip func(ctx context.Context, tx []byte, rxLen int) ([]byte, error)

// Client serializes commands to one payload. Every command waits the
// inter-command gap first (firmware settle time), then runs the transfer
// under the configured retry policy with the whole exchange bounded by
// Params.Timeout. Decode failures are usage errors and stop the retry loop
// immediately; bus-level failures are retried.
type Client struct {
	params hwif.Params

	mu    sync.Mutex // serializes commands
	pacer *hwif.Pacer
	trip  roundTrip

	lastMu  sync.Mutex // guards the debug accounting below
	lastCmd []byte
	lastErr string
}

// NewClient drives the payload over a transactional transport (I2C, SPI).
func NewClient(port hwif.Port, params hwif.Params) *Client {
	c := newClient(params)
	c.trip = func(ctx context.Context, tx []byte, rxLen int) ([]byte, error) {
		rx := make([]byte, rxLen)
		if _, err := port.Transfer(ctx, tx, rx, transferTimeout); err != nil {
			return nil, err
		}
		return rx, nil
	}
	return c
}

// NewStreamClient drives the payload over a byte stream (UART). The frame
// is written in full, the firmware gets streamSettle to stage its reply,
// then exactly the expected reply length is read back.
func NewStreamClient(s hwif.Stream, params hwif.Params) *Client {
	c := newClient(params)
	c.trip = func(ctx context.Context, tx []byte, rxLen int) ([]byte, error) {
		return hwif.Exchange(ctx, s, tx, rxLen, streamSettle, transferTimeout)
	}
	return c
}

func newClient(params hwif.Params) *Client {
	return &Client{
		params: params.OrDefaults(),
		pacer:  hwif.NewPacer(interCommandDelay),
	}
}

// GetSystemStatus reads one telemetry snapshot.
func (c *Client) GetSystemStatus(ctx context.Context) (SystemStatus, error) {
	var out SystemStatus
	err := c.command(ctx, "telemetry", telemetryFrame(), telemetryReplyLen, func(b []byte) error {
		var derr error
		out, derr = decodeTelemetry(b)
		return derr
	})
	return out, err
}

// SetChargeVolt commands the capacitor charge target and returns the
// device's readback of the configured level.
func (c *Client) SetChargeVolt(ctx context.Context, volt uint8) (uint16, error) {
	var out uint16
	err := c.command(ctx, "charge volt", chargeFrame(volt), chargeReplyLen, func(b []byte) error {
		var derr error
		out, derr = decodeReadback(b)
		return derr
	})
	return out, err
}

// Actuate fires one coil in one direction.
func (c *Client) Actuate(ctx context.Context, axis Axis) error {
	if !axis.valid() {
		return c.fail("actuate", hwif.InvalidParam(fmt.Sprintf("axis 0b%04b outside the coil set", uint8(axis))))
	}
	return c.command(ctx, "actuate "+axis.String(), axisFrame(opActuate, axis), ackReplyLen, decodeAck)
}

// Wipe degausses one coil.
func (c *Client) Wipe(ctx context.Context, axis Axis) error {
	if !axis.valid() {
		return c.fail("wipe", hwif.InvalidParam(fmt.Sprintf("axis 0b%04b outside the coil set", uint8(axis))))
	}
	return c.command(ctx, "wipe "+axis.String(), axisFrame(opWipe, axis), ackReplyLen, decodeAck)
}

// LastCommand returns a copy of the most recent frame handed to the
// transport, for ground-side debugging. Nil before the first command.
func (c *Client) LastCommand() []byte {
	c.lastMu.Lock()
	defer c.lastMu.Unlock()
	if c.lastCmd == nil {
		return nil
	}
	return append([]byte(nil), c.lastCmd...)
}

// LastError returns the text of the most recent command failure, empty
// while the client has only seen successes.
func (c *Client) LastError() string {
	c.lastMu.Lock()
	defer c.lastMu.Unlock()
	return c.lastErr
}

// command runs one paced, retried, deadline-bounded exchange and hands the
// reply to decode inside the retry loop, so a transient bus error gets a
// fresh transfer while a malformed reply fails fast.
func (c *Client) command(ctx context.Context, op string, frame []byte, rxLen int, decode func([]byte) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastMu.Lock()
	c.lastCmd = append(c.lastCmd[:0], frame...)
	c.lastMu.Unlock()

	if err := c.pacer.Wait(ctx); err != nil {
		return c.fail(op, err)
	}
	err := hwif.WithTimeout(ctx, c.params.Timeout, func(ctx context.Context) error {
		return hwif.Retry(ctx, c.params.RetryCount, c.params.RetryDelay, func(ctx context.Context) error {
			reply, terr := c.trip(ctx, frame, rxLen)
			if terr != nil {
				return terr
			}
			return decode(reply)
		})
	})
	if err != nil {
		return c.fail(op, err)
	}
	glog.V(2).Infof("emag: %s ok", op)
	return nil
}

func (c *Client) fail(op string, err error) error {
	c.lastMu.Lock()
	c.lastErr = err.Error()
	c.lastMu.Unlock()
	glog.Warningf("emag: %s: %v", op, err)
	return err
}
