// emag/sim.go
package emag

import (
	"context"
	"fmt"
	"sync"
	"time"

	"paylink-go/hwif"
)

// simHallStep is the field reading a coil settles at once actuated.
const simHallStep = 0.5

// Sim emulates the payload firmware behind the hwif.Port contract, so the
// console and the self-test binary run on a desk with no hardware attached.
// It keeps the full transport lifecycle (uninitialized gating, error
// accounting) and answers protocol frames the way the device does:
// actuating a coil moves its hall reading, wiping clears it, and the charge
// target is echoed back. Deterministic by construction; no randomness.
type Sim struct {
	st hwif.State

	mu      sync.Mutex
	telem   SystemStatus
	pending []byte // staged reply for the write-then-read (stream) path
}

var _ hwif.Port = (*Sim)(nil)

func NewSim() *Sim {
	s := &Sim{
		telem: SystemStatus{SysCurrent: 0.120, CapVolt: 4.2},
	}
	s.st.Label = "emag-sim"
	return s
}

// SetTelemetry seeds the readings the next telemetry request reports.
func (s *Sim) SetTelemetry(t SystemStatus) {
	s.mu.Lock()
	s.telem = t
	s.mu.Unlock()
}

// Telemetry returns the current simulated readings.
func (s *Sim) Telemetry() SystemStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.telem
}

// ChargeVolt returns the last commanded charge target.
func (s *Sim) ChargeVolt() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint8(s.telem.CapVolt)
}

func (s *Sim) Initialize(ctx context.Context) error {
	if s.st.Initialized() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return s.st.RecordError(hwif.OpFailed("initialize canceled", err))
	}
	s.st.MarkInitialized()
	return nil
}

func (s *Sim) Deinitialize(ctx context.Context) error {
	if !s.st.Initialized() {
		return nil
	}
	s.st.MarkDeinitialized()
	return nil
}

func (s *Sim) Initialized() bool   { return s.st.Initialized() }
func (s *Sim) Status() hwif.Status { return s.st.Snapshot() }

// Transfer answers one frame. The reply is clocked into rx the way an I2C
// read drains the device's reply register: a long rx pads with 0xFF, a
// short one truncates, so protocol-length mistakes surface as decode
// errors upstream instead of transport failures.
func (s *Sim) Transfer(ctx context.Context, tx, rx []byte, timeout time.Duration) (int, error) {
	if !s.st.Initialized() {
		return 0, s.st.RecordError(hwif.NotInited())
	}
	if err := ctx.Err(); err != nil {
		return 0, s.st.RecordError(hwif.OpFailed("transfer canceled", err))
	}
	reply := s.handle(tx)
	n := copy(rx, reply)
	for i := n; i < len(rx); i++ {
		rx[i] = 0xFF
	}
	return len(rx), nil
}

// Write stages the reply for a following Read, mirroring the half-duplex
// exchange a byte-stream transport performs.
func (s *Sim) Write(ctx context.Context, p []byte) (int, error) {
	if !s.st.Initialized() {
		return 0, s.st.RecordError(hwif.NotInited())
	}
	if err := ctx.Err(); err != nil {
		return 0, s.st.RecordError(hwif.OpFailed("write canceled", err))
	}
	s.mu.Lock()
	s.pending = s.handleLocked(p)
	s.mu.Unlock()
	return len(p), nil
}

func (s *Sim) Read(ctx context.Context, p []byte, timeout time.Duration) (int, error) {
	if !s.st.Initialized() {
		return 0, s.st.RecordError(hwif.NotInited())
	}
	if err := ctx.Err(); err != nil {
		return 0, s.st.RecordError(hwif.OpFailed("read canceled", err))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return 0, s.st.RecordError(hwif.TimeoutErr("no reply staged"))
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func (s *Sim) handle(frame []byte) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handleLocked(frame)
}

// handleLocked runs the firmware command dispatch. Malformed frames get no
// reply bytes; the padding in Transfer turns that into a decode error on
// the client side, which is exactly how the device misbehaves.
func (s *Sim) handleLocked(frame []byte) []byte {
	if len(frame) != 2 {
		return nil
	}
	op, arg := frame[0], frame[1]
	switch op {
	case opTelemetry:
		if arg != 0x00 {
			return nil
		}
		return encodeTelemetry(s.telem)
	case opChargeVolt:
		s.telem.CapVolt = float32(arg)
		return []byte{0x00, arg} // big-endian readback of the target
	case opActuate:
		axis, err := axisFromWire(arg)
		if err != nil {
			return []byte{0x00} // firmware nack
		}
		s.setHall(axis, driveField(axis))
		return []byte{ackOK}
	case opWipe:
		axis, err := axisFromWire(arg)
		if err != nil {
			return []byte{0x00}
		}
		s.setHall(axis, 0)
		return []byte{ackOK}
	}
	return nil
}

func driveField(a Axis) float32 {
	if a.minus() {
		return -simHallStep
	}
	return simHallStep
}

// setHall moves the hall reading of the actuated channel. Callers hold
// s.mu.
func (s *Sim) setHall(a Axis, v float32) {
	switch a.channel() {
	case 0:
		s.telem.XHall = v
	case 1:
		s.telem.YHall = v
	case 2:
		s.telem.ZHall = v
	}
}

func (s *Sim) String() string {
	return fmt.Sprintf("emag-sim(%s)", s.Telemetry())
}
