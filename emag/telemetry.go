// emag/telemetry.go
package emag

import (
	"encoding/binary"
	"fmt"
	"math"

	"paylink-go/hwif"
)

// SystemStatus is one telemetry snapshot from the payload: coil supply
// current, the three hall-sensor field readings and the capacitor bank
// voltage.
type SystemStatus struct {
	SysCurrent float32 `json:"sys_current"`
	XHall      float32 `json:"x_hall"`
	YHall      float32 `json:"y_hall"`
	ZHall      float32 `json:"z_hall"`
	CapVolt    float32 `json:"cap_volt"`
}

func (s SystemStatus) String() string {
	return fmt.Sprintf("sys=%.3fA hall=(%.3f %.3f %.3f) cap=%.2fV",
		s.SysCurrent, s.XHall, s.YHall, s.ZHall, s.CapVolt)
}

// decodeTelemetry unpacks the 20-byte reply: five little-endian words,
// each reinterpreted bit-for-bit as an IEEE-754 float. Values never pass
// through a numeric conversion.
func decodeTelemetry(b []byte) (SystemStatus, error) {
	if len(b) != telemetryReplyLen {
		return SystemStatus{}, hwif.InvalidParam(fmt.Sprintf("telemetry reply is %d bytes, want %d", len(b), telemetryReplyLen))
	}
	word := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
	}
	return SystemStatus{
		SysCurrent: word(0),
		XHall:      word(4),
		YHall:      word(8),
		ZHall:      word(12),
		CapVolt:    word(16),
	}, nil
}

// encodeTelemetry is the device-side inverse, used by the simulator.
func encodeTelemetry(s SystemStatus) []byte {
	b := make([]byte, telemetryReplyLen)
	for i, v := range [5]float32{s.SysCurrent, s.XHall, s.YHall, s.ZHall, s.CapVolt} {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}
