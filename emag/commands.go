// emag/commands.go
package emag

import (
	"encoding/binary"
	"fmt"
	"time"

	"paylink-go/hwif"
)

// ------------------------
// Wire protocol
// ------------------------
//
// Every command is one frame: opcode byte followed by a fixed payload.
// Every reply has a fixed length per opcode. Single-byte replies are an
// acknowledgement that must be exactly ackOK.

const (
	opTelemetry  byte = 0x01 // payload 0x00        reply 20 bytes
	opChargeVolt byte = 0x02 // payload volt (u8)   reply u16 big endian
	opActuate    byte = 0x03 // payload axis byte   reply ack
	opWipe       byte = 0x04 // payload axis byte   reply ack

	ackOK byte = 0x01

	telemetryReplyLen = 20
	chargeReplyLen    = 2
	ackReplyLen       = 1
)

// Payload firmware needs recovery time between frames, and a transfer that
// stalls longer than the bus worst case is dead. Byte-stream transports get
// a short settle between the outbound frame and the reply read so the
// firmware can stage its reply buffer.
const (
	interCommandDelay = 60 * time.Millisecond
	transferTimeout   = 50 * time.Millisecond
	streamSettle      = 10 * time.Millisecond
)

func telemetryFrame() []byte { return []byte{opTelemetry, 0x00} }

func chargeFrame(volt uint8) []byte { return []byte{opChargeVolt, volt} }

func axisFrame(op byte, a Axis) []byte { return []byte{op, a.wire()} }

// decodeAck accepts exactly one ackOK byte; anything else is a protocol
// violation surfaced to the caller, never coerced to success.
func decodeAck(b []byte) error {
	if len(b) != ackReplyLen {
		return hwif.InvalidParam(fmt.Sprintf("ack reply is %d bytes, want %d", len(b), ackReplyLen))
	}
	if b[0] != ackOK {
		return hwif.InvalidParam(fmt.Sprintf("unexpected ack byte 0x%02x", b[0]))
	}
	return nil
}

// decodeReadback unpacks the charge-voltage readback (big endian).
func decodeReadback(b []byte) (uint16, error) {
	if len(b) != chargeReplyLen {
		return 0, hwif.InvalidParam(fmt.Sprintf("readback reply is %d bytes, want %d", len(b), chargeReplyLen))
	}
	return binary.BigEndian.Uint16(b), nil
}
