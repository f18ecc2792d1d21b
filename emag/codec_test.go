// emag/codec_test.go
package emag

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"paylink-go/hwif"
)

func TestFrameLayouts(t *testing.T) {
	require.Equal(t, []byte{0x01, 0x00}, telemetryFrame())
	require.Equal(t, []byte{0x02, 0x7F}, chargeFrame(0x7F))
	require.Equal(t, []byte{0x03, 0b10_00}, axisFrame(opActuate, AxisZPlus))
	require.Equal(t, []byte{0x04, 0b00_01}, axisFrame(opWipe, AxisXMinus))
}

func TestDecodeTelemetryBitPatterns(t *testing.T) {
	// Five little-endian IEEE-754 words: 1.0, -2.5, the smallest
	// subnormal, +Inf, and zero. Reconstruction is bit-for-bit, so even
	// the values a numeric parse would mangle must survive.
	reply := []byte{
		0x00, 0x00, 0x80, 0x3F, // 1.0
		0x00, 0x00, 0x20, 0xC0, // -2.5
		0x01, 0x00, 0x00, 0x00, // subnormal 1.4e-45
		0x00, 0x00, 0x80, 0x7F, // +Inf
		0x00, 0x00, 0x00, 0x00, // 0.0
	}
	got, err := decodeTelemetry(reply)
	require.NoError(t, err)
	require.Equal(t, float32(1.0), got.SysCurrent)
	require.Equal(t, float32(-2.5), got.XHall)
	require.Equal(t, math.Float32frombits(1), got.YHall)
	require.True(t, math.IsInf(float64(got.ZHall), 1))
	require.Equal(t, float32(0), got.CapVolt)
}

func TestDecodeTelemetryRejectsWrongLength(t *testing.T) {
	for _, n := range []int{0, 1, 19, 21, 40} {
		_, err := decodeTelemetry(make([]byte, n))
		require.Error(t, err, "length %d accepted", n)
		require.Equal(t, hwif.KindInvalidParameter, hwif.KindOf(err))
	}
}

func TestTelemetryEncodeDecodeRoundTrip(t *testing.T) {
	want := SystemStatus{
		SysCurrent: 0.125,
		XHall:      -0.5,
		YHall:      42.625,
		ZHall:      float32(math.Inf(-1)),
		CapVolt:    5.0,
	}
	got, err := decodeTelemetry(encodeTelemetry(want))
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestDecodeAckSentinel(t *testing.T) {
	require.NoError(t, decodeAck([]byte{0x01}))

	for name, reply := range map[string][]byte{
		"zero byte":    {0x00},
		"wrong value":  {0x02},
		"inverted":     {0xFE},
		"empty":        {},
		"two bytes":    {0x01, 0x01},
		"padded 0xff":  {0xFF},
		"ack then pad": {0x01, 0xFF, 0xFF},
	} {
		err := decodeAck(reply)
		require.Error(t, err, "%s accepted", name)
		require.Equal(t, hwif.KindInvalidParameter, hwif.KindOf(err))
	}
}

func TestDecodeReadbackBigEndian(t *testing.T) {
	v, err := decodeReadback([]byte{0x01, 0x02})
	require.NoError(t, err)
	require.Equal(t, uint16(0x0102), v)

	v, err = decodeReadback([]byte{0x00, 0x7F})
	require.NoError(t, err)
	require.Equal(t, uint16(0x7F), v)

	_, err = decodeReadback([]byte{0x7F})
	require.Equal(t, hwif.KindInvalidParameter, hwif.KindOf(err))
	_, err = decodeReadback([]byte{0x00, 0x7F, 0x00})
	require.Equal(t, hwif.KindInvalidParameter, hwif.KindOf(err))
}
