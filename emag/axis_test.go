// emag/axis_test.go
package emag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAxisWireBijection(t *testing.T) {
	want := map[Axis]byte{
		AxisXPlus:  0b00_00,
		AxisYPlus:  0b01_00,
		AxisZPlus:  0b10_00,
		AxisXMinus: 0b00_01,
		AxisYMinus: 0b01_01,
		AxisZMinus: 0b10_01,
	}
	require.Len(t, Axes(), len(want))
	for a, w := range want {
		require.Equal(t, w, a.wire(), "axis %s", a)
		back, err := axisFromWire(w)
		require.NoError(t, err)
		require.Equal(t, a, back)
	}
}

func TestAxisWireRejectsEverythingElse(t *testing.T) {
	valid := map[byte]bool{}
	for _, a := range Axes() {
		valid[a.wire()] = true
	}
	rejected := 0
	for b := 0; b <= 0xFF; b++ {
		if valid[byte(b)] {
			continue
		}
		_, err := axisFromWire(byte(b))
		require.Error(t, err, "byte 0b%08b decoded", b)
		rejected++
	}
	require.Equal(t, 256-len(valid), rejected)
}

func TestAxisChannelAndDirectionBits(t *testing.T) {
	cases := []struct {
		axis    Axis
		channel uint8
		minus   bool
	}{
		{AxisXPlus, 0, false},
		{AxisXMinus, 0, true},
		{AxisYPlus, 1, false},
		{AxisYMinus, 1, true},
		{AxisZPlus, 2, false},
		{AxisZMinus, 2, true},
	}
	for _, tc := range cases {
		require.Equal(t, tc.channel, tc.axis.channel(), "axis %s", tc.axis)
		require.Equal(t, tc.minus, tc.axis.minus(), "axis %s", tc.axis)
	}
}

func TestParseAxisSpellings(t *testing.T) {
	for _, a := range Axes() {
		got, err := ParseAxis(a.String())
		require.NoError(t, err)
		require.Equal(t, a, got)
	}
	// Console input is case-insensitive.
	got, err := ParseAxis("Z+")
	require.NoError(t, err)
	require.Equal(t, AxisZPlus, got)

	_, err = ParseAxis("w+")
	require.Error(t, err)
	_, err = ParseAxis("")
	require.Error(t, err)
}

func TestAxisStringOnInvalidValue(t *testing.T) {
	require.Equal(t, "axis(0b1111)", Axis(0b1111).String())
}
