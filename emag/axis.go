// emag/axis.go
package emag

import (
	"fmt"
	"strings"
)

// Axis selects one electromagnet coil and drive direction. The wire
// encoding packs the channel into bits 3..2 (X=0b00, Y=0b01, Z=0b10) and
// the direction into bits 1..0 (plus=0b00, minus=0b01); the constant
// values ARE the wire bytes, so the mapping stays bijective by
// construction.
type Axis uint8

const (
	AxisXPlus  Axis = 0b00_00
	AxisYPlus  Axis = 0b01_00
	AxisZPlus  Axis = 0b10_00
	AxisXMinus Axis = 0b00_01
	AxisYMinus Axis = 0b01_01
	AxisZMinus Axis = 0b10_01
)

var axisNames = map[Axis]string{
	AxisXPlus:  "x+",
	AxisYPlus:  "y+",
	AxisZPlus:  "z+",
	AxisXMinus: "x-",
	AxisYMinus: "y-",
	AxisZMinus: "z-",
}

func (a Axis) valid() bool {
	_, ok := axisNames[a]
	return ok
}

func (a Axis) String() string {
	if s, ok := axisNames[a]; ok {
		return s
	}
	return fmt.Sprintf("axis(0b%04b)", uint8(a))
}

func (a Axis) wire() byte { return byte(a) }

// channel extracts the coil index from bits 3..2 (X=0, Y=1, Z=2).
func (a Axis) channel() uint8 { return uint8(a) >> 2 }

// minus reports whether the direction bits select the negative drive.
func (a Axis) minus() bool { return uint8(a)&0b11 == 0b01 }

// axisFromWire rejects every byte outside the six valid patterns.
func axisFromWire(b byte) (Axis, error) {
	a := Axis(b)
	if !a.valid() {
		return 0, fmt.Errorf("invalid axis byte 0b%08b", b)
	}
	return a, nil
}

// ParseAxis accepts the console spelling: "x+", "Y-", "z+", ...
func ParseAxis(s string) (Axis, error) {
	for a, name := range axisNames {
		if strings.EqualFold(s, name) {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown axis %q (want one of x+ x- y+ y- z+ z-)", s)
}

// Axes lists all six in a stable order, for consoles and test sweeps.
func Axes() []Axis {
	return []Axis{AxisXPlus, AxisXMinus, AxisYPlus, AxisYMinus, AxisZPlus, AxisZMinus}
}
