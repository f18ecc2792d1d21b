// hwif/serial.go
package hwif

import "fmt"

// ------------------------
// Serial line discipline
// ------------------------

type Parity uint8

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

func (p Parity) String() string {
	switch p {
	case ParityEven:
		return "even"
	case ParityOdd:
		return "odd"
	default:
		return "none"
	}
}

func (p Parity) MarshalJSON() ([]byte, error) { return []byte(`"` + p.String() + `"`), nil }

func ParseParity(s string) (Parity, error) {
	switch s {
	case "", "none":
		return ParityNone, nil
	case "even":
		return ParityEven, nil
	case "odd":
		return ParityOdd, nil
	}
	return ParityNone, fmt.Errorf("unknown parity %q", s)
}

type Flow uint8

const (
	FlowNone Flow = iota
	FlowHardware
	FlowSoftware
)

func (f Flow) String() string {
	switch f {
	case FlowHardware:
		return "hardware"
	case FlowSoftware:
		return "software"
	default:
		return "none"
	}
}

func (f Flow) MarshalJSON() ([]byte, error) { return []byte(`"` + f.String() + `"`), nil }

func ParseFlow(s string) (Flow, error) {
	switch s {
	case "", "none":
		return FlowNone, nil
	case "hardware":
		return FlowHardware, nil
	case "software":
		return FlowSoftware, nil
	}
	return FlowNone, fmt.Errorf("unknown flow control %q", s)
}
