// hwif/config.go
package hwif

import "time"

// ------------------------
// Transport configuration
// ------------------------

// Params are the resilience knobs shared by every transport and client.
type Params struct {
	Timeout    time.Duration `json:"timeout"`
	RetryCount int           `json:"retry_count"`
	RetryDelay time.Duration `json:"retry_delay"`
}

func DefaultParams() Params {
	return Params{
		Timeout:    time.Second,
		RetryCount: 3,
		RetryDelay: 100 * time.Millisecond,
	}
}

// OrDefaults fills zero fields from DefaultParams.
func (p Params) OrDefaults() Params {
	d := DefaultParams()
	if p.Timeout <= 0 {
		p.Timeout = d.Timeout
	}
	if p.RetryCount <= 0 {
		p.RetryCount = d.RetryCount
	}
	if p.RetryDelay <= 0 {
		p.RetryDelay = d.RetryDelay
	}
	return p
}

// I2CConfig selects an i2c-dev bus and peripheral. ClockHz is descriptive:
// on Linux the bus clock is fixed by the platform, not per open.
type I2CConfig struct {
	Bus     int    `json:"bus"`
	Addr    uint16 `json:"addr"`
	ClockHz uint32 `json:"clock_hz"`
	Params  Params `json:"params"`
}

func DefaultI2CConfig() I2CConfig {
	return I2CConfig{Bus: 1, Addr: 0x50, ClockHz: 100_000, Params: DefaultParams()}
}

type UARTConfig struct {
	Device   string `json:"device"`
	Baud     int    `json:"baud"`
	DataBits uint8  `json:"data_bits"`
	StopBits uint8  `json:"stop_bits"`
	Parity   Parity `json:"parity"`
	Flow     Flow   `json:"flow"`
	Params   Params `json:"params"`
}

func DefaultUARTConfig() UARTConfig {
	return UARTConfig{
		Device:   "/dev/ttyUSB0",
		Baud:     9600,
		DataBits: 8,
		StopBits: 1,
		Parity:   ParityNone,
		Flow:     FlowNone,
		Params:   DefaultParams(),
	}
}

type SPIConfig struct {
	Device      string `json:"device"`
	Mode        uint8  `json:"mode"` // 0..3
	SpeedHz     uint32 `json:"speed_hz"`
	BitsPerWord uint8  `json:"bits_per_word"`
	Params      Params `json:"params"`
}

func DefaultSPIConfig() SPIConfig {
	return SPIConfig{
		Device:      "/dev/spidev0.0",
		Mode:        0,
		SpeedHz:     1_000_000,
		BitsPerWord: 8,
		Params:      DefaultParams(),
	}
}
