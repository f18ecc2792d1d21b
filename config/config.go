// config/config.go
//
// Package config loads the YAML run configuration for the payload link
// tools. Load only parses; Validate checks the result without mutating
// it; Normalize fills defaults and must run after Validate. The mains
// call all three in that order.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"paylink-go/hwif"
)

type Config struct {
	Link   LinkConfig   `yaml:"link"`
	Report ReportConfig `yaml:"report"`
}

// ---- LINK ----

// LinkConfig selects the transport and the shared resilience knobs.
// Durations are milliseconds in the file; zero means "use the default".
type LinkConfig struct {
	Transport    string `yaml:"transport"` // i2c | uart | spi | mock
	TimeoutMs    int    `yaml:"timeout_ms"`
	RetryCount   int    `yaml:"retry_count"`
	RetryDelayMs int    `yaml:"retry_delay_ms"`

	I2C  I2CConfig  `yaml:"i2c"`
	UART UARTConfig `yaml:"uart"`
	SPI  SPIConfig  `yaml:"spi"`
}

// ---- I2C ----

// Bus is a pointer because bus 0 is a real device node; nil means
// "not set, use the default".
type I2CConfig struct {
	Bus     *int   `yaml:"bus"`
	Addr    uint16 `yaml:"addr"`
	ClockHz uint32 `yaml:"clock_hz"`
}

// ---- UART ----

type UARTConfig struct {
	Device   string `yaml:"device"`
	Baud     int    `yaml:"baud"`
	DataBits uint8  `yaml:"data_bits"`
	StopBits uint8  `yaml:"stop_bits"`
	Parity   string `yaml:"parity"` // none | even | odd
	Flow     string `yaml:"flow"`   // none | hardware | software
}

// ---- SPI ----

type SPIConfig struct {
	Device      string `yaml:"device"`
	Mode        uint8  `yaml:"mode"` // 0..3
	SpeedHz     uint32 `yaml:"speed_hz"`
	BitsPerWord uint8  `yaml:"bits_per_word"`
}

// ---- REPORT ----

type ReportConfig struct {
	JSONPath string     `yaml:"json_path"`
	MQTT     MQTTConfig `yaml:"mqtt"`
}

type MQTTConfig struct {
	Broker string `yaml:"broker"` // e.g. tcp://egse:1883; empty disables
	Topic  string `yaml:"topic"`
}

// Load reads and unmarshals path. It does not validate or normalize.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// ---- CONVERSIONS ----

// Params maps the link section onto the transport resilience knobs.
// Call after Normalize; zero fields pass through as zero.
func (c *Config) Params() hwif.Params {
	return hwif.Params{
		Timeout:    msToDuration(c.Link.TimeoutMs),
		RetryCount: c.Link.RetryCount,
		RetryDelay: msToDuration(c.Link.RetryDelayMs),
	}
}

func (c *Config) I2C() hwif.I2CConfig {
	out := hwif.I2CConfig{
		Addr:    c.Link.I2C.Addr,
		ClockHz: c.Link.I2C.ClockHz,
		Params:  c.Params(),
	}
	if c.Link.I2C.Bus != nil {
		out.Bus = *c.Link.I2C.Bus
	}
	return out
}

// UART errors only on parity/flow strings Validate would have rejected.
func (c *Config) UART() (hwif.UARTConfig, error) {
	parity, err := hwif.ParseParity(c.Link.UART.Parity)
	if err != nil {
		return hwif.UARTConfig{}, fmt.Errorf("link.uart.parity: %w", err)
	}
	flow, err := hwif.ParseFlow(c.Link.UART.Flow)
	if err != nil {
		return hwif.UARTConfig{}, fmt.Errorf("link.uart.flow: %w", err)
	}
	return hwif.UARTConfig{
		Device:   c.Link.UART.Device,
		Baud:     c.Link.UART.Baud,
		DataBits: c.Link.UART.DataBits,
		StopBits: c.Link.UART.StopBits,
		Parity:   parity,
		Flow:     flow,
		Params:   c.Params(),
	}, nil
}

func (c *Config) SPI() hwif.SPIConfig {
	return hwif.SPIConfig{
		Device:      c.Link.SPI.Device,
		Mode:        c.Link.SPI.Mode,
		SpeedHz:     c.Link.SPI.SpeedHz,
		BitsPerWord: c.Link.SPI.BitsPerWord,
		Params:      c.Params(),
	}
}

func msToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
