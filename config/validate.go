// config/validate.go
package config

import (
	"fmt"

	"paylink-go/hwif"
)

const maxTenBitAddr = 0x3FF

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	// ---- LINK ----

	switch cfg.Link.Transport {
	case "", "i2c", "uart", "spi", "mock":
	default:
		return fmt.Errorf("link.transport: unknown transport %q", cfg.Link.Transport)
	}
	if cfg.Link.TimeoutMs < 0 {
		return fmt.Errorf("link.timeout_ms: must not be negative, got %d", cfg.Link.TimeoutMs)
	}
	if cfg.Link.RetryCount < 0 {
		return fmt.Errorf("link.retry_count: must not be negative, got %d", cfg.Link.RetryCount)
	}
	if cfg.Link.RetryDelayMs < 0 {
		return fmt.Errorf("link.retry_delay_ms: must not be negative, got %d", cfg.Link.RetryDelayMs)
	}

	// ---- I2C ----

	if cfg.Link.I2C.Bus != nil && *cfg.Link.I2C.Bus < 0 {
		return fmt.Errorf("link.i2c.bus: must not be negative, got %d", *cfg.Link.I2C.Bus)
	}
	if cfg.Link.I2C.Addr > maxTenBitAddr {
		return fmt.Errorf("link.i2c.addr: 0x%X exceeds the 10-bit address range", cfg.Link.I2C.Addr)
	}

	// ---- UART ----

	if cfg.Link.UART.Baud < 0 {
		return fmt.Errorf("link.uart.baud: must not be negative, got %d", cfg.Link.UART.Baud)
	}
	if db := cfg.Link.UART.DataBits; db != 0 && (db < 5 || db > 8) {
		return fmt.Errorf("link.uart.data_bits: must be 5..8, got %d", db)
	}
	if sb := cfg.Link.UART.StopBits; sb != 0 && sb != 1 && sb != 2 {
		return fmt.Errorf("link.uart.stop_bits: must be 1 or 2, got %d", sb)
	}
	if _, err := hwif.ParseParity(cfg.Link.UART.Parity); err != nil {
		return fmt.Errorf("link.uart.parity: %w", err)
	}
	if _, err := hwif.ParseFlow(cfg.Link.UART.Flow); err != nil {
		return fmt.Errorf("link.uart.flow: %w", err)
	}

	// ---- SPI ----

	if cfg.Link.SPI.Mode > 3 {
		return fmt.Errorf("link.spi.mode: must be 0..3, got %d", cfg.Link.SPI.Mode)
	}

	// ---- REPORT ----

	if cfg.Report.MQTT.Topic != "" && cfg.Report.MQTT.Broker == "" {
		return fmt.Errorf("report.mqtt.topic: set without a broker")
	}

	return nil
}
