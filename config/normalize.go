// config/normalize.go
package config

import "paylink-go/hwif"

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// ---- LINK ----

	params := hwif.DefaultParams()
	if cfg.Link.TimeoutMs == 0 {
		cfg.Link.TimeoutMs = int(params.Timeout.Milliseconds())
	}
	if cfg.Link.RetryCount == 0 {
		cfg.Link.RetryCount = params.RetryCount
	}
	if cfg.Link.RetryDelayMs == 0 {
		cfg.Link.RetryDelayMs = int(params.RetryDelay.Milliseconds())
	}

	// ---- I2C ----

	i2c := hwif.DefaultI2CConfig()
	if cfg.Link.I2C.Bus == nil {
		cfg.Link.I2C.Bus = &i2c.Bus
	}
	if cfg.Link.I2C.Addr == 0 {
		cfg.Link.I2C.Addr = i2c.Addr
	}
	if cfg.Link.I2C.ClockHz == 0 {
		cfg.Link.I2C.ClockHz = i2c.ClockHz
	}

	// ---- UART ----

	uart := hwif.DefaultUARTConfig()
	if cfg.Link.UART.Device == "" {
		cfg.Link.UART.Device = uart.Device
	}
	if cfg.Link.UART.Baud == 0 {
		cfg.Link.UART.Baud = uart.Baud
	}
	if cfg.Link.UART.DataBits == 0 {
		cfg.Link.UART.DataBits = uart.DataBits
	}
	if cfg.Link.UART.StopBits == 0 {
		cfg.Link.UART.StopBits = uart.StopBits
	}

	// ---- SPI ----

	spi := hwif.DefaultSPIConfig()
	if cfg.Link.SPI.Device == "" {
		cfg.Link.SPI.Device = spi.Device
	}
	if cfg.Link.SPI.SpeedHz == 0 {
		cfg.Link.SPI.SpeedHz = spi.SpeedHz
	}
	if cfg.Link.SPI.BitsPerWord == 0 {
		cfg.Link.SPI.BitsPerWord = spi.BitsPerWord
	}
}
