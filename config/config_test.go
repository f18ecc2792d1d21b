// config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"paylink-go/hwif"
)

const sampleYAML = `
link:
  transport: uart
  timeout_ms: 250
  retry_count: 5
  retry_delay_ms: 20
  i2c:
    bus: 0
    addr: 0x42
    clock_hz: 400000
  uart:
    device: /dev/ttyS1
    baud: 115200
    data_bits: 8
    stop_bits: 2
    parity: even
    flow: none
  spi:
    device: /dev/spidev1.0
    mode: 3
    speed_hz: 500000
    bits_per_word: 8
report:
  json_path: /tmp/suite.json
  mqtt:
    broker: tcp://egse:1883
    topic: paylink/selftest
`

func writeTemp(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "link.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadParsesTheFullSchema(t *testing.T) {
	cfg, err := Load(writeTemp(t, sampleYAML))
	require.NoError(t, err)

	require.Equal(t, "uart", cfg.Link.Transport)
	require.Equal(t, 250, cfg.Link.TimeoutMs)
	require.Equal(t, 5, cfg.Link.RetryCount)
	require.Equal(t, 20, cfg.Link.RetryDelayMs)

	require.NotNil(t, cfg.Link.I2C.Bus)
	require.Equal(t, 0, *cfg.Link.I2C.Bus)
	require.Equal(t, uint16(0x42), cfg.Link.I2C.Addr)
	require.Equal(t, uint32(400_000), cfg.Link.I2C.ClockHz)

	require.Equal(t, "/dev/ttyS1", cfg.Link.UART.Device)
	require.Equal(t, 115200, cfg.Link.UART.Baud)
	require.Equal(t, uint8(2), cfg.Link.UART.StopBits)
	require.Equal(t, "even", cfg.Link.UART.Parity)

	require.Equal(t, uint8(3), cfg.Link.SPI.Mode)
	require.Equal(t, uint32(500_000), cfg.Link.SPI.SpeedHz)

	require.Equal(t, "/tmp/suite.json", cfg.Report.JSONPath)
	require.Equal(t, "tcp://egse:1883", cfg.Report.MQTT.Broker)
	require.Equal(t, "paylink/selftest", cfg.Report.MQTT.Topic)
}

func TestLoadRejectsMissingFileAndBadYAML(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)

	_, err = Load(writeTemp(t, "link: [not, a, mapping"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	busNeg := -1
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{name: "zero value is valid", mutate: func(cfg *Config) {}},
		{name: "mock transport", mutate: func(cfg *Config) { cfg.Link.Transport = "mock" }},
		{
			name:    "unknown transport",
			mutate:  func(cfg *Config) { cfg.Link.Transport = "can" },
			wantErr: `link.transport: unknown transport "can"`,
		},
		{
			name:    "negative timeout",
			mutate:  func(cfg *Config) { cfg.Link.TimeoutMs = -1 },
			wantErr: "link.timeout_ms",
		},
		{
			name:    "negative retry count",
			mutate:  func(cfg *Config) { cfg.Link.RetryCount = -2 },
			wantErr: "link.retry_count",
		},
		{
			name:    "negative retry delay",
			mutate:  func(cfg *Config) { cfg.Link.RetryDelayMs = -5 },
			wantErr: "link.retry_delay_ms",
		},
		{
			name:    "negative i2c bus",
			mutate:  func(cfg *Config) { cfg.Link.I2C.Bus = &busNeg },
			wantErr: "link.i2c.bus",
		},
		{
			name:    "i2c addr beyond ten bits",
			mutate:  func(cfg *Config) { cfg.Link.I2C.Addr = 0x400 },
			wantErr: "link.i2c.addr: 0x400 exceeds the 10-bit address range",
		},
		{
			name:   "i2c addr at the ten bit edge",
			mutate: func(cfg *Config) { cfg.Link.I2C.Addr = 0x3FF },
		},
		{
			name:    "data bits too small",
			mutate:  func(cfg *Config) { cfg.Link.UART.DataBits = 4 },
			wantErr: "link.uart.data_bits",
		},
		{
			name:    "data bits too large",
			mutate:  func(cfg *Config) { cfg.Link.UART.DataBits = 9 },
			wantErr: "link.uart.data_bits",
		},
		{
			name:    "three stop bits",
			mutate:  func(cfg *Config) { cfg.Link.UART.StopBits = 3 },
			wantErr: "link.uart.stop_bits",
		},
		{
			name:    "bad parity",
			mutate:  func(cfg *Config) { cfg.Link.UART.Parity = "mark" },
			wantErr: "link.uart.parity",
		},
		{
			name:    "bad flow",
			mutate:  func(cfg *Config) { cfg.Link.UART.Flow = "xon" },
			wantErr: "link.uart.flow",
		},
		{
			name:    "spi mode out of range",
			mutate:  func(cfg *Config) { cfg.Link.SPI.Mode = 4 },
			wantErr: "link.spi.mode",
		},
		{
			name:    "mqtt topic without broker",
			mutate:  func(cfg *Config) { cfg.Report.MQTT.Topic = "paylink/selftest" },
			wantErr: "report.mqtt.topic",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			tt.mutate(&cfg)
			err := Validate(&cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNormalizeFillsDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, Validate(&cfg))
	Normalize(&cfg)

	require.Equal(t, 1000, cfg.Link.TimeoutMs)
	require.Equal(t, 3, cfg.Link.RetryCount)
	require.Equal(t, 100, cfg.Link.RetryDelayMs)

	require.NotNil(t, cfg.Link.I2C.Bus)
	require.Equal(t, 1, *cfg.Link.I2C.Bus)
	require.Equal(t, uint16(0x50), cfg.Link.I2C.Addr)
	require.Equal(t, uint32(100_000), cfg.Link.I2C.ClockHz)

	require.Equal(t, "/dev/ttyUSB0", cfg.Link.UART.Device)
	require.Equal(t, 9600, cfg.Link.UART.Baud)
	require.Equal(t, uint8(8), cfg.Link.UART.DataBits)
	require.Equal(t, uint8(1), cfg.Link.UART.StopBits)

	require.Equal(t, "/dev/spidev0.0", cfg.Link.SPI.Device)
	require.Equal(t, uint32(1_000_000), cfg.Link.SPI.SpeedHz)
	require.Equal(t, uint8(8), cfg.Link.SPI.BitsPerWord)
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	busZero := 0
	cfg := Config{}
	cfg.Link.TimeoutMs = 50
	cfg.Link.I2C.Bus = &busZero
	cfg.Link.UART.Baud = 115200
	Normalize(&cfg)

	require.Equal(t, 50, cfg.Link.TimeoutMs)
	require.Equal(t, 0, *cfg.Link.I2C.Bus, "an explicit bus 0 must survive")
	require.Equal(t, 115200, cfg.Link.UART.Baud)
}

func TestConversionsMapOntoTransportConfigs(t *testing.T) {
	cfg, err := Load(writeTemp(t, sampleYAML))
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))
	Normalize(cfg)

	p := cfg.Params()
	require.Equal(t, 250*time.Millisecond, p.Timeout)
	require.Equal(t, 5, p.RetryCount)
	require.Equal(t, 20*time.Millisecond, p.RetryDelay)

	i2c := cfg.I2C()
	require.Equal(t, 0, i2c.Bus)
	require.Equal(t, uint16(0x42), i2c.Addr)
	require.Equal(t, p, i2c.Params)

	uart, err := cfg.UART()
	require.NoError(t, err)
	require.Equal(t, "/dev/ttyS1", uart.Device)
	require.Equal(t, hwif.ParityEven, uart.Parity)
	require.Equal(t, hwif.FlowNone, uart.Flow)

	spi := cfg.SPI()
	require.Equal(t, uint8(3), spi.Mode)
	require.Equal(t, uint32(500_000), spi.SpeedHz)
}

func TestUARTConversionRejectsBadParity(t *testing.T) {
	var cfg Config
	cfg.Link.UART.Parity = "space"
	_, err := cfg.UART()
	require.ErrorContains(t, err, "link.uart.parity")
}
