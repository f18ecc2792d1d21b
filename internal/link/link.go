// internal/link/link.go
//
// Package link turns a run configuration into a live transport/client
// pair. Every binary that talks to the payload builds its link here, so
// the transport-to-client pairing rules live in exactly one place.
package link

import (
	"fmt"

	"paylink-go/config"
	"paylink-go/emag"
	"paylink-go/hwif"
)

// Build constructs the configured transport and an emag client riding
// it. UART is a byte stream, so it gets the write/settle/read client;
// the transactional transports use Transfer. Callers own the returned
// interface's lifecycle.
func Build(cfg *config.Config) (hwif.Interface, *emag.Client, error) {
	params := cfg.Params()
	switch cfg.Link.Transport {
	case "i2c":
		port := hwif.NewI2C(cfg.I2C())
		return port, emag.NewClient(port, params), nil
	case "uart":
		ucfg, err := cfg.UART()
		if err != nil {
			return nil, nil, err
		}
		stream := hwif.NewUART(ucfg)
		return stream, emag.NewStreamClient(stream, params), nil
	case "spi":
		port := hwif.NewSPI(cfg.SPI())
		return port, emag.NewClient(port, params), nil
	case "mock":
		sim := emag.NewSim()
		return sim, emag.NewClient(sim, params), nil
	}
	return nil, nil, fmt.Errorf("unknown transport %q", cfg.Link.Transport)
}
