// cmd/linktest/main.go
//
// linktest exercises a configured payload link end to end: lifecycle
// checks first, then the emag command set. Results go to stdout as a
// table, optionally to a JSON report file and an MQTT broker per the
// run configuration. Exit status 0 means every suite came back clean.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"paylink-go/config"
	"paylink-go/emag"
	"paylink-go/harness"
	"paylink-go/hwif"
	"paylink-go/internal/link"
)

var (
	configPath = flag.String("config", "", "YAML run configuration; empty uses built-in defaults")
	transport  = flag.String("transport", "", "override the configured transport (i2c|uart|spi|mock)")
	mock       = flag.Bool("mock", false, "shorthand for -transport mock")
	jsonPath   = flag.String("json", "", "override the configured JSON report path")
	safe       = flag.Bool("safe", false, "skip cases that energize the coils")
)

func main() {
	flag.Parse()
	defer glog.Flush()
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "linktest: %v\n", err)
		glog.Flush()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	iface, client, err := link.Build(cfg)
	if err != nil {
		return err
	}
	defer iface.Deinitialize(ctx)

	runner := harness.NewRunner(iface, cfg.Params())

	suites := []harness.SuiteResult{
		runner.RunSuite(ctx, "lifecycle", lifecycleCases()),
		runner.RunSuite(ctx, "emag", emagCases(client, *safe)),
	}

	var jsonOut *os.File
	if path := cfg.Report.JSONPath; path != "" {
		jsonOut, err = os.Create(path)
		if err != nil {
			return fmt.Errorf("json report: %w", err)
		}
		defer jsonOut.Close()
	}

	ok := true
	for _, s := range suites {
		harness.WriteText(os.Stdout, s)
		if !s.Ok() {
			ok = false
		}
		if jsonOut != nil {
			if err := harness.WriteJSON(jsonOut, s); err != nil {
				return fmt.Errorf("json report: %w", err)
			}
		}
		if broker := cfg.Report.MQTT.Broker; broker != "" {
			if err := harness.PublishMQTT(ctx, broker, cfg.Report.MQTT.Topic, s); err != nil {
				// A dead broker must not mask the link verdict.
				glog.Errorf("linktest: %v", err)
			}
		}
	}
	if !ok {
		return fmt.Errorf("link checks failed")
	}
	return nil
}

// loadConfig merges the YAML file with the command-line overrides, then
// validates and normalizes the result.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			return nil, err
		}
	}
	if *transport != "" {
		cfg.Link.Transport = *transport
	}
	if *mock {
		cfg.Link.Transport = "mock"
	}
	if *jsonPath != "" {
		cfg.Report.JSONPath = *jsonPath
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	config.Normalize(cfg)
	if cfg.Link.Transport == "" {
		return nil, fmt.Errorf("no transport selected: set link.transport or pass -transport/-mock")
	}
	return cfg, nil
}

// lifecycleCases checks the interface contract: bring the link up, read
// its status, take it down, and confirm both directions stay idempotent.
// The suite ends with the link deinitialized.
func lifecycleCases() []harness.Case {
	return []harness.Case{
		{Name: "initialize", Run: func(ctx context.Context, iface hwif.Interface) error {
			return iface.Initialize(ctx)
		}},
		{Name: "initialize twice is a no-op", Run: func(ctx context.Context, iface hwif.Interface) error {
			return iface.Initialize(ctx)
		}},
		{Name: "status readable while up", Run: func(ctx context.Context, iface hwif.Interface) error {
			st := iface.Status()
			if !st.Initialized {
				return hwif.OpFailed("status says deinitialized right after initialize", nil)
			}
			return nil
		}},
		{Name: "deinitialize", Run: func(ctx context.Context, iface hwif.Interface) error {
			return iface.Deinitialize(ctx)
		}},
		{Name: "deinitialize twice is a no-op", Run: func(ctx context.Context, iface hwif.Interface) error {
			return iface.Deinitialize(ctx)
		}},
	}
}

// emagCases drives the command set through the client. Actuation cases
// energize real coils, so -safe downgrades them to skips.
func emagCases(client *emag.Client, safe bool) []harness.Case {
	var skipActuation string
	if safe {
		skipActuation = "actuation disabled by -safe"
	}
	return []harness.Case{
		{Name: "initialize link", Run: func(ctx context.Context, iface hwif.Interface) error {
			return iface.Initialize(ctx)
		}},
		{Name: "telemetry readback", Run: func(ctx context.Context, iface hwif.Interface) error {
			status, err := client.GetSystemStatus(ctx)
			if err != nil {
				return err
			}
			glog.Infof("linktest: telemetry %s", status)
			return nil
		}},
		{Name: "charge to 32 V", Run: func(ctx context.Context, iface hwif.Interface) error {
			readback, err := client.SetChargeVolt(ctx, 32)
			if err != nil {
				return err
			}
			glog.Infof("linktest: charge readback %d", readback)
			return nil
		}},
		{Name: "actuate z+", Skip: skipActuation, Run: func(ctx context.Context, iface hwif.Interface) error {
			return client.Actuate(ctx, emag.AxisZPlus)
		}},
		{Name: "wipe z+", Skip: skipActuation, Run: func(ctx context.Context, iface hwif.Interface) error {
			return client.Wipe(ctx, emag.AxisZPlus)
		}},
		{Name: "deinitialize link", Run: func(ctx context.Context, iface hwif.Interface) error {
			return iface.Deinitialize(ctx)
		}},
	}
}
