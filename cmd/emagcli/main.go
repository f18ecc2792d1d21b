// cmd/emagcli/main.go
//
// emagcli is an interactive console for the emag payload. It speaks the
// full command set over a configured transport and is mostly used on a
// desk against the simulator (-mock) or a breadboard link.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	ishell "github.com/abiosoft/ishell/v2"
	"github.com/golang/glog"

	"paylink-go/config"
	"paylink-go/emag"
	"paylink-go/hwif"
	"paylink-go/internal/link"
)

var (
	configPath = flag.String("config", "", "YAML run configuration; empty uses built-in defaults")
	transport  = flag.String("transport", "", "override the configured transport (i2c|uart|spi|mock)")
	mock       = flag.Bool("mock", false, "shorthand for -transport mock")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "emagcli: %v\n", err)
		os.Exit(1)
	}
	iface, client, err := link.Build(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "emagcli: %v\n", err)
		os.Exit(1)
	}

	con := &console{iface: iface, client: client}

	sh := ishell.New()
	sh.Println("emag console; 'help' lists commands")
	sh.SetPrompt(cfg.Link.Transport + "> ")
	for _, cmd := range con.commands() {
		sh.AddCmd(cmd)
	}
	sh.Run()

	iface.Deinitialize(context.Background())
}

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
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	config.Normalize(cfg)
	if cfg.Link.Transport == "" {
		return nil, fmt.Errorf("no transport selected: set link.transport or pass -transport/-mock")
	}
	return cfg, nil
}

// console holds the shared link state behind the shell commands.
type console struct {
	iface  hwif.Interface
	client *emag.Client
	json   bool
}

// show prints v as JSON when json mode is on, else falls back to text.
func (con *console) show(c *ishell.Context, v any, text string) {
	if con.json {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(text)
}

func (con *console) commands() []*ishell.Cmd {
	ctx := context.Background()
	return []*ishell.Cmd{
		{
			Name: "init",
			Help: "initialize the link",
			Func: func(c *ishell.Context) {
				if err := con.iface.Initialize(ctx); err != nil {
					c.Err(err)
					return
				}
				c.Println("OK")
			},
		},
		{
			Name: "deinit",
			Help: "deinitialize the link",
			Func: func(c *ishell.Context) {
				if err := con.iface.Deinitialize(ctx); err != nil {
					c.Err(err)
					return
				}
				c.Println("OK")
			},
		},
		{
			Name: "status",
			Help: "interface status (errors, warnings, uptime)",
			Func: func(c *ishell.Context) {
				st := con.iface.Status()
				text := fmt.Sprintf("initialized=%v errors=%d warnings=%d uptime=%s",
					st.Initialized, st.ErrorCount, st.WarningCount, st.Uptime)
				if st.LastError != "" {
					text += fmt.Sprintf(" last_error=%q", st.LastError)
				}
				con.show(c, st, text)
			},
		},
		{
			Name: "telemetry",
			Help: "read system telemetry",
			Func: func(c *ishell.Context) {
				status, err := con.client.GetSystemStatus(ctx)
				if err != nil {
					c.Err(err)
					return
				}
				con.show(c, status, status.String())
			},
		},
		{
			Name: "charge",
			Help: "VOLT (0..255) set the capacitor charge target",
			Func: func(c *ishell.Context) {
				if len(c.Args) < 1 {
					c.Err(fmt.Errorf("VOLT required"))
					return
				}
				volt, err := strconv.ParseUint(c.Args[0], 10, 8)
				if err != nil {
					c.Err(fmt.Errorf("VOLT must be 0..255: %v", err))
					return
				}
				readback, err := con.client.SetChargeVolt(ctx, uint8(volt))
				if err != nil {
					c.Err(err)
					return
				}
				con.show(c, map[string]uint16{"readback": readback},
					fmt.Sprintf("OK readback=%d", readback))
			},
		},
		{
			Name: "actuate",
			Help: "AXIS (x+|x-|y+|y-|z+|z-) fire one actuation pulse",
			Func: con.axisCmd(func(ctx context.Context, axis emag.Axis) error {
				return con.client.Actuate(ctx, axis)
			}),
		},
		{
			Name: "wipe",
			Help: "AXIS (x+|x-|y+|y-|z+|z-) run the wipe sequence",
			Func: con.axisCmd(func(ctx context.Context, axis emag.Axis) error {
				return con.client.Wipe(ctx, axis)
			}),
		},
		{
			Name: "last",
			Help: "last raw command frame and last error",
			Func: func(c *ishell.Context) {
				frame := con.client.LastCommand()
				lastErr := con.client.LastError()
				if con.json {
					con.show(c, map[string]string{
						"command": fmt.Sprintf("% x", frame),
						"error":   lastErr,
					}, "")
					return
				}
				if len(frame) == 0 {
					c.Println("command: none")
				} else {
					c.Printf("command: % x\n", frame)
				}
				if lastErr == "" {
					c.Println("error: none")
				} else {
					c.Printf("error: %s\n", lastErr)
				}
			},
		},
		{
			Name: "json",
			Help: "on|off toggle JSON output",
			Func: func(c *ishell.Context) {
				if len(c.Args) < 1 || (c.Args[0] != "on" && c.Args[0] != "off") {
					c.Err(fmt.Errorf("usage: json on|off"))
					return
				}
				con.json = c.Args[0] == "on"
				c.Printf("json output %s\n", c.Args[0])
			},
		},
	}
}

// axisCmd wraps a single-axis client call with argument parsing.
func (con *console) axisCmd(call func(ctx context.Context, axis emag.Axis) error) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if len(c.Args) < 1 {
			c.Err(fmt.Errorf("AXIS required"))
			return
		}
		axis, err := emag.ParseAxis(c.Args[0])
		if err != nil {
			c.Err(err)
			return
		}
		if err := call(context.Background(), axis); err != nil {
			c.Err(err)
			return
		}
		c.Println("OK")
	}
}
