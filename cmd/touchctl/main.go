// command touchctl inspects, configures and records FT6206 touch
// controllers.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"
)

// Version is set by the Go linker with -ldflags='-X main.Version=...'.
var Version string

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "touchctl: %v\n", err)
		os.Exit(2)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newApp().RunContext(ctx, os.Args)
}

func newApp() *cli.App {
	ver := Version
	if ver == "" {
		ver = "dev"
	}
	return &cli.App{
		Name:    "touchctl",
		Usage:   "inspect, configure and record FT6206 touch controllers",
		Version: ver,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "load panel configuration from `FILE`",
			},
			&cli.StringFlag{Name: "driver", Usage: "bus driver, periph or i2cdev"},
			&cli.StringFlag{Name: "bus", Usage: "I2C bus `NAME`, or i2c-dev device path"},
			&cli.StringFlag{Name: "speed", Usage: "I2C bus clock, such as 400kHz"},
			&cli.IntFlag{Name: "width", Usage: "native panel width"},
			&cli.IntFlag{Name: "height", Usage: "native panel height"},
			&cli.IntFlag{Name: "rotation", Usage: "panel rotation in quarter turns"},
			&cli.StringFlag{Name: "reset-pin", Usage: "reset GPIO `NAME`"},
			&cli.StringFlag{Name: "interrupt-pin", Usage: "interrupt GPIO `NAME`"},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
			&cli.StringFlag{Name: "debug-serial", Usage: "write the log to serial `DEVICE` instead of stderr"},
			&cli.BoolFlag{Name: "trace-bus", Usage: "log every register transfer"},
		},
		Commands: []*cli.Command{
			{
				Name:   "info",
				Usage:  "print controller identification and settings",
				Action: infoCmd,
			},
			{
				Name:  "set",
				Usage: "write controller settings",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "threshold", Usage: "touch detection threshold"},
					&cli.UintFlag{Name: "active-rate", Usage: "report rate in active mode"},
					&cli.UintFlag{Name: "monitor-rate", Usage: "report rate in monitor mode"},
					&cli.UintFlag{Name: "interrupt-mode", Usage: "0 for polling, 1 for trigger"},
				},
				Action: setCmd,
			},
			{
				Name:  "monitor",
				Usage: "print touches as they happen",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "frames", Usage: "stop after `N` frames, 0 for no limit"},
					&cli.DurationFlag{Name: "interval", Value: defaultInterval, Usage: "polling interval"},
					&cli.StringFlag{Name: "record", Usage: "record frames to capture `FILE`"},
					&cli.BoolFlag{Name: "single", Usage: "read only the first slot"},
				},
				Action: monitorCmd,
			},
			{
				Name:      "replay",
				Usage:     "print the touches of a capture",
				ArgsUsage: "FILE",
				Action:    replayCmd,
			},
			{
				Name:      "trace",
				Usage:     "render the touch tracks of a capture",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "trace.png", Usage: "output PNG `FILE`"},
					&cli.Float64Flag{Name: "scale", Value: 1, Usage: "pixels per screen unit"},
					&cli.Float64Flag{Name: "stroke", Value: 3, Usage: "stroke width in pixels"},
				},
				Action: traceCmd,
			},
		},
	}
}
