package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/sen5x/air"
	"github.com/mklimuk/sen5x/cmd/sen5x/console"
)

var resetCmd = cli.Command{
	Name:  "reset",
	Usage: "reset the sensor; measurement stops and volatile settings are lost",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "do not ask for confirmation"},
	},
	Action: func(c *cli.Context) error {
		if !c.Bool("yes") {
			answer, err := console.YesOrNo("reset sensor?")
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if answer != console.Yes {
				console.PInfof(console.PictoStop, "reset cancelled")
				return nil
			}
		}
		return withSensor(c, func(ctx context.Context, s *air.SEN5x) error {
			if err := s.DeviceReset(ctx); err != nil {
				return console.Exit(1, "error resetting device: %s", console.Red(err))
			}
			console.PInfof(console.PictoFinish, "device reset")
			return nil
		})
	},
}

var infoCmd = cli.Command{
	Name:  "info",
	Usage: "print product name, serial number, versions and status",
	Action: func(c *cli.Context) error {
		return withSensor(c, func(ctx context.Context, s *air.SEN5x) error {
			name, err := s.ProductName(ctx)
			if err != nil {
				return console.Exit(1, "error reading product name: %s", console.Red(err))
			}
			serial, err := s.SerialNumber(ctx)
			if err != nil {
				return console.Exit(1, "error reading serial number: %s", console.Red(err))
			}
			ver, err := s.VersionInfo(ctx)
			if err != nil {
				return console.Exit(1, "error reading version: %s", console.Red(err))
			}
			status, err := s.ReadDeviceStatus(ctx)
			if err != nil {
				return console.Exit(1, "error reading status: %s", console.Red(err))
			}
			console.Printf("product: %s\n", console.White(name))
			console.Printf("serial:  %s\n", console.White(fmt.Sprintf("%012x", serial)))
			console.Printf("version: %s\n", console.White(ver))
			console.Printf("status:  %s\n", statusColor(status))
			return nil
		})
	},
}

var statusCmd = cli.Command{
	Name:  "status",
	Usage: "read the device status register",
	Action: func(c *cli.Context) error {
		return withSensor(c, func(ctx context.Context, s *air.SEN5x) error {
			status, err := s.ReadDeviceStatus(ctx)
			if err != nil {
				return console.Exit(1, "error reading status: %s", console.Red(err))
			}
			console.Printf("%s\n", statusColor(status))
			if status.Errors() {
				return console.Exit(2, "device reports errors")
			}
			return nil
		})
	},
}

func statusColor(status air.DeviceStatus) string {
	switch {
	case status.Errors():
		return console.Red(status)
	case status != 0:
		return console.Yellow(status)
	}
	return console.Green(status)
}

var startCmd = cli.Command{
	Name:  "start",
	Usage: "start periodic measurement",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "no-pm", Usage: "keep the particulate matter sensor off"},
	},
	Action: func(c *cli.Context) error {
		return withSensor(c, func(ctx context.Context, s *air.SEN5x) error {
			start := s.StartMeasurement
			if c.Bool("no-pm") {
				start = s.StartMeasurementWithoutPM
			}
			if err := start(ctx); err != nil {
				return console.Exit(1, "error starting measurement: %s", console.Red(err))
			}
			console.PInfof(console.PictoFinish, "measurement started")
			return nil
		})
	},
}

var stopCmd = cli.Command{
	Name:  "stop",
	Usage: "stop measurement",
	Action: func(c *cli.Context) error {
		return withSensor(c, func(ctx context.Context, s *air.SEN5x) error {
			if err := s.StopMeasurement(ctx); err != nil {
				return console.Exit(1, "error stopping measurement: %s", console.Red(err))
			}
			console.PInfof(console.PictoStop, "measurement stopped")
			return nil
		})
	},
}

var cleanCmd = cli.Command{
	Name:  "clean",
	Usage: "run fan cleaning; the sensor must be measuring",
	Action: func(c *cli.Context) error {
		return withSensor(c, func(ctx context.Context, s *air.SEN5x) error {
			if err := s.StartFanCleaning(ctx); err != nil {
				return console.Exit(1, "error starting fan cleaning: %s", console.Red(err))
			}
			console.PInfof(console.PictoTree, "fan cleaning started")
			return nil
		})
	},
}

var warmStartCmd = cli.Command{
	Name:  "warmstart",
	Usage: "get or set the VOC/NOx warm start parameter",
	Subcommands: cli.Commands{
		{
			Name: "get",
			Action: func(c *cli.Context) error {
				return withSensor(c, func(ctx context.Context, s *air.SEN5x) error {
					v, err := s.GetWarmStartParameter(ctx)
					if err != nil {
						return console.Exit(1, "error reading warm start parameter: %s", console.Red(err))
					}
					console.Printf("%d\n", v)
					return nil
				})
			},
		},
		{
			Name:      "set",
			ArgsUsage: "<0-65535>",
			Action: func(c *cli.Context) error {
				v, err := parseWarmStart(c.Args().First())
				if err != nil {
					return console.Exit(1, "%s", console.Red(err))
				}
				return withSensor(c, func(ctx context.Context, s *air.SEN5x) error {
					if err := s.SetWarmStartParameter(ctx, v); err != nil {
						return console.Exit(1, "error setting warm start parameter: %s", console.Red(err))
					}
					console.PInfof(console.PictoKey, "warm start parameter set to %d", v)
					return nil
				})
			},
		},
	},
}

func parseWarmStart(arg string) (uint16, error) {
	if arg == "" {
		return 0, fmt.Errorf("missing warm start value")
	}
	v, err := strconv.ParseUint(arg, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid warm start value %q: %w", arg, err)
	}
	return uint16(v), nil
}

var offsetCmd = cli.Command{
	Name:  "offset",
	Usage: "temperature compensation",
	Subcommands: cli.Commands{
		{
			Name: "set",
			Flags: []cli.Flag{
				&cli.Float64Flag{Name: "offset", Usage: "constant offset in °C"},
				&cli.Float64Flag{Name: "slope", Usage: "normalized slope factor"},
				&cli.DurationFlag{Name: "time-constant", Usage: "time constant, whole seconds"},
			},
			Action: func(c *cli.Context) error {
				params := air.TemperatureOffsetParameters{
					Offset:       float32(c.Float64("offset")),
					Slope:        float32(c.Float64("slope")),
					TimeConstant: c.Duration("time-constant").Truncate(time.Second),
				}
				return withSensor(c, func(ctx context.Context, s *air.SEN5x) error {
					if err := s.SetTemperatureOffsetParameters(ctx, params); err != nil {
						return console.Exit(1, "error setting temperature offset: %s", console.Red(err))
					}
					console.PInfof(console.PictoThermometer, "temperature offset set")
					return nil
				})
			},
		},
	},
}
