package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/sen5x/air"
	"github.com/mklimuk/sen5x/cmd/sen5x/console"
	"github.com/mklimuk/sen5x/monitor"
	"github.com/mklimuk/sen5x/pkg/config"
	"github.com/mklimuk/sen5x/snsctx"
)

var monitorCmd = cli.Command{
	Name:  "monitor",
	Usage: "measure periodically and export readings as Prometheus metrics",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "listen", Usage: "metrics listen address"},
		&cli.DurationFlag{Name: "interval", Usage: "read interval"},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		if c.IsSet("listen") {
			cfg.Monitor.Listen = c.String("listen")
		}
		if c.IsSet("interval") {
			cfg.Monitor.Interval = c.Duration("interval")
		}
		if err := cfg.Monitor.Validate(); err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		ctx, stop := signal.NotifyContext(commandContext(c), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Adapter == config.AdapterMock {
			return runMonitor(ctx, cfg, air.NewMockSEN5x(simulated(time.Now())))
		}
		return withSensor(c, func(_ context.Context, s *air.SEN5x) error {
			if cfg.WarmStart != nil {
				if err := s.SetWarmStartParameter(ctx, *cfg.WarmStart); err != nil {
					return console.Exit(1, "error setting warm start parameter: %s", console.Red(err))
				}
			}
			var sensor air.Sensor = s
			if cfg.Monitor.WithoutPM {
				sensor = withoutPM{s}
			}
			return runMonitor(ctx, cfg, sensor)
		})
	},
}

// withoutPM starts measurement with the particulate matter sensor off.
type withoutPM struct {
	*air.SEN5x
}

func (s withoutPM) StartMeasurement(ctx context.Context) error {
	return s.SEN5x.StartMeasurementWithoutPM(ctx)
}

func runMonitor(ctx context.Context, cfg config.Config, sensor air.Sensor) error {
	mon := monitor.New(sensor, cfg.Monitor.Interval)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	served := make(chan error, 1)
	go func() {
		err := mon.ListenAndServe(ctx, cfg.Monitor.Listen)
		if err != nil {
			cancel()
		}
		served <- err
	}()
	snsctx.Logger(ctx).InfoContext(ctx, "monitoring started", "adapter", cfg.Adapter, "interval", cfg.Monitor.Interval)
	runErr := mon.Run(ctx)
	cancel()
	serveErr := <-served
	if runErr != nil {
		return console.Exit(1, "monitor error: %s", console.Red(runErr))
	}
	if serveErr != nil {
		return console.Exit(1, "%s", console.Red(serveErr))
	}
	return nil
}
