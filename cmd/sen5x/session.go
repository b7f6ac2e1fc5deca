package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/urfave/cli/v2"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
	"periph.io/x/conn/v3/physic"

	"github.com/mklimuk/sen5x"
	"github.com/mklimuk/sen5x/adapter"
	"github.com/mklimuk/sen5x/air"
	"github.com/mklimuk/sen5x/cmd/sen5x/console"
	"github.com/mklimuk/sen5x/i2c"
	"github.com/mklimuk/sen5x/pkg/config"
	"github.com/mklimuk/sen5x/snsctx"
)

var errMockDriver = errors.New("the mock adapter only provides measurements")

// loadConfig reads the configuration file and applies the global flag overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"), !c.IsSet("config"))
	if err != nil {
		return cfg, err
	}
	if c.IsSet("adapter") {
		cfg.Adapter = c.String("adapter")
	}
	if c.IsSet("device") {
		cfg.Device = c.String("device")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func commandContext(c *cli.Context) context.Context {
	ctx := snsctx.SetVerbose(c.Context, c.Bool("verbose"))
	return snsctx.WithLogger(ctx, slog.Default())
}

// openBus opens the configured adapter. The returned closer is never nil.
func openBus(ctx context.Context, cfg config.Config) (sen5x.I2CBus, func() error, error) {
	switch cfg.Adapter {
	case config.AdapterMCP2221:
		ad := adapter.NewMCP2221()
		if err := ad.Init(ctx); err != nil {
			return nil, nil, err
		}
		if cfg.Speed > 0 {
			if err := ad.SetSpeed(ctx, cfg.Speed); err != nil {
				return nil, nil, err
			}
		}
		return ad, func() error { return nil }, nil
	case config.AdapterGeneric:
		bus, err := i2c.NewGenericBus(cfg.Device)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Speed > 0 {
			if err := bus.SetSpeed(physic.Frequency(cfg.Speed) * physic.Hertz); err != nil {
				_ = bus.Close()
				return nil, nil, err
			}
		}
		return bus, bus.Close, nil
	case config.AdapterNanoPi:
		npi := nanopi.NewNeoAdaptor()
		if err := npi.I2cBusAdaptor.Connect(); err != nil {
			return nil, nil, fmt.Errorf("adaptor connect error: %w", err)
		}
		bus := i2c.NewGobotBus(npi, cfg.Bus)
		return bus, func() error {
			return errors.Join(bus.Close(), npi.I2cBusAdaptor.Finalize())
		}, nil
	case config.AdapterMock:
		return nil, nil, errMockDriver
	}
	return nil, nil, fmt.Errorf("unknown adapter %q", cfg.Adapter)
}

// withSensor runs fn against the configured device and releases the bus afterwards.
func withSensor(c *cli.Context, fn func(ctx context.Context, s *air.SEN5x) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return console.Exit(1, "configuration error: %s", console.Red(err))
	}
	ctx := commandContext(c)
	bus, closer, err := openBus(ctx, cfg)
	if err != nil {
		return console.Exit(1, "adapter initialization error: %s", console.Red(err))
	}
	s := air.NewSEN5x(bus, sen5x.Sleep)
	defer func() {
		if err := s.Close(ctx); err != nil {
			console.Errorf("error releasing bus: %s", console.Red(err))
		}
		if err := closer(); err != nil {
			console.Errorf("error closing bus: %s", console.Red(err))
		}
	}()
	return fn(ctx, s)
}

// simulated produces a slowly varying indoor reading for the mock adapter.
func simulated(start time.Time) air.MeasurementBehaviorFunc {
	return func(ctx context.Context) (air.SensorDataInt, error) {
		phase := math.Sin(time.Since(start).Minutes() / 10 * 2 * math.Pi)
		pm := uint16(80 + 40*phase)
		return air.SensorDataInt{
			MassConcentrationPm1p0:  pm,
			MassConcentrationPm2p5:  pm + 20,
			MassConcentrationPm4p0:  pm + 30,
			MassConcentrationPm10p0: pm + 35,
			AmbientHumidity:         int16(4500 + 500*phase),
			AmbientTemperature:      int16(4400 + 200*phase),
			VocIndex:                int16(1000 + 300*phase),
			NoxIndex:                10,
		}, nil
	}
}
