package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/sen5x/air"
	"github.com/mklimuk/sen5x/cmd/sen5x/console"
	"github.com/mklimuk/sen5x/pkg/config"
)

var readCmd = cli.Command{
	Name:    "read",
	Aliases: []string{"rd"},
	Usage:   "read the latest measurement; the sensor must be measuring",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "raw", Usage: "read uncompensated humidity and temperature and raw gas ticks"},
		&cli.BoolFlag{Name: "int", Usage: "print values in device units"},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		if cfg.Adapter == config.AdapterMock {
			if c.Bool("raw") {
				return console.Exit(1, "%s", console.Red(errMockDriver))
			}
			mock := air.NewMockSEN5x(simulated(time.Now()))
			return printMeasurement(commandContext(c), mock, c.Bool("int"))
		}
		return withSensor(c, func(ctx context.Context, s *air.SEN5x) error {
			if c.Bool("raw") {
				raw, err := s.ReadMeasuredRawValues(ctx)
				if err != nil {
					return console.Exit(1, "error reading raw values: %s", console.Red(err))
				}
				console.Printf("raw humidity:    %d\n", raw.RawHumidity)
				console.Printf("raw temperature: %d\n", raw.RawTemperature)
				console.Printf("raw voc:         %d\n", raw.RawVoc)
				console.Printf("raw nox:         %d\n", raw.RawNox)
				return nil
			}
			return printMeasurement(ctx, s, c.Bool("int"))
		})
	},
}

type integerReader interface {
	ReadMeasuredValuesAsIntegers(ctx context.Context) (air.SensorDataInt, error)
}

func printMeasurement(ctx context.Context, s integerReader, integers bool) error {
	data, err := s.ReadMeasuredValuesAsIntegers(ctx)
	if err != nil {
		return console.Exit(1, "error reading measured values: %s", console.Red(err))
	}
	if integers {
		console.Printf("pm1.0: %s pm2.5: %s pm4.0: %s pm10: %s humidity: %s temperature: %s voc: %s nox: %s\n",
			rawPM(data.MassConcentrationPm1p0), rawPM(data.MassConcentrationPm2p5),
			rawPM(data.MassConcentrationPm4p0), rawPM(data.MassConcentrationPm10p0),
			rawValue(data.AmbientHumidity), rawValue(data.AmbientTemperature),
			rawValue(data.VocIndex), rawValue(data.NoxIndex))
		return nil
	}
	scaled := data.Scale()
	env := scaled.Env()
	temperature, humidity := unavailable, unavailable
	if air.ValidInt16(data.AmbientTemperature) {
		temperature = env.Temperature.String()
	}
	if air.ValidInt16(data.AmbientHumidity) {
		humidity = env.Humidity.String()
	}
	console.PInfof(console.PictoThermometer, "%s", console.White(temperature))
	console.PInfof(console.PictoHumidity, "%s", console.White(humidity))
	console.PInfof(console.PictoTree, "pm1.0 %s pm2.5 %s pm4.0 %s pm10 %s µg/m³",
		scaledPM(data.MassConcentrationPm1p0, scaled.MassConcentrationPm1p0),
		scaledPM(data.MassConcentrationPm2p5, scaled.MassConcentrationPm2p5),
		scaledPM(data.MassConcentrationPm4p0, scaled.MassConcentrationPm4p0),
		scaledPM(data.MassConcentrationPm10p0, scaled.MassConcentrationPm10p0))
	console.PInfof(console.PictoNotebook, "voc %s nox %s",
		scaledValue(data.VocIndex, scaled.VocIndex), scaledValue(data.NoxIndex, scaled.NoxIndex))
	return nil
}

const unavailable = "n/a"

func rawPM(v uint16) string {
	if !air.ValidUint16(v) {
		return unavailable
	}
	return strconv.Itoa(int(v))
}

func rawValue(v int16) string {
	if !air.ValidInt16(v) {
		return unavailable
	}
	return strconv.Itoa(int(v))
}

func scaledPM(raw uint16, v float32) string {
	if !air.ValidUint16(raw) {
		return unavailable
	}
	return fmt.Sprintf("%.1f", v)
}

func scaledValue(raw int16, v float32) string {
	if !air.ValidInt16(raw) {
		return unavailable
	}
	return fmt.Sprintf("%.1f", v)
}
