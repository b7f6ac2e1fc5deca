package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Build metadata, injected by the dev build tool.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

const (
	AdapterMCP2221 = "mcp2221"
	AdapterGeneric = "generic"
	AdapterNanoPi  = "nanopi"
	AdapterMock    = "mock"
)

type Config struct {
	Adapter string `yaml:"adapter"`
	// Device is the periph.io bus name used by the generic adapter, e.g. /dev/i2c-1.
	Device string `yaml:"device"`
	// Bus is the bus number used by the nanopi adapter; -1 selects the board default.
	Bus int `yaml:"bus"`
	// Speed is the I2C clock in Hz. Zero keeps the adapter setting.
	Speed   int64         `yaml:"speed"`
	Monitor MonitorConfig `yaml:"monitor"`
	// WarmStart is written to the sensor before the monitor starts measuring, if set.
	WarmStart *uint16 `yaml:"warm_start"`
}

type MonitorConfig struct {
	Listen   string        `yaml:"listen"`
	Interval time.Duration `yaml:"interval"`
	// WithoutPM starts measurement with the particulate matter sensor off.
	WithoutPM bool `yaml:"without_pm"`
}

func Default() Config {
	return Config{
		Adapter: AdapterMCP2221,
		Device:  "/dev/i2c-1",
		Bus:     -1,
		Monitor: MonitorConfig{
			Listen:   ":9105",
			Interval: 5 * time.Second,
		},
	}
}

// Load reads a YAML file on top of Default. A missing file is not an error
// when optional is set.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("could not read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("could not parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Adapter {
	case AdapterMCP2221, AdapterGeneric, AdapterNanoPi, AdapterMock:
	default:
		return fmt.Errorf("unknown adapter %q", c.Adapter)
	}
	if c.Adapter == AdapterGeneric && c.Device == "" {
		return errors.New("device is required for the generic adapter")
	}
	if c.Speed < 0 {
		return fmt.Errorf("speed must not be negative, got %d", c.Speed)
	}
	return nil
}

// Validate checks the settings used by the monitor command only.
func (m MonitorConfig) Validate() error {
	// measurement results update once per second
	if m.Interval < time.Second {
		return fmt.Errorf("monitor interval must be at least 1s, got %s", m.Interval)
	}
	if m.Listen == "" {
		return errors.New("monitor listen address is required")
	}
	return nil
}
