package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rossv/designstorms-sub000/internal/betainc"
	"github.com/rossv/designstorms-sub000/internal/storm"
)

const (
	DefaultDepth        = 1.0
	DefaultDuration     = 24.0
	DefaultTimestep     = 6.0
	DefaultDistribution = "scs_type_ii"
	DefaultGauge        = "System"
	DefaultUnits        = "in"

	// StartLayout is the accepted layout of Config.Start besides RFC 3339.
	StartLayout = "2006-01-02 15:04"
)

// Config is a storm request as stored in YAML files and presets.
type Config struct {
	Depth           float64 `yaml:"depth"`
	DurationHours   float64 `yaml:"duration_hours"`
	TimestepMinutes float64 `yaml:"timestep_minutes"`
	Distribution    string  `yaml:"distribution"`
	DurationMode    string  `yaml:"duration_mode"`
	Fidelity        string  `yaml:"fidelity"`
	Smoothing       bool    `yaml:"smoothing"`
	CustomCurve     string  `yaml:"custom_curve,omitempty"`
	CustomCurveFile string  `yaml:"custom_curve_file,omitempty"`

	Output OutputConfig `yaml:"output"`
}

// OutputConfig controls export of a generated storm.
type OutputConfig struct {
	Start string `yaml:"start,omitempty"`
	Gauge string `yaml:"gauge"`
	Units string `yaml:"units"`
}

func DefaultConfig() *Config {
	return &Config{
		Depth:           DefaultDepth,
		DurationHours:   DefaultDuration,
		TimestepMinutes: DefaultTimestep,
		Distribution:    DefaultDistribution,
		DurationMode:    storm.Standard.String(),
		Fidelity:        betainc.Precise.String(),
		Output: OutputConfig{
			Gauge: DefaultGauge,
			Units: DefaultUnits,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the request into engine parameters. A custom curve file,
// when set, replaces the inline curve text.
func (c *Config) Params() (storm.Params, error) {
	mode, err := storm.ParseDurationMode(c.DurationMode)
	if err != nil {
		return storm.Params{}, err
	}
	fidelity, err := betainc.ParseFidelity(c.Fidelity)
	if err != nil {
		return storm.Params{}, err
	}
	curve := c.CustomCurve
	if c.CustomCurveFile != "" {
		data, err := os.ReadFile(c.CustomCurveFile)
		if err != nil {
			return storm.Params{}, fmt.Errorf("read custom curve: %w", err)
		}
		curve = string(data)
	}
	return storm.Params{
		Depth:           c.Depth,
		DurationHours:   c.DurationHours,
		TimestepMinutes: c.TimestepMinutes,
		Distribution:    c.Distribution,
		DurationMode:    mode,
		Fidelity:        fidelity,
		Smoothing:       c.Smoothing,
		CustomCurve:     curve,
	}, nil
}

// StartTime parses Output.Start. The zero time is returned when it is empty.
func (c *Config) StartTime() (time.Time, error) {
	if c.Output.Start == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, c.Output.Start); err == nil {
		return t, nil
	}
	t, err := time.Parse(StartLayout, c.Output.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start %q: want RFC 3339 or %q", c.Output.Start, StartLayout)
	}
	return t, nil
}
