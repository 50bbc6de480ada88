package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/partsim/internal/logging"
	"github.com/san-kum/partsim/internal/sim"
)

const (
	DefaultScenario    = "ballistic"
	DefaultDt          = 0.01
	DefaultDuration    = 10.0
	DefaultWorkers     = 1
	DefaultSampleEvery = 1
	DefaultLogLevel    = "warn"
)

type Config struct {
	Scenario      string             `yaml:"scenario"`
	Dt            float64            `yaml:"dt"`
	Duration      float64            `yaml:"duration"`
	Seed          int64              `yaml:"seed"`
	Workers       int                `yaml:"workers"`
	SampleEvery   int                `yaml:"sample_every"`
	ValidateState bool               `yaml:"validate_state"`
	LogLevel      string             `yaml:"log_level"`
	Params        map[string]float64 `yaml:"params,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:      DefaultScenario,
		Dt:            DefaultDt,
		Duration:      DefaultDuration,
		Workers:       DefaultWorkers,
		SampleEvery:   DefaultSampleEvery,
		ValidateState: true,
		LogLevel:      DefaultLogLevel,
		Params:        map[string]float64{},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Params == nil {
		cfg.Params = map[string]float64{}
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

// Validate checks the fields a run cannot start without.
func (c *Config) Validate() error {
	if c.Scenario == "" {
		return fmt.Errorf("scenario must be set")
	}
	if !(c.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if !(c.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %g", c.Duration)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("sample_every must not be negative, got %d", c.SampleEvery)
	}
	if c.LogLevel != "" {
		if _, ok := logging.ParseLevel(c.LogLevel); !ok {
			return fmt.Errorf("unknown log level %q", c.LogLevel)
		}
	}
	return nil
}

// SimConfig returns the run loop settings.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Dt:            c.Dt,
		Duration:      c.Duration,
		Workers:       c.Workers,
		SampleEvery:   c.SampleEvery,
		ValidateState: c.ValidateState,
	}
}

// Merge copies preset values over c, leaving Seed and LogLevel alone.
func (c *Config) Merge(p *Config) {
	c.Scenario = p.Scenario
	if p.Dt > 0 {
		c.Dt = p.Dt
	}
	if p.Duration > 0 {
		c.Duration = p.Duration
	}
	if p.SampleEvery > 0 {
		c.SampleEvery = p.SampleEvery
	}
	if c.Params == nil {
		c.Params = map[string]float64{}
	}
	for k, v := range p.Params {
		c.Params[k] = v
	}
}
