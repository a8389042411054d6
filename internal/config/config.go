// Package config holds the session configuration: render backend, worker
// count, initial adjustments and matrix size. Values come from an optional
// YAML file with flag overrides applied in cmd.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AdjustmentsCfg seeds the parameter store. Exposure is neutral at 0, the
// other scalars at 1.
type AdjustmentsCfg struct {
	Exposure   float32 `yaml:"exposure"`
	Contrast   float32 `yaml:"contrast"`
	Highlights float32 `yaml:"highlights"`
	Shadows    float32 `yaml:"shadows"`
	Saturation float32 `yaml:"saturation"`
}

// StagesCfg toggles the optional pipeline stages.
type StagesCfg struct {
	Saturation bool `yaml:"saturation"`
	Dither     bool `yaml:"dither"`
}

type Config struct {
	Backend    string `yaml:"backend"` // "software"
	Workers    int    `yaml:"workers"` // 0 = one per CPU
	ImagePath  string `yaml:"image_path"`
	MatrixSize int    `yaml:"matrix_size"` // power of two
	LogLevel   string `yaml:"log_level"`

	Stages      StagesCfg      `yaml:"stages"`
	Adjustments AdjustmentsCfg `yaml:"adjustments"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Backend:    "software",
		Workers:    0,
		ImagePath:  "testdata/sample.png",
		MatrixSize: 4,
		LogLevel:   "info",
		Stages:     StagesCfg{Saturation: true, Dither: true},
		Adjustments: AdjustmentsCfg{
			Exposure:   0,
			Contrast:   1,
			Highlights: 1,
			Shadows:    1,
			Saturation: 1,
		},
	}
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	return c, nil
}

// Save writes the configuration back out, for seeding a starter file.
func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate checks the invariants the rest of the system relies on.
func (c *Config) Validate() error {
	if c.MatrixSize < 1 || c.MatrixSize&(c.MatrixSize-1) != 0 {
		return fmt.Errorf("matrix_size must be a power of two, got %d", c.MatrixSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Adjustments.Shadows <= 0 {
		return fmt.Errorf("adjustments.shadows must be positive, got %g", c.Adjustments.Shadows)
	}
	return nil
}
