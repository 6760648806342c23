// Package config handles deepgo configuration loading.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/deepgo/network"
	"github.com/katalvlaran/deepgo/ontology"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid value")

// Config is the root configuration structure.
type Config struct {
	MaxLen             int     `yaml:"max_len"`
	NodeWidth          int     `yaml:"node_width"`
	BatchSize          int     `yaml:"batch_size"`
	Epochs             int     `yaml:"epochs"`
	LearningRate       float64 `yaml:"learning_rate"`
	ValidationFraction float64 `yaml:"validation_fraction"`
	TrainFraction      float64 `yaml:"train_fraction"`
	Seed               uint64  `yaml:"seed"`
	Namespace          string  `yaml:"namespace"` // bp, mf or cc
	Strategy           string  `yaml:"strategy"`  // bfs or topological
	Threshold          float64 `yaml:"threshold"`
	LogLevel           string  `yaml:"log_level"`
	StorePath          string  `yaml:"store_path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		MaxLen:             1000,
		NodeWidth:          network.DefaultWidth,
		BatchSize:          64,
		Epochs:             20,
		LearningRate:       network.DefaultLearningRate,
		ValidationFraction: 0.2,
		TrainFraction:      0.7,
		Seed:               5,
		Namespace:          "mf",
		Strategy:           "bfs",
		Threshold:          0.5,
		LogLevel:           "info",
		StorePath:          "deepgo.db",
	}
}

// Load reads path and overlays it on Default. The result is validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault loads path, or returns Default if path is empty or missing.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return Load(path)
}

// Save writes c to path as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	switch {
	case c.MaxLen <= 0:
		return fmt.Errorf("%w: max_len %d", ErrInvalid, c.MaxLen)
	case c.NodeWidth <= 0:
		return fmt.Errorf("%w: node_width %d", ErrInvalid, c.NodeWidth)
	case c.BatchSize <= 0:
		return fmt.Errorf("%w: batch_size %d", ErrInvalid, c.BatchSize)
	case c.Epochs <= 0:
		return fmt.Errorf("%w: epochs %d", ErrInvalid, c.Epochs)
	case !(c.LearningRate > 0):
		return fmt.Errorf("%w: learning_rate %v", ErrInvalid, c.LearningRate)
	case c.ValidationFraction < 0 || c.ValidationFraction >= 1:
		return fmt.Errorf("%w: validation_fraction %v", ErrInvalid, c.ValidationFraction)
	case c.TrainFraction <= 0 || c.TrainFraction > 1:
		return fmt.Errorf("%w: train_fraction %v", ErrInvalid, c.TrainFraction)
	case c.Threshold < 0 || c.Threshold > 1:
		return fmt.Errorf("%w: threshold %v", ErrInvalid, c.Threshold)
	}
	if _, err := c.Root(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := c.BuildStrategy(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}

// Root resolves Namespace to its ontology root term.
func (c *Config) Root() (string, error) { return ontology.RootFor(c.Namespace) }

// BuildStrategy parses Strategy.
func (c *Config) BuildStrategy() (network.Strategy, error) { return network.ParseStrategy(c.Strategy) }

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}

	return lvl, nil
}
