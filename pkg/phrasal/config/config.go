// Package config loads Phrases model configuration from YAML files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/phrasal/pkg/phrasal"
	"github.com/cognicore/phrasal/pkg/phrasal/internalerr"
)

// Config is the file-based counterpart of phrasal.Options.
type Config struct {
	MinCount     int64   `yaml:"min_count"`
	Threshold    float64 `yaml:"threshold"`
	MaxVocabSize int     `yaml:"max_vocab_size"`
	Delimiter    string  `yaml:"delimiter"`
	Approximate  bool    `yaml:"approximate"`
	Delta        float64 `yaml:"delta"`
	Epsilon      float64 `yaml:"epsilon"`
}

// Default returns the package defaults (exact counting).
func Default() Config {
	return Config{
		MinCount:     phrasal.DefaultMinCount,
		Threshold:    phrasal.DefaultThreshold,
		MaxVocabSize: phrasal.DefaultMaxVocabSize,
		Delimiter:    phrasal.DefaultDelimiter,
		Delta:        phrasal.DefaultDelta,
		Epsilon:      phrasal.DefaultEpsilon,
	}
}

// Load reads a YAML config from path, layered over Default, and validates it.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the constraints New would reject, so misconfiguration
// surfaces at load time.
func (c Config) Validate() error {
	if c.MinCount <= 0 {
		return fmt.Errorf("%w: min_count must be at least 1, got %d",
			internalerr.ErrInvalidConfig, c.MinCount)
	}
	if c.Threshold <= 0 {
		return fmt.Errorf("%w: threshold must be positive, got %v",
			internalerr.ErrInvalidConfig, c.Threshold)
	}
	if c.Approximate {
		if c.Delta <= 0 || c.Delta >= 1 {
			return fmt.Errorf("%w: delta must be in (0,1), got %v",
				internalerr.ErrInvalidConfig, c.Delta)
		}
		if c.Epsilon <= 0 || c.Epsilon >= 1 {
			return fmt.Errorf("%w: epsilon must be in (0,1), got %v",
				internalerr.ErrInvalidConfig, c.Epsilon)
		}
	}
	return nil
}

// Options converts the config into model options.
func (c Config) Options() phrasal.Options {
	return phrasal.Options{
		MinCount:     c.MinCount,
		Threshold:    c.Threshold,
		MaxVocabSize: c.MaxVocabSize,
		Delimiter:    c.Delimiter,
		Approximate:  c.Approximate,
		Delta:        c.Delta,
		Epsilon:      c.Epsilon,
	}
}
