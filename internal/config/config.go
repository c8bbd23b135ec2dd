// Package config reads the optional trainer configuration file.
// Anything set on the command line overrides what the file says.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Train mirrors the trainer's tunables. Zero values mean "not set"; the cmd
// layer resolves them against flags and defaults.
type Train struct {
	// Weights is "uniform" or "tf" (second input column as word weight).
	Weights string `toml:"weights"`
	// MinPairFrequency is the merge floor; pairs below it never merge.
	MinPairFrequency int64 `toml:"min_pair_frequency"`
	// MaxMerges caps the merge loop, 0 for unlimited.
	MaxMerges int `toml:"max_merges"`
}

func LoadTrain(path string) (*Train, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Train
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Train) validate() error {
	switch c.Weights {
	case "", "uniform", "tf":
	default:
		return fmt.Errorf("weights must be \"uniform\" or \"tf\", got %q", c.Weights)
	}
	if c.MinPairFrequency < 0 {
		return fmt.Errorf("min_pair_frequency must not be negative")
	}
	if c.MaxMerges < 0 {
		return fmt.Errorf("max_merges must not be negative")
	}
	return nil
}
