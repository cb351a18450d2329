package config

import (
	"fmt"
	"os"

	"recallscore/internal/experiment"
)

// Load reads, parses, normalizes, and validates a config file.
func Load(path string) (experiment.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return experiment.Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := experiment.ParseConfig(data)
	if err != nil {
		return experiment.Config{}, err
	}
	Normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return experiment.Config{}, err
	}
	return cfg, nil
}

// Default returns the normalized config used when no config file exists.
func Default() experiment.Config {
	cfg := experiment.Config{Version: 1}
	Normalize(&cfg)
	return cfg
}
