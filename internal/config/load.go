package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Load reads a TOML config file, applies defaults, validates it, and
// returns the decoded config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config: %s: %w", path, err)
	}
	return LoadBytes(data, path)
}

// LoadBytes parses TOML from raw bytes. The path argument is used only for
// error messages.
func LoadBytes(data []byte, path string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("config parse error in %s: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed in %s: %w", path, err)
	}

	return &cfg, nil
}
