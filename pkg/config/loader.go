package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/modelcheck/modelcheck/pkg/schema"
)

// Load reads, validates, and decodes a configuration file. A missing path
// returns the default configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return LoadBytes(data)
}

// LoadBytes validates and decodes configuration data. Schema violations are
// reported with the offending source lines annotated.
func LoadBytes(data []byte) (*Config, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := DefaultValidator.Validate(raw); err != nil {
		var vErr *schema.ValidationError
		if errors.As(err, &vErr) {
			return nil, fmt.Errorf("invalid config:\n%s", vErr.Annotate(data))
		}

		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	c.EnsureDefaults()

	return c, nil
}

// Default returns the embedded default configuration.
func Default() *Config {
	c, err := LoadBytes(defaultConfigYAML)
	if err != nil {
		panic(err)
	}

	return c
}
