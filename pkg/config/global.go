package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// GetPath returns the default configuration file path, honoring
// XDG_CONFIG_HOME and falling back to the user's home directory.
func GetPath() string {
	if xdgHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdgHome != "" {
		return filepath.Join(xdgHome, "modelcheck", "config.yaml")
	}

	usrHome, err := os.UserHomeDir()
	if err == nil && usrHome != "" {
		return filepath.Join(usrHome, ".config", "modelcheck", "config.yaml")
	}

	tmpConfig := filepath.Join(os.TempDir(), "modelcheck", "config.yaml")

	slog.Warn("could not determine user config directory, using temp path for config",
		slog.String("path", tmpConfig),
		slog.Any("error", fmt.Errorf("$XDG_CONFIG_HOME is unset, fall back to home directory: %w", err)),
	)

	return tmpConfig
}

// MarshalYAML serializes the config to YAML.
func (c Config) MarshalYAML() ([]byte, error) {
	b := &bytes.Buffer{}
	enc := yaml.NewEncoder(b)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	return b.Bytes(), nil
}

// WriteDefault writes the embedded default configuration to path unless a
// file already exists there.
func WriteDefault(path string) error {
	if info, err := os.Stat(path); err == nil {
		if info.Mode().IsRegular() {
			return nil
		}

		return fmt.Errorf("%s: not a regular file", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	if err := os.WriteFile(path, defaultConfigYAML, 0o600); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	return nil
}
