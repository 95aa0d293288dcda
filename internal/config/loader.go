package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default scenario file name.
const DefaultConfigFile = ".nrcap.yaml"

// XDGConfigFile is the scenario file name inside the XDG config directory.
const XDGConfigFile = "scenarios.yaml"

// LoadConfigFile loads scenarios from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes a scenario file. Unknown keys are rejected so that a
// misspelled parameter does not silently fall back to the defaults.
func ParseConfig(data []byte) (*File, error) {
	var cf File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse scenario file: %w", err)
	}

	if cf.Scenarios == nil {
		cf.Scenarios = make(map[string]ScenarioConfig)
	}
	return &cf, nil
}

// FindConfigFile searches for the scenario file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .nrcap.yaml in the current directory
// 3. Look for .nrcap.yaml in the user's home directory
// 4. Look for scenarios.yaml in the XDG config directory
//
// Returns the path to the file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), XDGConfigFile))

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
