// Package config provides optional YAML configuration for the exporter.
// Command-line flags take precedence over file values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the file-configurable exporter settings. Zero values mean
// "use the built-in default".
type Config struct {
	// Converter parameters
	Converter struct {
		// Path is the converter binary, looked up on PATH when not absolute
		Path string `yaml:"path"`

		// Args replaces the default arguments placed before the directory pair
		Args []string `yaml:"args"`

		// Skip disables the volumetric conversion step entirely
		Skip bool `yaml:"skip"`
	} `yaml:"converter"`

	// Input parameters
	Input struct {
		// Pattern is the glob used to discover DICOM files
		Pattern string `yaml:"pattern"`
	} `yaml:"input"`

	// Output parameters
	Output struct {
		// Summary prints nominal interval statistics after export
		Summary bool `yaml:"summary"`

		// Quiet suppresses progress output
		Quiet bool `yaml:"quiet"`
	} `yaml:"output"`
}

// Load reads and decodes a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}
