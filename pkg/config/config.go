// Package config provides configuration loading and management for gradsmooth.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Filter parameters
	Filter struct {
		// KernelSize is the side of the square smoothing window (odd values expected)
		KernelSize int `yaml:"kernelSize"`

		// Passes is the number of sequential filter runs
		Passes int `yaml:"passes"`

		// NumCores specifies how many CPU cores to use within a pass
		NumCores int `yaml:"numCores"`

		// Channel restricts filtering to one channel; -1 filters all of them
		Channel int `yaml:"channel"`
	} `yaml:"filter"`

	// Output parameters
	Output struct {
		// SaveIntermediaryResults determines whether to save per-pass gradient maps and outputs
		SaveIntermediaryResults bool `yaml:"saveIntermediaryResults"`

		// IntermediaryDir is where intermediary results are written
		IntermediaryDir string `yaml:"intermediaryDir"`

		// JPEGQuality is used when the output file is a JPEG
		JPEGQuality int `yaml:"jpegQuality"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default filter parameters
	cfg.Filter.KernelSize = 7
	cfg.Filter.Passes = 1
	cfg.Filter.NumCores = runtime.NumCPU() // Use all available cores by default
	cfg.Filter.Channel = -1

	// Set default output parameters
	cfg.Output.SaveIntermediaryResults = false
	cfg.Output.IntermediaryDir = "intermediary_results"
	cfg.Output.JPEGQuality = 95
	cfg.Output.Verbose = false

	return cfg
}

// Validate checks that the configured values are usable
func (c *Config) Validate() error {
	if c.Filter.KernelSize < 1 {
		return fmt.Errorf("filter.kernelSize must be >= 1, got %d", c.Filter.KernelSize)
	}
	if c.Filter.Passes < 1 {
		return fmt.Errorf("filter.passes must be >= 1, got %d", c.Filter.Passes)
	}
	if c.Filter.Channel < -1 {
		return fmt.Errorf("filter.channel must be -1 or a channel index, got %d", c.Filter.Channel)
	}
	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		return fmt.Errorf("output.jpegQuality must be in [1, 100], got %d", c.Output.JPEGQuality)
	}
	if c.Output.SaveIntermediaryResults && c.Output.IntermediaryDir == "" {
		return fmt.Errorf("output.intermediaryDir is required when saving intermediary results")
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
