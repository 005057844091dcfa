// Package config provides configuration management for the keymagic-go
// engine and its devtools: loading from JSON/YAML files, environment
// variable overrides, and defaults.
//
// Example usage:
//
//	cfg := config.DefaultConfig()
//	cfg.Engine.RecursionDepth = 16
//
//	// Or load from file
//	cfg, err := config.LoadFromFile("keymagic.json")
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the complete configuration for the engine runtime and its
// devtools.
type Config struct {
	Engine   EngineConfig   `json:"engine" yaml:"engine"`
	Devtools DevtoolsConfig `json:"devtools" yaml:"devtools"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
}

// EngineConfig tunes the process_key recursive rewrite pass and default
// layout search path.
type EngineConfig struct {
	RecursionDepth  int    `json:"recursion_depth" yaml:"recursion_depth"`
	DefaultLayoutDir string `json:"default_layout_dir" yaml:"default_layout_dir"`
}

// DevtoolsConfig holds devtool preferences. kmrepl reads ColorOutput and
// HistorySize; km2dump does not load any configuration.
type DevtoolsConfig struct {
	ColorOutput  bool `json:"color_output" yaml:"color_output"`
	HistorySize  int  `json:"history_size" yaml:"history_size"`
	ShowOpcodes  bool `json:"show_opcodes" yaml:"show_opcodes"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	Output string `json:"output" yaml:"output"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			RecursionDepth: 32,
		},
		Devtools: DevtoolsConfig{
			ColorOutput: true,
			HistorySize: 200,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// LoadFromFile loads configuration from a JSON or YAML file, starting from
// DefaultConfig and overlaying whatever the file sets.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	switch {
	case strings.HasSuffix(filename, ".json"):
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case strings.HasSuffix(filename, ".yaml"), strings.HasSuffix(filename, ".yml"):
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format")
	}

	return cfg, nil
}

// LoadFromEnvironment loads configuration from KEYMAGIC_* environment
// variables, overlaying DefaultConfig.
func LoadFromEnvironment() *Config {
	cfg := DefaultConfig()

	if depth := os.Getenv("KEYMAGIC_RECURSION_DEPTH"); depth != "" {
		if d, err := strconv.Atoi(depth); err == nil {
			cfg.Engine.RecursionDepth = d
		}
	}
	if dir := os.Getenv("KEYMAGIC_LAYOUT_DIR"); dir != "" {
		cfg.Engine.DefaultLayoutDir = dir
	}
	if color := os.Getenv("KEYMAGIC_COLOR_OUTPUT"); color != "" {
		cfg.Devtools.ColorOutput = color == "true"
	}
	if level := os.Getenv("KEYMAGIC_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	return cfg
}

// Merge overlays any non-zero fields of other onto c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Engine.RecursionDepth != 0 {
		c.Engine.RecursionDepth = other.Engine.RecursionDepth
	}
	if other.Engine.DefaultLayoutDir != "" {
		c.Engine.DefaultLayoutDir = other.Engine.DefaultLayoutDir
	}
	if other.Devtools.ColorOutput {
		c.Devtools.ColorOutput = true
	}
	if other.Devtools.HistorySize != 0 {
		c.Devtools.HistorySize = other.Devtools.HistorySize
	}
	if other.Devtools.ShowOpcodes {
		c.Devtools.ShowOpcodes = true
	}
	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Logging.Format != "" {
		c.Logging.Format = other.Logging.Format
	}
	if other.Logging.Output != "" {
		c.Logging.Output = other.Logging.Output
	}
}

// Validate checks the configuration for self-consistency.
func (c *Config) Validate() error {
	if c.Engine.RecursionDepth <= 0 {
		return fmt.Errorf("invalid recursion depth: %d", c.Engine.RecursionDepth)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}
	return nil
}

// ToMap converts the configuration to a map for path-based access.
func (c *Config) ToMap() map[string]interface{} {
	data, _ := json.Marshal(c)
	var result map[string]interface{}
	json.Unmarshal(data, &result)
	return result
}

// GetString returns a string value from the configuration at a dotted path
// such as "logging.level".
func (c *Config) GetString(path string) (string, error) {
	v, err := c.get(path)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("path %s does not point to a string value", path)
	}
	return s, nil
}

// GetInt returns an integer value from the configuration at a dotted path.
func (c *Config) GetInt(path string) (int, error) {
	v, err := c.get(path)
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("path %s does not point to a numeric value", path)
	}
	return int(f), nil
}

// GetBool returns a boolean value from the configuration at a dotted path.
func (c *Config) GetBool(path string) (bool, error) {
	v, err := c.get(path)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("path %s does not point to a boolean value", path)
	}
	return b, nil
}

func (c *Config) get(path string) (interface{}, error) {
	parts := strings.Split(path, ".")
	var current interface{} = c.ToMap()

	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid path: %s", path)
		}
		v, ok := m[part]
		if !ok {
			return nil, fmt.Errorf("path not found: %s", path)
		}
		current = v
	}
	return current, nil
}
