package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Color modes accepted by Config.Color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// DefaultConfigFiles are searched, in order, when no config path is given.
var DefaultConfigFiles = []string{".sonar.yaml", ".sonar.yml", ".sonar.toml"}

// Config represents the sonar tool configuration
type Config struct {
	Prompt             string `yaml:"prompt" toml:"prompt"`
	ContinuationPrompt string `yaml:"continuation_prompt" toml:"continuation_prompt"`
	HistoryFile        string `yaml:"history_file" toml:"history_file"`
	MaxHistory         int    `yaml:"max_history" toml:"max_history"`
	Color              string `yaml:"color" toml:"color"`
	Verbose            bool   `yaml:"verbose" toml:"verbose"`
	Debug              bool   `yaml:"debug" toml:"debug"`

	// MinVersion is a semver constraint the running binary must satisfy.
	MinVersion string `yaml:"min_version" toml:"min_version"`

	// ConfigFile is the path the configuration was read from, if any.
	ConfigFile string `yaml:"-" toml:"-"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Prompt:             "sonar> ",
		ContinuationPrompt: "... ",
		MaxHistory:         1000,
		Color:              ColorAuto,
	}
}

// LoadConfig loads configuration from configPath. The format follows the
// extension: .toml files are TOML, everything else YAML. An empty path
// searches DefaultConfigFiles in the working directory. A missing file yields
// the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		for _, candidate := range DefaultConfigFiles {
			if _, err := os.Stat(candidate); err == nil {
				configPath = candidate
				break
			}
		}
		if configPath == "" {
			return config, nil
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := decodeConfig(configPath, data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	config.ConfigFile = configPath

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func decodeConfig(path string, data []byte, config *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.Decode(string(data), config)
		return err
	default:
		return yaml.Unmarshal(data, config)
	}
}

// Validate checks field values and the min_version constraint.
func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q: want auto, always, or never", c.Color)
	}
	if c.MaxHistory < 0 {
		return fmt.Errorf("max_history must not be negative, got %d", c.MaxHistory)
	}
	return CheckVersion(Version, c.MinVersion)
}
