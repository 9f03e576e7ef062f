// Package config provides configuration for the linkhash CLI. It handles
// loading, validating and saving application settings from YAML files and
// provides sensible defaults when no file exists.
package config

import (
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cperrin88/linkhash/pkg/charset"
	"github.com/cperrin88/linkhash/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	Settings Settings `yaml:"settings"`
}

// Settings represents general application settings.
type Settings struct {
	// DefaultCharset is the charset assumed for URLs whose origin did not
	// declare one. Empty means UTF-8.
	DefaultCharset string `yaml:"default_charset,omitempty"`

	// DefaultPreference is the mirror preference assigned to inspected URLs.
	DefaultPreference float64 `yaml:"default_preference"`

	// Output settings
	OutputFormat string `yaml:"output_format"` // json, table, yaml
	LogLevel     string `yaml:"log_level"`     // error, warn, info, debug
}

// Default configuration values.
const (
	DefaultPreference  = 100
	DefaultOutput      = "table"
	DefaultLogLevel    = "info"
	configFilePerm     = 0o600
	configDirPerm      = 0o755
	defaultConfigName  = "config.yaml"
	defaultConfigAppID = "linkhash"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{
			DefaultPreference: DefaultPreference,
			OutputFormat:      DefaultOutput,
			LogLevel:          DefaultLogLevel,
		},
	}
}

// GetDefaultConfigPath returns the platform config file location.
func GetDefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to determine user config dir")
	}
	return filepath.Join(dir, defaultConfigAppID, defaultConfigName), nil
}

// LoadConfig loads configuration from a file. A missing file yields the
// default configuration.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = GetDefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig saves configuration to a file, creating parent directories as
// needed. The write goes through a temp file and rename.
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.MkdirAll(filepath.Dir(path), configDirPerm); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, configFilePerm); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	if err := os.Rename(tempPath, path); err != nil {
		return errors.Wrap(err, "failed to rename temporary config file")
	}
	return nil
}

// Validate checks configuration values.
func (c *Config) Validate() error {
	switch c.Settings.OutputFormat {
	case "json", "yaml", "table":
	default:
		return errors.Wrapf(errors.ErrConfigValidation,
			"output_format %q, must be one of: json, yaml, table", c.Settings.OutputFormat)
	}

	switch c.Settings.LogLevel {
	case "error", "warn", "warning", "info", "debug":
	default:
		return errors.Wrapf(errors.ErrConfigValidation,
			"log_level %q, must be one of: error, warn, info, debug", c.Settings.LogLevel)
	}

	if c.Settings.DefaultPreference < 0 {
		return errors.Wrapf(errors.ErrConfigValidation,
			"default_preference must not be negative, got %v", c.Settings.DefaultPreference)
	}

	if cs := c.Settings.DefaultCharset; cs != "" && !charset.Supported(cs) {
		return errors.Wrapf(errors.ErrConfigValidation, "unknown default_charset %q", cs)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Settings.DefaultPreference == 0 {
		c.Settings.DefaultPreference = DefaultPreference
	}
	if c.Settings.OutputFormat == "" {
		c.Settings.OutputFormat = DefaultOutput
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = DefaultLogLevel
	}
}
