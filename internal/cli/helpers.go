package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cperrin88/linkhash/internal/logger"
	"github.com/cperrin88/linkhash/pkg/config"
)

// These variables are set by the main package.
var (
	ConfigPath   *string
	Verbose      *bool
	OutputFormat *string
)

// loadConfig loads the configuration and applies CLI flag overrides.
func loadConfig() (*config.Config, error) {
	configPath := ""
	if ConfigPath != nil {
		configPath = *ConfigPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if OutputFormat != nil && *OutputFormat != "" {
		cfg.Settings.OutputFormat = *OutputFormat
	}
	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}

	logger.Init(cfg.Settings.LogLevel)
	return cfg, nil
}

// render writes v to stdout in the requested format. Table output is left to
// the individual commands; render covers the structured formats.
func render(v interface{}, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer func() { _ = enc.Close() }()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
