package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cperrin88/linkhash/pkg/config"
	"github.com/cperrin88/linkhash/pkg/errors"
)

// NewConfigCmd creates the config command with subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  "View and initialize linkhash configuration settings",
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigInitCmd(),
	)

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE:  runConfigShow,
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file",
		Long:  "Create a configuration file with default settings",
		RunE: func(*cobra.Command, []string) error {
			return runConfigInit(force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration file")

	return cmd
}

func runConfigShow(*cobra.Command, []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format := cfg.Settings.OutputFormat
	if format == "table" {
		format = "yaml"
	}
	return render(cfg, format)
}

func runConfigInit(force bool) error {
	path := ""
	if ConfigPath != nil {
		path = *ConfigPath
	}
	if path == "" {
		var err error
		path, err = config.GetDefaultConfigPath()
		if err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil && !force {
		return errors.Wrapf(errors.ErrConfigFileExists, "%s", path)
	}

	if err := config.DefaultConfig().SaveConfig(path); err != nil {
		return err
	}
	fmt.Printf("Configuration file created at %s\n", path)
	return nil
}
