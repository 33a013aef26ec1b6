package cli

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/roach88/scrollguard/internal/config"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the configuration file",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(newConfigInitCommand(rootOpts))
	cmd.AddCommand(newConfigShowCommand(rootOpts))
	return cmd
}

// ConfigInitResult is the JSON payload of config init.
type ConfigInitResult struct {
	Path    string `json:"path"`
	Written bool   `json:"written"`
}

func (r ConfigInitResult) String() string {
	if r.Written {
		return fmt.Sprintf("Wrote default configuration to %s", r.Path)
	}
	return fmt.Sprintf("%s already exists, left unchanged", r.Path)
}

func newConfigInitCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Long: `Write the default configuration file to --config (default ` + config.DefaultPath + `).

An existing file is never overwritten.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.ConfigPath
			if path == "" {
				path = config.DefaultPath
			}
			written, err := config.WriteDefault(path)
			if err != nil {
				return WrapExitError(ExitCommandError, "write config", err)
			}
			return opts.formatter(cmd).Success(ConfigInitResult{Path: path, Written: written})
		},
	}
}

// effectiveConfig prints as TOML in text mode.
type effectiveConfig struct {
	*config.Config
}

func (c effectiveConfig) String() string {
	data, err := toml.Marshal(c.Config)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return fmt.Sprintf("# source: %s\n%s", c.Source, data)
}

func newConfigShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Print the effective configuration",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return opts.formatter(cmd).Success(cfg)
			}
			return opts.formatter(cmd).Success(effectiveConfig{cfg})
		},
	}
}
