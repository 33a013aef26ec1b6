package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/scrollguard/internal/config"
	"github.com/roach88/scrollguard/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
	Format     string // "json" | "text"

	// Devices allows overriding kernel device access (for testing).
	// If nil, real evdev and uinput nodes are used.
	Devices Devices
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command. Without a subcommand it runs
// the debouncer, like `scrollguard run`.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RunOptions{})
}

func newRootCommand(runOpts *RunOptions) *cobra.Command {
	opts := &RootOptions{}
	runOpts.RootOptions = opts

	cmd := &cobra.Command{
		Use:   "scrollguard",
		Short: "Scroll wheel debouncer",
		Long: `scrollguard grabs a mouse, drops scroll wheel events that reverse
direction within a short window of the last accepted event, and replays
everything else through a virtual input device.

Without a subcommand it behaves like "scrollguard run".`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.LogLevel != "" {
				if _, err := logging.ParseLevel(opts.LogLevel); err != nil {
					return WrapExitError(ExitCommandError, "invalid --log-level", err)
				}
			}
			if opts.LogFormat != "" {
				if _, err := logging.ParseFormat(opts.LogFormat); err != nil {
					return WrapExitError(ExitCommandError, "invalid --log-format", err)
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(runOpts, cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", fmt.Sprintf("config file (default %s)", config.DefaultPath))
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override log level (error|warn|info|debug|trace)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "override log format (text|json)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	addDeviceFlag(cmd, runOpts)

	cmd.AddCommand(newRunCommand(runOpts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))
	cmd.AddCommand(NewSimulateCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// Execute runs the command line args and returns the process exit code.
// A failure the command did not report itself is written in the selected
// output format: a JSON envelope on stdout, or an error line on stderr.
func Execute(args []string, stdout, stderr io.Writer) int {
	runOpts := &RunOptions{}
	cmd := newRootCommand(runOpts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || !exitErr.Reported {
		f := &OutputFormatter{Format: runOpts.Format, Writer: stdout, ErrWriter: stderr}
		if !isValidFormat(f.Format) {
			f.Format = "text"
		}
		_ = f.Failure(err)
	}
	return GetExitCode(err)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// formatter returns the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
	}
}
