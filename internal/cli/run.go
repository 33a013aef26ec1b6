package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/scrollguard/internal/config"
	"github.com/roach88/scrollguard/internal/device"
	"github.com/roach88/scrollguard/internal/logging"
	"github.com/roach88/scrollguard/internal/router"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Device string

	// SessionIDs allows overriding the session id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	SessionIDs logging.SessionIDGenerator

	// Privileged allows overriding the root check (for testing).
	// If nil, defaults to device.IsPrivileged.
	Privileged func() bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Grab a mouse and debounce its scroll wheel",
		Long: `Grab a mouse and debounce its scroll wheel.

The device comes from --device, the [device] section of the config file,
or an interactive choice when several mice are present. The mouse is held
exclusively until scrollguard exits; its events reappear on a virtual
device named "Virtual <mouse name>".

Exit codes:
  0 - Stopped by SIGINT/SIGTERM
  1 - The mouse or the virtual device failed while running
  2 - Startup error (config, device selection, permissions)

Examples:
  scrollguard run
  scrollguard run -d 2
  scrollguard run -d /dev/input/by-id/usb-Logitech_USB_Receiver-if02-event-mouse
  scrollguard run -c ./scrollguard.toml --log-level debug`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(opts, cmd)
		},
	}

	addDeviceFlag(cmd, opts)
	return cmd
}

func addDeviceFlag(cmd *cobra.Command, opts *RunOptions) {
	cmd.Flags().StringVarP(&opts.Device, "device", "d", "", "device id from 'scrollguard list' or /dev/input path")
}

func runDaemon(opts *RunOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	if opts.Device != "" {
		cfg.Device.Path = strings.TrimSpace(opts.Device)
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "configure logging", err)
	}
	sessions := opts.SessionIDs
	if sessions == nil {
		sessions = logging.UUIDv7Generator{}
	}
	logger = logger.With("session", sessions.Generate())
	slog.SetDefault(logger)
	logger.Info("scrollguard starting", "version", Version, "config", cfg)

	privileged := opts.Privileged
	if privileged == nil {
		privileged = device.IsPrivileged
	}
	if !privileged() {
		logger.Warn("not running as root; the input group must be able to read /dev/input and write /dev/uinput")
	}

	devs := opts.devices()
	info, err := resolveDevice(opts.RootOptions, cfg, cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, "select device", err)
	}

	src, err := devs.OpenSource(info.Path)
	if err != nil {
		return WrapExitError(ExitCommandError, "open source device", err)
	}
	defer closeLogged(logger, "source device", src)

	virtualName := device.VirtualName(src.Name())
	sink, err := devs.CreateSink(virtualName, src.Capabilities())
	if err != nil {
		return WrapExitError(ExitCommandError, "create virtual device", err)
	}
	// Deferred after the source, so the virtual device goes first.
	defer closeLogged(logger, "virtual device", sink)

	r, err := router.New(src, sink, cfg.Debounce(), router.WithLogger(logger))
	if err != nil {
		return WrapExitError(ExitCommandError, "configure router", err)
	}

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, stopping after the next event", "signal", sig)
			cancel()
		case <-ctx.Done():
			return
		}
		select {
		case sig := <-sigChan:
			// The kernel drops the grab and the virtual device with the process.
			logger.Warn("received second signal, exiting now", "signal", sig)
			os.Exit(ExitFailure)
		case <-parentCtx.Done():
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Debouncing %s (%s) as %q. Press Ctrl-C to stop.\n", src.Name(), src.Path(), virtualName)

	runErr := r.Run(ctx)
	stats := r.Stats()
	logger.Info("scrollguard stopped",
		"read", stats.Read,
		"forwarded", stats.Forwarded,
		"suppressed_vertical", stats.Vertical.Suppressed,
		"suppressed_horizontal", stats.Horizontal.Suppressed,
	)

	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		return WrapExitError(ExitFailure, "event loop failed", runErr)
	}
	return nil
}

// loadConfig reads the config file and applies the logging flag overrides.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = config.NormalizeLogLevel(opts.LogLevel)
	}
	if opts.LogFormat != "" {
		cfg.Logging.Format = strings.ToLower(opts.LogFormat)
	}
	return cfg, nil
}

// resolveDevice turns the configured selection into a device. A
// /dev/input path is used as given; anything else goes through discovery.
func resolveDevice(opts *RootOptions, cfg *config.Config, cmd *cobra.Command) (device.Info, error) {
	sel := cfg.Device.Path
	if strings.HasPrefix(sel, "/dev/input/") && cfg.Device.NameFilter == "" {
		return device.Info{Path: sel}, nil
	}

	lister, err := opts.devices().Lister(cfg.Device.Backend)
	if err != nil {
		return device.Info{}, err
	}
	devs, err := lister.List()
	if err != nil {
		return device.Info{}, err
	}
	devs = device.FilterByName(devs, cfg.Device.NameFilter)

	info, err := device.Select(devs, sel)
	if errors.Is(err, device.ErrAmbiguous) {
		return promptDevice(cmd.InOrStdin(), cmd.ErrOrStderr(), devs)
	}
	return info, err
}

// promptDevice asks on in until the answer names one of devs.
func promptDevice(in io.Reader, out io.Writer, devs []device.Info) (device.Info, error) {
	fmt.Fprintln(out, "Several mice found:")
	for _, d := range devs {
		fmt.Fprintf(out, "  %s\n", d)
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "Select device [1-%d]: ", len(devs))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			if err := scanner.Err(); err != nil {
				return device.Info{}, err
			}
			return device.Info{}, fmt.Errorf("%w (no answer on stdin, use --device)", device.ErrAmbiguous)
		}
		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			continue
		}
		info, err := device.Select(devs, answer)
		if err == nil {
			return info, nil
		}
		fmt.Fprintf(out, "%v\n", err)
	}
}

func closeLogged(logger *slog.Logger, what string, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Warn("close failed", "what", what, "error", err)
	}
}
