package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/scrollguard/internal/device"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Name    string // case-insensitive name filter
	Backend string // overrides device.backend from the config
}

// deviceList prints one numbered device per line in text mode.
type deviceList []device.Info

func (l deviceList) String() string {
	if len(l) == 0 {
		return "No mice found."
	}
	lines := make([]string, len(l))
	for i, d := range l {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List mice that can be debounced",
		Long: `List mice that can be debounced.

A mouse is an input device with a left button, relative axes and no
absolute axes. The number in front of each entry is what --device and
device.path accept.

Examples:
  scrollguard list
  scrollguard list --name logitech
  scrollguard list --backend udev --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "only list devices whose name contains this text")
	cmd.Flags().StringVar(&opts.Backend, "backend", "", "discovery backend (evdev|udev), default from config")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	backend := cfg.Device.Backend
	if opts.Backend != "" {
		backend = opts.Backend
	}
	filter := cfg.Device.NameFilter
	if opts.Name != "" {
		filter = opts.Name
	}

	lister, err := opts.devices().Lister(backend)
	if err != nil {
		return WrapExitError(ExitCommandError, "list devices", err)
	}
	devs, err := lister.List()
	if err != nil {
		return WrapExitError(ExitCommandError, "list devices", err)
	}
	devs = device.FilterByName(devs, filter)
	if devs == nil {
		devs = []device.Info{}
	}

	out := opts.formatter(cmd)
	if len(devs) == 0 && !device.IsPrivileged() {
		out.Notice("Devices the current user cannot open are not listed; try again as root.")
	}
	return out.Success(deviceList(devs))
}
