package device

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	evdev "github.com/gvalkov/golang-evdev"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/scrollguard/internal/input"
)

// DefaultGlob matches every evdev node.
const DefaultGlob = "/dev/input/event*"

// Info describes one candidate device.
type Info struct {
	// ID is the 1-based position in the listing the user sees.
	ID   int    `json:"id"`
	Path string `json:"path"`
	Name string `json:"name"`
}

func (i Info) String() string {
	return fmt.Sprintf("%d. %s (%s)", i.ID, i.Name, i.Path)
}

// Lister enumerates mouse devices.
type Lister interface {
	List() ([]Info, error)
}

// NewLister returns the lister for a configured backend name.
func NewLister(backend string) (Lister, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "evdev":
		return EvdevLister{}, nil
	case "udev":
		return UdevLister{}, nil
	default:
		return nil, fmt.Errorf("unknown discovery backend %q", backend)
	}
}

// EvdevLister probes evdev nodes directly. Nodes the process cannot open
// are skipped.
type EvdevLister struct {
	Glob string
}

// List returns the mice among the nodes matching Glob.
func (l EvdevLister) List() ([]Info, error) {
	glob := l.Glob
	if glob == "" {
		glob = DefaultGlob
	}

	devs, err := evdev.ListInputDevices(glob)
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}

	var infos []Info
	for _, dev := range devs {
		if IsMouse(capabilitiesOf(dev)) {
			infos = append(infos, Info{Path: dev.Fn, Name: dev.Name})
		}
		dev.File.Close()
	}
	return number(infos), nil
}

// IsMouse reports whether caps look like a pointer with buttons and relative
// motion. Touchpads and tablets report absolute axes and are excluded.
func IsMouse(caps input.Capabilities) bool {
	return caps.Has(input.EvKey, input.BtnLeft) && caps.HasType(input.EvRel) && !caps.HasType(input.EvAbs)
}

// FilterByName keeps devices whose name contains filter, ignoring case and
// Unicode normalization differences. IDs are renumbered.
func FilterByName(devs []Info, filter string) []Info {
	needle := foldName(filter)
	if needle == "" {
		return devs
	}
	var out []Info
	for _, d := range devs {
		if strings.Contains(foldName(d.Name), needle) {
			out = append(out, d)
		}
	}
	return number(out)
}

// Select resolves a user selection against the listing: a 1-based ID, a
// device path (symlinks under /dev/input/by-id are followed), or empty to
// pick the only device.
func Select(devs []Info, sel string) (Info, error) {
	if len(devs) == 0 {
		return Info{}, ErrNoDevices
	}

	sel = strings.TrimSpace(sel)
	if sel == "" {
		if len(devs) == 1 {
			return devs[0], nil
		}
		return Info{}, ErrAmbiguous
	}

	if id, err := strconv.Atoi(sel); err == nil {
		if id < 1 || id > len(devs) {
			return Info{}, fmt.Errorf("%w: id %d out of range 1..%d", ErrInvalidSelection, id, len(devs))
		}
		return devs[id-1], nil
	}

	if strings.HasPrefix(sel, "/dev/input/") {
		target := sel
		if resolved, err := filepath.EvalSymlinks(sel); err == nil {
			target = resolved
		}
		for _, d := range devs {
			if d.Path == sel || d.Path == target {
				return d, nil
			}
		}
		return Info{}, fmt.Errorf("%w: %s is not a mouse device", ErrInvalidSelection, sel)
	}

	return Info{}, fmt.Errorf("%w: %q is neither a device id nor a /dev/input path", ErrInvalidSelection, sel)
}

func foldName(s string) string {
	return norm.NFC.String(cases.Fold().String(strings.TrimSpace(s)))
}

// number sorts devices by event node number and assigns IDs.
func number(devs []Info) []Info {
	sort.SliceStable(devs, func(i, j int) bool {
		ni, nj := eventNumber(devs[i].Path), eventNumber(devs[j].Path)
		if ni != nj {
			return ni < nj
		}
		return devs[i].Path < devs[j].Path
	})
	for i := range devs {
		devs[i].ID = i + 1
	}
	return devs
}

func eventNumber(path string) int {
	base := strings.TrimPrefix(filepath.Base(path), "event")
	n, err := strconv.Atoi(base)
	if err != nil {
		return -1
	}
	return n
}
