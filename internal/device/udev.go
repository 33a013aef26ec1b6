//go:build udev

package device

import (
	"fmt"
	"path/filepath"
	"strings"

	udev "github.com/jochenvg/go-udev"
)

// UdevLister asks udev for initialized nodes tagged ID_INPUT_MOUSE.
type UdevLister struct{}

// List returns the udev-classified mice.
func (UdevLister) List() ([]Info, error) {
	u := udev.Udev{}
	e := u.NewEnumerate()
	if err := e.AddMatchSubsystem("input"); err != nil {
		return nil, fmt.Errorf("udev match subsystem: %w", err)
	}
	if err := e.AddMatchProperty("ID_INPUT_MOUSE", "1"); err != nil {
		return nil, fmt.Errorf("udev match property: %w", err)
	}
	if err := e.AddMatchIsInitialized(); err != nil {
		return nil, fmt.Errorf("udev match initialized: %w", err)
	}

	devices, err := e.Devices()
	if err != nil {
		return nil, fmt.Errorf("udev enumerate: %w", err)
	}

	var infos []Info
	for _, d := range devices {
		node := d.Devnode()
		if !strings.HasPrefix(filepath.Base(node), "event") {
			continue
		}
		name := ""
		if parent := d.Parent(); parent != nil {
			name = strings.TrimSpace(parent.SysattrValue("name"))
		}
		infos = append(infos, Info{Path: node, Name: name})
	}
	return number(infos), nil
}
