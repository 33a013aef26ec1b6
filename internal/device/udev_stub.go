//go:build !udev

package device

import "errors"

// ErrUdevUnavailable is returned when the binary was built without the
// udev tag (libudev is a cgo dependency).
var ErrUdevUnavailable = errors.New("udev discovery not compiled in, rebuild with -tags udev")

// UdevLister is a placeholder in builds without udev support.
type UdevLister struct{}

// List always fails in builds without udev support.
func (UdevLister) List() ([]Info, error) {
	return nil, ErrUdevUnavailable
}
