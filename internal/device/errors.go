package device

import (
	"errors"
	"fmt"
	"io/fs"

	"golang.org/x/sys/unix"
)

// ErrorKind categorizes device failures.
type ErrorKind string

const (
	// KindDeviceNotFound indicates the device node does not exist.
	KindDeviceNotFound ErrorKind = "DEVICE_NOT_FOUND"

	// KindPermissionDenied indicates the process may not open or grab the node.
	KindPermissionDenied ErrorKind = "PERMISSION_DENIED"

	// KindAlreadyGrabbed indicates another process holds the exclusive grab.
	KindAlreadyGrabbed ErrorKind = "DEVICE_ALREADY_GRABBED"

	// KindSinkCreationDenied indicates the virtual device could not be created.
	KindSinkCreationDenied ErrorKind = "SINK_CREATION_DENIED"

	// KindUnsupportedCapability indicates an event type the virtual device cannot replay.
	KindUnsupportedCapability ErrorKind = "UNSUPPORTED_CAPABILITY"

	// KindReadFailure indicates the source stopped delivering events.
	KindReadFailure ErrorKind = "READ_FAILURE"

	// KindWriteFailure indicates the virtual device rejected an event.
	KindWriteFailure ErrorKind = "WRITE_FAILURE"
)

// Error is a device failure with the operation and node that produced it.
type Error struct {
	Kind ErrorKind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s %s", e.Kind, e.Op, e.Path)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a device Error of the given kind.
// Uses errors.As to handle wrapped errors.
func IsKind(err error, kind ErrorKind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

// Selection errors returned by Select.
var (
	ErrNoDevices        = errors.New("no mouse devices found")
	ErrAmbiguous        = errors.New("several mouse devices found, select one")
	ErrInvalidSelection = errors.New("invalid device selection")
)

// classifyOpenError maps an open failure to a kind.
func classifyOpenError(op, path string, err error) *Error {
	kind := KindReadFailure
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, unix.ENODEV), errors.Is(err, unix.ENXIO):
		kind = KindDeviceNotFound
	case errors.Is(err, fs.ErrPermission), errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		kind = KindPermissionDenied
	case errors.Is(err, unix.EBUSY):
		kind = KindAlreadyGrabbed
	}
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}
