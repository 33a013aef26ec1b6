package device

import (
	"log/slog"
	"sync"
	"time"

	evdev "github.com/gvalkov/golang-evdev"
	"golang.org/x/sys/unix"

	"github.com/roach88/scrollguard/internal/input"
)

// eviocsclockid is EVIOCSCLOCKID, _IOW('E', 0xa0, int).
const eviocsclockid = 0x400445a0

// Source is an exclusively grabbed evdev node.
//
// Next blocks until the kernel delivers an event and returns events in
// arrival order. A Source must be read from a single goroutine.
type Source struct {
	dev  *evdev.InputDevice
	path string
	caps input.Capabilities

	closeOnce sync.Once
	closeErr  error
}

// OpenSource opens the node at path, switches its timestamps to the
// monotonic clock, and takes the exclusive grab.
func OpenSource(path string) (*Source, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		if dev != nil && dev.File != nil {
			dev.File.Close()
		}
		return nil, classifyOpenError("open", path, err)
	}

	if err := unix.IoctlSetPointerInt(int(dev.File.Fd()), eviocsclockid, unix.CLOCK_MONOTONIC); err != nil {
		slog.Warn("monotonic event timestamps unavailable, using wall clock",
			"path", path,
			"error", err,
		)
	}

	if err := dev.Grab(); err != nil {
		dev.File.Close()
		return nil, classifyOpenError("grab", path, err)
	}

	slog.Info("source device grabbed", "path", path, "name", dev.Name)

	return &Source{
		dev:  dev,
		path: path,
		caps: capabilitiesOf(dev),
	}, nil
}

// Path returns the device node.
func (s *Source) Path() string {
	return s.path
}

// Name returns the kernel-reported device name.
func (s *Source) Name() string {
	return s.dev.Name
}

// Capabilities returns the event codes the device declares.
func (s *Source) Capabilities() input.Capabilities {
	return s.caps
}

// Next blocks for the next event.
func (s *Source) Next() (input.Event, error) {
	raw, err := s.dev.ReadOne()
	if err != nil {
		return input.Event{}, &Error{Kind: KindReadFailure, Op: "read", Path: s.path, Err: err}
	}
	return input.Event{
		Time:  time.Duration(raw.Time.Sec)*time.Second + time.Duration(raw.Time.Usec)*time.Microsecond,
		Type:  raw.Type,
		Code:  raw.Code,
		Value: raw.Value,
	}, nil
}

// Close releases the grab, restoring normal routing, and closes the node.
// It is safe to call more than once.
func (s *Source) Close() error {
	s.closeOnce.Do(func() {
		if err := s.dev.Release(); err != nil {
			slog.Warn("release grab failed", "path", s.path, "error", err)
		}
		s.closeErr = s.dev.File.Close()
		slog.Info("source device released", "path", s.path)
	})
	return s.closeErr
}

// capabilitiesOf converts the evdev capability map.
func capabilitiesOf(dev *evdev.InputDevice) input.Capabilities {
	caps := make(input.Capabilities)
	for typ, codes := range dev.Capabilities {
		caps.AddType(uint16(typ.Type))
		for _, code := range codes {
			caps.Add(uint16(typ.Type), uint16(code.Code))
		}
	}
	return caps
}
