package device

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"
	"unicode/utf8"

	"golang.org/x/sys/unix"

	"github.com/roach88/scrollguard/internal/input"
)

// UinputPath is the uinput control node.
const UinputPath = "/dev/uinput"

// uinput ioctls and limits from linux/uinput.h.
const (
	uinputMaxNameSize = 80
	absSize           = 64
	busVirtual        = 0x06

	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	uiSetRelBit  = 0x40045566
	uiSetMscBit  = 0x40045568
	uiSetLedBit  = 0x40045569
	uiSetSndBit  = 0x4004556a
	uiSetSwBit   = 0x4004556d
)

// codeBitRequests lists, per mirrorable type, the ioctl that declares its
// codes. Types mapped to zero only need their event bit.
var codeBitRequests = map[uint16]uint{
	input.EvSyn: 0,
	input.EvRep: 0,
	input.EvKey: uiSetKeyBit,
	input.EvRel: uiSetRelBit,
	input.EvMsc: uiSetMscBit,
	input.EvLed: uiSetLedBit,
	input.EvSnd: uiSetSndBit,
	input.EvSw:  uiSetSwBit,
}

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

type uinputUserDev struct {
	Name       [uinputMaxNameSize]byte
	ID         inputID
	EffectsMax uint32
	Absmax     [absSize]int32
	Absmin     [absSize]int32
	Absfuzz    [absSize]int32
	Absflat    [absSize]int32
}

type rawEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// Sink is a uinput virtual device. The kernel stamps emitted events, so
// event times are not forwarded.
type Sink struct {
	fd   int
	name string
	caps input.Capabilities
	buf  bytes.Buffer

	closeOnce sync.Once
	closeErr  error
}

// CreateSink registers a virtual device declaring caps plus the baseline
// mouse set. The device is visible to the system when CreateSink returns.
func CreateSink(name string, caps input.Capabilities) (*Sink, error) {
	declared := caps.Union(input.MouseBaseline())
	if err := checkMirrorable(declared); err != nil {
		return nil, err
	}

	fd, err := unix.Open(UinputPath, unix.O_WRONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &Error{Kind: KindSinkCreationDenied, Op: "open", Path: UinputPath, Err: err}
	}

	s := &Sink{fd: fd, name: name, caps: declared}
	if err := s.register(); err != nil {
		unix.Close(fd)
		return nil, err
	}

	slog.Info("virtual device created", "name", name, "types", len(declared))
	return s, nil
}

// Name returns the virtual device name.
func (s *Sink) Name() string {
	return s.name
}

// Capabilities returns the declared capability set.
func (s *Sink) Capabilities() input.Capabilities {
	return s.caps
}

// Emit writes one event to the virtual device.
func (s *Sink) Emit(ev input.Event) error {
	if !s.caps.HasType(ev.Type) {
		return &Error{
			Kind: KindUnsupportedCapability,
			Op:   "emit",
			Path: UinputPath,
			Err:  fmt.Errorf("event type %s not declared", input.TypeName(ev.Type)),
		}
	}

	s.buf.Reset()
	if err := binary.Write(&s.buf, binary.NativeEndian, rawEvent{Type: ev.Type, Code: ev.Code, Value: ev.Value}); err != nil {
		return &Error{Kind: KindWriteFailure, Op: "encode", Path: UinputPath, Err: err}
	}
	n, err := unix.Write(s.fd, s.buf.Bytes())
	if err != nil {
		return &Error{Kind: KindWriteFailure, Op: "write", Path: UinputPath, Err: err}
	}
	if n != s.buf.Len() {
		return &Error{
			Kind: KindWriteFailure,
			Op:   "write",
			Path: UinputPath,
			Err:  fmt.Errorf("short write: %d of %d bytes", n, s.buf.Len()),
		}
	}
	return nil
}

// Close destroys the virtual device. It is safe to call more than once.
func (s *Sink) Close() error {
	s.closeOnce.Do(func() {
		if err := unix.IoctlSetInt(s.fd, uiDevDestroy, 0); err != nil {
			slog.Warn("destroy virtual device failed", "name", s.name, "error", err)
		}
		s.closeErr = unix.Close(s.fd)
		s.fd = -1
		slog.Info("virtual device destroyed", "name", s.name)
	})
	return s.closeErr
}

func (s *Sink) register() error {
	for _, typ := range s.caps.Types() {
		if err := unix.IoctlSetInt(s.fd, uiSetEvBit, int(typ)); err != nil {
			return &Error{Kind: KindSinkCreationDenied, Op: "set event bit " + input.TypeName(typ), Path: UinputPath, Err: err}
		}
		req := codeBitRequests[typ]
		if req == 0 {
			continue
		}
		for _, code := range s.caps.Codes(typ) {
			if err := unix.IoctlSetInt(s.fd, req, int(code)); err != nil {
				return &Error{Kind: KindSinkCreationDenied, Op: "set code bit " + input.CodeName(typ, code), Path: UinputPath, Err: err}
			}
		}
	}

	desc, err := encodeUserDev(s.name)
	if err != nil {
		return &Error{Kind: KindSinkCreationDenied, Op: "encode description", Path: UinputPath, Err: err}
	}
	if _, err := unix.Write(s.fd, desc); err != nil {
		return &Error{Kind: KindSinkCreationDenied, Op: "write description", Path: UinputPath, Err: err}
	}
	if err := unix.IoctlSetInt(s.fd, uiDevCreate, 0); err != nil {
		return &Error{Kind: KindSinkCreationDenied, Op: "create", Path: UinputPath, Err: err}
	}
	return nil
}

// checkMirrorable rejects types a legacy uinput description cannot carry.
func checkMirrorable(caps input.Capabilities) error {
	for _, typ := range caps.Types() {
		if _, ok := codeBitRequests[typ]; !ok {
			return &Error{
				Kind: KindUnsupportedCapability,
				Op:   "create",
				Path: UinputPath,
				Err:  fmt.Errorf("cannot mirror event type %s", input.TypeName(typ)),
			}
		}
	}
	return nil
}

// encodeUserDev builds the legacy uinput_user_dev description.
func encodeUserDev(name string) ([]byte, error) {
	var dev uinputUserDev
	copy(dev.Name[:uinputMaxNameSize-1], name)
	dev.ID = inputID{Bustype: busVirtual, Version: 1}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.NativeEndian, &dev); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// VirtualName derives the virtual device name from the source name,
// clipped on a rune boundary to what uinput accepts.
func VirtualName(source string) string {
	if source == "" {
		source = "Unknown Mouse"
	}
	name := "Virtual " + source
	if len(name) <= uinputMaxNameSize-1 {
		return name
	}
	cut := uinputMaxNameSize - 1
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut]
}
