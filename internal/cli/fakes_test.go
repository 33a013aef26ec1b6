package cli

import (
	"errors"

	"github.com/roach88/scrollguard/internal/device"
	"github.com/roach88/scrollguard/internal/input"
	"github.com/roach88/scrollguard/internal/testutil"
)

var errUdevFake = errors.New("udev discovery not compiled in")

type fakeLister struct {
	devs []device.Info
	err  error
}

func (l fakeLister) List() ([]device.Info, error) {
	return append([]device.Info(nil), l.devs...), l.err
}

type fakeSource struct {
	*testutil.ScriptedSource
	path   string
	name   string
	closed bool
}

func (s *fakeSource) Path() string                     { return s.path }
func (s *fakeSource) Name() string                     { return s.name }
func (s *fakeSource) Capabilities() input.Capabilities { return input.MouseBaseline() }
func (s *fakeSource) Close() error                     { s.closed = true; return nil }

type fakeSink struct {
	*testutil.RecordingSink
	closed bool
}

func (s *fakeSink) Close() error { s.closed = true; return nil }

// fakeDevices serves one scripted mouse and records what the command asked for.
type fakeDevices struct {
	devs    []device.Info
	src     *fakeSource
	sink    *fakeSink
	openErr error
	sinkErr error

	backend  string
	opened   string
	sinkName string
}

func newFakeDevices(events ...input.Event) *fakeDevices {
	return &fakeDevices{
		devs: []device.Info{
			{ID: 1, Path: "/dev/input/event3", Name: "Logitech USB Receiver"},
			{ID: 2, Path: "/dev/input/event7", Name: "Razer DeathAdder"},
		},
		src: &fakeSource{
			ScriptedSource: testutil.NewScriptedSource(events...),
			name:           "Logitech USB Receiver",
		},
		sink: &fakeSink{RecordingSink: testutil.NewRecordingSink()},
	}
}

func (f *fakeDevices) Lister(backend string) (device.Lister, error) {
	f.backend = backend
	if backend == "udev" {
		return nil, errUdevFake
	}
	return fakeLister{devs: f.devs}, nil
}

func (f *fakeDevices) OpenSource(path string) (SourceDevice, error) {
	f.opened = path
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.src.path = path
	return f.src, nil
}

func (f *fakeDevices) CreateSink(name string, caps input.Capabilities) (SinkDevice, error) {
	f.sinkName = name
	if f.sinkErr != nil {
		return nil, f.sinkErr
	}
	return f.sink, nil
}
