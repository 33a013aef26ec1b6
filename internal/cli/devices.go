package cli

import (
	"github.com/roach88/scrollguard/internal/device"
	"github.com/roach88/scrollguard/internal/input"
	"github.com/roach88/scrollguard/internal/router"
)

// SourceDevice is a grabbed physical mouse.
type SourceDevice interface {
	router.Source
	Path() string
	Name() string
	Capabilities() input.Capabilities
	Close() error
}

// SinkDevice is a created virtual device.
type SinkDevice interface {
	router.Sink
	Close() error
}

// Devices opens the kernel endpoints the commands work with.
type Devices interface {
	Lister(backend string) (device.Lister, error)
	OpenSource(path string) (SourceDevice, error)
	CreateSink(name string, caps input.Capabilities) (SinkDevice, error)
}

type kernelDevices struct{}

func (kernelDevices) Lister(backend string) (device.Lister, error) {
	return device.NewLister(backend)
}

func (kernelDevices) OpenSource(path string) (SourceDevice, error) {
	src, err := device.OpenSource(path)
	if err != nil {
		return nil, err
	}
	return src, nil
}

func (kernelDevices) CreateSink(name string, caps input.Capabilities) (SinkDevice, error) {
	sink, err := device.CreateSink(name, caps)
	if err != nil {
		return nil, err
	}
	return sink, nil
}

func (o *RootOptions) devices() Devices {
	if o.Devices != nil {
		return o.Devices
	}
	return kernelDevices{}
}
