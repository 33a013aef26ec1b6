package input

import (
	"fmt"
	"time"
)

// Event is one kernel input event as read from a device node.
//
// Time is a monotonic offset taken from the kernel timestamp. Only
// differences between two events of the same device are meaningful.
type Event struct {
	Time  time.Duration
	Type  uint16
	Code  uint16
	Value int32
}

// Axis classifies an event for routing.
type Axis uint8

const (
	AxisOther Axis = iota
	AxisVerticalWheel
	AxisHorizontalWheel
	AxisHighResVerticalWheel
	AxisHighResHorizontalWheel
)

// ScrollAxis identifies the debounce state an axis belongs to. Hi-res and
// legacy codes of one direction share a ScrollAxis.
type ScrollAxis uint8

const (
	ScrollNone ScrollAxis = iota
	ScrollVertical
	ScrollHorizontal

	// ScrollAxisCount sizes per-axis lookup tables.
	ScrollAxisCount
)

// relAxes maps EV_REL codes to wheel axes; every other code is AxisOther.
var relAxes = [RelMax + 1]Axis{
	RelWheel:       AxisVerticalWheel,
	RelHWheel:      AxisHorizontalWheel,
	RelWheelHiRes:  AxisHighResVerticalWheel,
	RelHWheelHiRes: AxisHighResHorizontalWheel,
}

// Classify resolves the axis of an event.
func Classify(ev Event) Axis {
	if ev.Type != EvRel || ev.Code > RelMax {
		return AxisOther
	}
	return relAxes[ev.Code]
}

// IsWheel reports whether the axis is any scroll wheel axis.
func (a Axis) IsWheel() bool {
	return a != AxisOther
}

// IsHighRes reports whether the axis carries hi-res wheel values.
func (a Axis) IsHighRes() bool {
	return a == AxisHighResVerticalWheel || a == AxisHighResHorizontalWheel
}

// Scroll returns the debounce state owner for the axis.
func (a Axis) Scroll() ScrollAxis {
	switch a {
	case AxisVerticalWheel, AxisHighResVerticalWheel:
		return ScrollVertical
	case AxisHorizontalWheel, AxisHighResHorizontalWheel:
		return ScrollHorizontal
	default:
		return ScrollNone
	}
}

func (a Axis) String() string {
	switch a {
	case AxisVerticalWheel:
		return "wheel"
	case AxisHorizontalWheel:
		return "hwheel"
	case AxisHighResVerticalWheel:
		return "wheel_hi_res"
	case AxisHighResHorizontalWheel:
		return "hwheel_hi_res"
	default:
		return "other"
	}
}

func (s ScrollAxis) String() string {
	switch s {
	case ScrollVertical:
		return "vertical"
	case ScrollHorizontal:
		return "horizontal"
	default:
		return "none"
	}
}

// IsSyncReport reports whether the event closes an event group.
func (ev Event) IsSyncReport() bool {
	return ev.Type == EvSyn && ev.Code == SynReport
}

func (ev Event) String() string {
	return fmt.Sprintf("%s %s %d", TypeName(ev.Type), CodeName(ev.Type, ev.Code), ev.Value)
}
