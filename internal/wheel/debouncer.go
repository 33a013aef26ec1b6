package wheel

import (
	"fmt"
	"time"

	"github.com/roach88/scrollguard/internal/input"
)

// Direction is the sign of a wheel movement.
type Direction int8

const (
	DirectionNone     Direction = 0
	DirectionPositive Direction = 1
	DirectionNegative Direction = -1
)

// DirectionOf returns the direction encoded in a wheel value.
func DirectionOf(value int32) Direction {
	switch {
	case value > 0:
		return DirectionPositive
	case value < 0:
		return DirectionNegative
	default:
		return DirectionNone
	}
}

func (d Direction) String() string {
	switch d {
	case DirectionPositive:
		return "+"
	case DirectionNegative:
		return "-"
	default:
		return "none"
	}
}

// Decision is the outcome for one wheel event.
type Decision uint8

const (
	Accept Decision = iota
	Suppress
)

func (d Decision) String() string {
	if d == Suppress {
		return "suppress"
	}
	return "accept"
}

// Reason explains a Decision for logging.
type Reason string

const (
	ReasonZeroValue     Reason = "zero_value"
	ReasonNewBurst      Reason = "new_burst"
	ReasonSameDirection Reason = "same_direction"
	ReasonReversal      Reason = "reversal"
	ReasonBounce        Reason = "bounce"
)

// Verdict is a Decision together with the facts that produced it.
type Verdict struct {
	Decision Decision
	Reason   Reason

	// Direction is the direction of the decided event.
	Direction Direction

	// SinceAccepted is the time since the previous accepted event on the
	// axis; zero when the event started a burst.
	SinceAccepted time.Duration
}

// AxisState is the per-axis memory of the debouncer.
type AxisState struct {
	LastAcceptedDirection Direction

	// LastAcceptedTime is the reference point for reversal windows.
	LastAcceptedTime time.Duration

	// LastEventTime advances on every non-zero event, suppressed or not,
	// and is the reference point for the scroll timeout.
	LastEventTime time.Duration

	// WithinScrollBurst is false until the axis sees its first event.
	WithinScrollBurst bool
}

// Debouncer decides accept/suppress for the wheel events of one scroll axis.
//
// A Debouncer is not safe for concurrent use; the router owns one per axis
// and calls it from its single loop goroutine.
type Debouncer struct {
	axis    input.ScrollAxis
	window  time.Duration
	timeout time.Duration
	state   AxisState
}

// New creates a Debouncer for axis using the window that applies to it.
func New(axis input.ScrollAxis, cfg Config) (*Debouncer, error) {
	if axis != input.ScrollVertical && axis != input.ScrollHorizontal {
		return nil, fmt.Errorf("debouncer needs a scroll axis, got %s", axis)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Debouncer{
		axis:    axis,
		window:  cfg.WindowFor(axis),
		timeout: cfg.ScrollTimeout,
	}, nil
}

// Axis returns the scroll axis this debouncer owns.
func (d *Debouncer) Axis() input.ScrollAxis {
	return d.axis
}

// Window returns the reversal window in effect.
func (d *Debouncer) Window() time.Duration {
	return d.window
}

// State returns a copy of the current axis state.
func (d *Debouncer) State() AxisState {
	return d.state
}

// Reset forgets all history, as if the axis had never scrolled.
func (d *Debouncer) Reset() {
	d.state = AxisState{}
}

// Decide returns whether ev should be forwarded, updating the axis state.
func (d *Debouncer) Decide(ev input.Event) Decision {
	return d.Explain(ev).Decision
}

// Explain is Decide with the reasoning attached.
func (d *Debouncer) Explain(ev input.Event) Verdict {
	dir := DirectionOf(ev.Value)
	if dir == DirectionNone {
		return Verdict{Decision: Accept, Reason: ReasonZeroValue}
	}

	s := &d.state
	if !s.WithinScrollBurst || ev.Time-s.LastEventTime > d.timeout {
		s.LastAcceptedDirection = DirectionNone
		s.WithinScrollBurst = true
		d.accept(dir, ev.Time)
		return Verdict{Decision: Accept, Reason: ReasonNewBurst, Direction: dir}
	}

	since := ev.Time - s.LastAcceptedTime
	if s.LastAcceptedDirection == DirectionNone || dir == s.LastAcceptedDirection {
		d.accept(dir, ev.Time)
		return Verdict{Decision: Accept, Reason: ReasonSameDirection, Direction: dir, SinceAccepted: since}
	}

	if since < d.window {
		s.LastEventTime = ev.Time
		return Verdict{Decision: Suppress, Reason: ReasonBounce, Direction: dir, SinceAccepted: since}
	}

	d.accept(dir, ev.Time)
	return Verdict{Decision: Accept, Reason: ReasonReversal, Direction: dir, SinceAccepted: since}
}

func (d *Debouncer) accept(dir Direction, at time.Duration) {
	d.state.LastAcceptedDirection = dir
	d.state.LastAcceptedTime = at
	d.state.LastEventTime = at
}
