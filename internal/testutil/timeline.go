package testutil

import (
	"time"

	"github.com/roach88/scrollguard/internal/input"
)

// Timeline builds event sequences the way a mouse reports them: one or
// more events followed by a SYN_REPORT, all stamped with the current time.
//
// Example:
//
//	tl := NewTimeline()
//	tl.At(0).Wheel(1).Syn()
//	tl.At(20).Wheel(-1).Syn() // bounce
//	events := tl.Events()
type Timeline struct {
	now    time.Duration
	events []input.Event
}

// NewTimeline starts a timeline at t=0.
func NewTimeline() *Timeline {
	return &Timeline{}
}

// At moves the clock to ms milliseconds from the start. Time never moves
// backwards; an earlier value keeps the current time.
func (t *Timeline) At(ms int) *Timeline {
	at := time.Duration(ms) * time.Millisecond
	if at > t.now {
		t.now = at
	}
	return t
}

// After advances the clock by ms milliseconds.
func (t *Timeline) After(ms int) *Timeline {
	t.now += time.Duration(ms) * time.Millisecond
	return t
}

// Add appends an arbitrary event at the current time.
func (t *Timeline) Add(typ, code uint16, value int32) *Timeline {
	t.events = append(t.events, input.Event{Time: t.now, Type: typ, Code: code, Value: value})
	return t
}

// Wheel appends a legacy vertical wheel event.
func (t *Timeline) Wheel(value int32) *Timeline {
	return t.Add(input.EvRel, input.RelWheel, value)
}

// WheelHiRes appends a hi-res vertical wheel event.
func (t *Timeline) WheelHiRes(value int32) *Timeline {
	return t.Add(input.EvRel, input.RelWheelHiRes, value)
}

// Detent appends the hi-res and legacy events one notch produces.
func (t *Timeline) Detent(dir int32) *Timeline {
	return t.WheelHiRes(dir*input.HiResPerDetent).Wheel(dir)
}

// HWheel appends a legacy horizontal wheel event.
func (t *Timeline) HWheel(value int32) *Timeline {
	return t.Add(input.EvRel, input.RelHWheel, value)
}

// Motion appends relative pointer motion.
func (t *Timeline) Motion(dx, dy int32) *Timeline {
	if dx != 0 {
		t.Add(input.EvRel, input.RelX, dx)
	}
	if dy != 0 {
		t.Add(input.EvRel, input.RelY, dy)
	}
	return t
}

// Button appends a key event for a mouse button.
func (t *Timeline) Button(code uint16, pressed bool) *Timeline {
	var v int32
	if pressed {
		v = 1
	}
	return t.Add(input.EvKey, code, v)
}

// Syn appends SYN_REPORT.
func (t *Timeline) Syn() *Timeline {
	return t.Add(input.EvSyn, input.SynReport, 0)
}

// Now returns the current time.
func (t *Timeline) Now() time.Duration {
	return t.now
}

// Events returns a copy of the built sequence.
func (t *Timeline) Events() []input.Event {
	out := make([]input.Event, len(t.events))
	copy(out, t.events)
	return out
}
