package harness

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/scrollguard/internal/input"
	"github.com/roach88/scrollguard/internal/router"
	"github.com/roach88/scrollguard/internal/wheel"
)

// Trace actions.
const (
	ActionAccept   = "accept"
	ActionSuppress = "suppress"
	ActionForward  = "forward"
)

// TraceLine records what happened to one input event.
type TraceLine struct {
	AtMS  int64  `json:"at_ms"`
	Event string `json:"event"`

	// Action is accept or suppress for wheel events, forward otherwise.
	Action string `json:"action"`
	Reason string `json:"reason,omitempty"`

	// SinceAcceptedMS is set when the decision compared against the
	// previous accepted event.
	SinceAcceptedMS *int64 `json:"since_accepted_ms,omitempty"`
}

func (l TraceLine) String() string {
	s := fmt.Sprintf("%dms %s %s", l.AtMS, l.Event, l.Action)
	if l.Reason != "" {
		s += " " + l.Reason
	}
	if l.SinceAcceptedMS != nil {
		s += fmt.Sprintf(" since=%dms", *l.SinceAcceptedMS)
	}
	return s
}

// TimingsMS are the effective debounce timings of a run.
type TimingsMS struct {
	Window  int64 `json:"debounce_time_ms"`
	HWindow int64 `json:"h_debounce_time_ms"`
	Timeout int64 `json:"debounce_timeout_ms"`
}

func timingsOf(c wheel.Config) TimingsMS {
	return TimingsMS{
		Window:  c.Window.Milliseconds(),
		HWindow: c.HWindow.Milliseconds(),
		Timeout: c.ScrollTimeout.Milliseconds(),
	}
}

// Result is the outcome of a scenario run.
type Result struct {
	Name string `json:"name"`

	// Pass is true when the expected directions and every assertion matched.
	Pass bool `json:"pass"`

	Timings TimingsMS    `json:"timings"`
	Trace   []TraceLine  `json:"trace"`
	Stats   router.Stats `json:"stats"`

	// Output is what the sink received, in order.
	Output []input.Event `json:"-"`

	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(name string) *Result {
	return &Result{
		Name:  name,
		Pass:  true,
		Trace: []TraceLine{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Directions returns the sign of every forwarded non-zero wheel event.
func (r *Result) Directions() []int {
	var dirs []int
	for _, ev := range r.Output {
		if !input.Classify(ev).IsWheel() || ev.Value == 0 {
			continue
		}
		dirs = append(dirs, int(wheel.DirectionOf(ev.Value)))
	}
	return dirs
}

// Render formats the result as stable text, one trace line per event.
func (r *Result) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", r.Name)
	fmt.Fprintf(&b, "timings: window=%dms hwindow=%dms timeout=%dms\n",
		r.Timings.Window, r.Timings.HWindow, r.Timings.Timeout)
	for _, line := range r.Trace {
		b.WriteString(line.String())
		b.WriteByte('\n')
	}
	s := r.Stats
	fmt.Fprintf(&b, "stats: read=%d forwarded=%d suppressed=%d\n", s.Read, s.Forwarded, s.SuppressedTotal())
	fmt.Fprintf(&b, "vertical: forwarded=%d suppressed=%d\n", s.Vertical.Forwarded, s.Vertical.Suppressed)
	fmt.Fprintf(&b, "horizontal: forwarded=%d suppressed=%d\n", s.Horizontal.Forwarded, s.Horizontal.Suppressed)
	if r.Pass {
		b.WriteString("result: pass\n")
	} else {
		b.WriteString("result: fail\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "error: %s\n", e)
		}
	}
	return b.String()
}

func traceLine(ev input.Event, v *wheel.Verdict) TraceLine {
	line := TraceLine{
		AtMS:   ev.Time.Milliseconds(),
		Event:  ev.String(),
		Action: ActionForward,
	}
	if v == nil {
		return line
	}

	line.Action = ActionAccept
	if v.Decision == wheel.Suppress {
		line.Action = ActionSuppress
	}
	line.Reason = string(v.Reason)
	switch v.Reason {
	case wheel.ReasonSameDirection, wheel.ReasonReversal, wheel.ReasonBounce:
		ms := v.SinceAccepted / time.Millisecond
		since := int64(ms)
		line.SinceAcceptedMS = &since
	}
	return line
}
