package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/roach88/scrollguard/internal/device"
	"github.com/roach88/scrollguard/internal/input"
	"github.com/roach88/scrollguard/internal/logging"
	"github.com/roach88/scrollguard/internal/wheel"
)

// Source delivers events in arrival order. Next blocks until an event is
// available.
type Source interface {
	Next() (input.Event, error)
}

// Sink accepts events for re-emission.
type Sink interface {
	Emit(ev input.Event) error
}

// DecisionFunc observes every wheel decision after it is made.
type DecisionFunc func(ev input.Event, v wheel.Verdict)

// State is the lifecycle position of a Router.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateDraining
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Router is the single-writer read, decide, write loop.
//
// Run must be called from exactly one goroutine. State and Stats may be
// read from any goroutine.
//
// INVARIANTS:
//   - output order equals input order minus suppressed events
//   - non-wheel events and SYN markers are forwarded unchanged
//   - each scroll axis is decided by its own Debouncer
type Router struct {
	src    Source
	sink   Sink
	logger *slog.Logger

	// owners resolves a scroll axis to the debouncer that owns its state;
	// legacy and hi-res codes of one direction share an entry.
	owners [input.ScrollAxisCount]*wheel.Debouncer

	onDecision DecisionFunc

	state atomic.Int32
	stats counters
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		r.logger = l
	}
}

// WithDecisionFunc registers an observer called for every wheel event.
func WithDecisionFunc(fn DecisionFunc) Option {
	return func(r *Router) {
		r.onDecision = fn
	}
}

// New wires src to sink through one debouncer per scroll axis.
func New(src Source, sink Sink, cfg wheel.Config, opts ...Option) (*Router, error) {
	if src == nil || sink == nil {
		return nil, errors.New("router needs both a source and a sink")
	}

	r := &Router{
		src:    src,
		sink:   sink,
		logger: slog.Default(),
	}
	for _, axis := range []input.ScrollAxis{input.ScrollVertical, input.ScrollHorizontal} {
		d, err := wheel.New(axis, cfg)
		if err != nil {
			return nil, fmt.Errorf("configure %s debouncer: %w", axis, err)
		}
		r.owners[axis] = d
	}

	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// State returns the current lifecycle state.
func (r *Router) State() State {
	return State(r.state.Load())
}

// Stats returns a snapshot of the event counters.
func (r *Router) Stats() Stats {
	return r.stats.snapshot()
}

// Debouncer returns the debouncer owning axis, or nil for ScrollNone.
func (r *Router) Debouncer(axis input.ScrollAxis) *wheel.Debouncer {
	if int(axis) >= len(r.owners) {
		return nil
	}
	return r.owners[axis]
}

// Run moves events from the source to the sink until ctx is cancelled or
// either endpoint fails.
//
// Cancellation is observed between events: an event already read is always
// decided and written. Run returns ctx.Err() after a cancellation, a
// READ_FAILURE device error when the source fails, and the sink's error
// unchanged when a write fails.
func (r *Router) Run(ctx context.Context) error {
	if !r.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return fmt.Errorf("router already %s", r.State())
	}
	defer r.state.Store(int32(StateStopped))

	r.logger.Info("router starting",
		"v_window", r.owners[input.ScrollVertical].Window(),
		"h_window", r.owners[input.ScrollHorizontal].Window(),
	)

	for {
		if err := ctx.Err(); err != nil {
			r.drain("context cancelled")
			return err
		}

		ev, err := r.src.Next()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				r.drain("source closed during shutdown")
				return ctxErr
			}
			r.logger.Error("source read failed", "error", err)
			return readFailure(err)
		}

		if err := r.route(ev); err != nil {
			r.logger.Error("sink write failed", "event", ev.String(), "error", err)
			return err
		}
	}
}

// route handles one event. Called only from the Run goroutine.
func (r *Router) route(ev input.Event) error {
	r.stats.read.Add(1)
	r.logger.Log(context.Background(), logging.LevelTrace, "event",
		"time", ev.Time,
		"type", input.TypeName(ev.Type),
		"code", input.CodeName(ev.Type, ev.Code),
		"value", ev.Value,
	)

	axis := input.Classify(ev).Scroll()
	if owner := r.owners[axis]; owner != nil {
		v := owner.Explain(ev)
		if r.onDecision != nil {
			r.onDecision(ev, v)
		}
		r.logger.Debug("wheel decision",
			"axis", axis.String(),
			"code", input.CodeName(ev.Type, ev.Code),
			"value", ev.Value,
			"decision", v.Decision.String(),
			"reason", string(v.Reason),
			"since_accepted", v.SinceAccepted,
		)
		if v.Decision == wheel.Suppress {
			r.stats.suppressed[axis].Add(1)
			return nil
		}
		r.stats.wheelForwarded[axis].Add(1)
	}

	if err := r.sink.Emit(ev); err != nil {
		return err
	}
	r.stats.forwarded.Add(1)
	return nil
}

func (r *Router) drain(reason string) {
	r.state.Store(int32(StateDraining))
	s := r.stats.snapshot()
	r.logger.Info("router stopping",
		"reason", reason,
		"read", s.Read,
		"forwarded", s.Forwarded,
		"suppressed", s.SuppressedTotal(),
	)
}

func readFailure(err error) error {
	var de *device.Error
	if errors.As(err, &de) && de.Kind == device.KindReadFailure {
		return err
	}
	return &device.Error{Kind: device.KindReadFailure, Op: "read", Err: err}
}
