package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/scrollguard/internal/input"
	"github.com/roach88/scrollguard/internal/router"
	"github.com/roach88/scrollguard/internal/testutil"
	"github.com/roach88/scrollguard/internal/wheel"
)

// Run replays a scenario through a real router with in-memory endpoints
// and returns the result.
//
// base supplies the timings the scenario does not override. opts are
// passed to router.New; logs are discarded unless a WithLogger option is
// given.
//
// Execution flow:
//  1. Convert the scripted steps to events
//  2. Build a router over a ScriptedSource and a RecordingSink
//  3. Run until the script is exhausted
//  4. Build the trace and check expectations and assertions
func Run(scenario *Scenario, base wheel.Config, opts ...router.Option) (*Result, error) {
	events, err := scenario.InputEvents()
	if err != nil {
		return nil, err
	}
	timings := scenario.Timings(base)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := testutil.NewScriptedSource(events...)
	src.OnExhausted = cancel
	sink := testutil.NewRecordingSink()

	var verdicts []wheel.Verdict
	ropts := []router.Option{router.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}
	ropts = append(ropts, opts...)
	ropts = append(ropts, router.WithDecisionFunc(func(_ input.Event, v wheel.Verdict) {
		verdicts = append(verdicts, v)
	}))

	r, err := router.New(src, sink, timings, ropts...)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult(scenario.Name)
	result.Timings = timingsOf(timings)
	result.Stats = r.Stats()
	result.Output = sink.Events()

	next := 0
	for _, ev := range events {
		if input.Classify(ev).Scroll() == input.ScrollNone || next >= len(verdicts) {
			result.Trace = append(result.Trace, traceLine(ev, nil))
			continue
		}
		result.Trace = append(result.Trace, traceLine(ev, &verdicts[next]))
		next++
	}

	if scenario.Expect != nil {
		got := result.Directions()
		if !slices.Equal(got, scenario.Expect) {
			result.AddError(fmt.Sprintf("expected directions %v, got %v", scenario.Expect, got))
		}
	}
	for _, a := range scenario.Assertions {
		if err := evaluateAssertion(a, result.Stats, result.Trace); err != nil {
			result.AddError(err.Error())
		}
	}

	return result, nil
}
