package router

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scrollguard/internal/device"
	"github.com/roach88/scrollguard/internal/input"
	"github.com/roach88/scrollguard/internal/logging"
	"github.com/roach88/scrollguard/internal/testutil"
	"github.com/roach88/scrollguard/internal/wheel"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// runScript drives a router over events until the script is exhausted.
func runScript(t *testing.T, cfg wheel.Config, events []input.Event, opts ...Option) (*Router, *testutil.RecordingSink) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := testutil.NewScriptedSource(events...)
	src.OnExhausted = cancel
	sink := testutil.NewRecordingSink()

	r, err := New(src, sink, cfg, append([]Option{WithLogger(quietLogger())}, opts...)...)
	require.NoError(t, err)

	err = r.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	return r, sink
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := wheel.DefaultConfig()
	cfg.ScrollTimeout = 10 * time.Millisecond

	_, err := New(testutil.NewScriptedSource(), testutil.NewRecordingSink(), cfg)
	assert.Error(t, err)

	_, err = New(nil, testutil.NewRecordingSink(), wheel.DefaultConfig())
	assert.Error(t, err)
}

func TestRun_NonWheelPassthroughInOrder(t *testing.T) {
	tl := testutil.NewTimeline()
	tl.At(0).Motion(4, -2).Syn()
	tl.At(3).Button(input.BtnLeft, true).Add(input.EvMsc, input.MscScan, 0x90001).Syn()
	tl.At(9).Button(input.BtnLeft, false).Syn()

	in := tl.Events()
	r, sink := runScript(t, wheel.DefaultConfig(), in)

	assert.Equal(t, in, sink.Events())
	s := r.Stats()
	assert.Equal(t, uint64(len(in)), s.Read)
	assert.Equal(t, uint64(len(in)), s.Forwarded)
	assert.Zero(t, s.SuppressedTotal())
}

func TestRun_SuppressesBounceKeepsSyn(t *testing.T) {
	tl := testutil.NewTimeline()
	tl.At(0).Wheel(1).Syn()
	tl.At(10).Wheel(1).Syn()
	tl.At(20).Wheel(-1).Syn() // bounce
	tl.At(30).Wheel(1).Syn()

	r, sink := runScript(t, wheel.DefaultConfig(), tl.Events())

	assert.Equal(t, []int32{1, 1, 1}, sink.WheelValues(input.RelWheel))

	// every frame keeps its SYN_REPORT, including the emptied one
	syns := 0
	for _, ev := range sink.Events() {
		if ev.IsSyncReport() {
			syns++
		}
	}
	assert.Equal(t, 4, syns)

	s := r.Stats()
	assert.Equal(t, uint64(8), s.Read)
	assert.Equal(t, uint64(7), s.Forwarded)
	assert.Equal(t, AxisStats{Forwarded: 3, Suppressed: 1}, s.Vertical)
	assert.Equal(t, AxisStats{}, s.Horizontal)
}

func TestRun_ReferenceScenario(t *testing.T) {
	// +1@0, +1@10, -1@20, -1@100, +1@500
	tl := testutil.NewTimeline()
	tl.At(0).Wheel(1)
	tl.At(10).Wheel(1)
	tl.At(20).Wheel(-1)
	tl.At(100).Wheel(-1)
	tl.At(500).Wheel(1)

	_, sink := runScript(t, wheel.DefaultConfig(), tl.Events())
	assert.Equal(t, []int32{1, 1, -1, 1}, sink.WheelValues(input.RelWheel))
}

func TestRun_HiResSharesStateWithLegacy(t *testing.T) {
	tl := testutil.NewTimeline()
	tl.At(0).Detent(1).Syn()
	tl.At(15).Detent(-1).Syn() // both codes of the bounce are dropped
	tl.At(16).WheelHiRes(-30).Syn()
	tl.At(40).Detent(1).Syn()

	r, sink := runScript(t, wheel.DefaultConfig(), tl.Events())

	assert.Equal(t, []int32{120, 120}, sink.WheelValues(input.RelWheelHiRes))
	assert.Equal(t, []int32{1, 1}, sink.WheelValues(input.RelWheel))
	assert.Equal(t, uint64(3), r.Stats().Vertical.Suppressed)
}

func TestRun_AxesAreIndependent(t *testing.T) {
	tl := testutil.NewTimeline()
	tl.At(0).Wheel(1).Syn()
	tl.At(5).HWheel(-1).Syn() // horizontal has no history, accepted
	tl.At(10).HWheel(1).Syn() // horizontal reversal inside window
	tl.At(15).Wheel(1).Syn()

	r, sink := runScript(t, wheel.DefaultConfig(), tl.Events())

	assert.Equal(t, []int32{1, 1}, sink.WheelValues(input.RelWheel))
	assert.Equal(t, []int32{-1}, sink.WheelValues(input.RelHWheel))
	assert.Equal(t, AxisStats{Forwarded: 1, Suppressed: 1}, r.Stats().Horizontal)
	assert.Equal(t, AxisStats{Forwarded: 2}, r.Stats().Vertical)
}

func TestRun_HorizontalWindowApplies(t *testing.T) {
	cfg := wheel.DefaultConfig()
	cfg.HWindow = 0

	tl := testutil.NewTimeline()
	tl.At(0).HWheel(1)
	tl.At(1).HWheel(-1)
	tl.At(2).Wheel(1)
	tl.At(3).Wheel(-1)

	_, sink := runScript(t, cfg, tl.Events())
	assert.Equal(t, []int32{1, -1}, sink.WheelValues(input.RelHWheel))
	assert.Equal(t, []int32{1}, sink.WheelValues(input.RelWheel))
}

func TestRun_DecisionFuncSeesWheelEventsOnly(t *testing.T) {
	tl := testutil.NewTimeline()
	tl.At(0).Wheel(1).Motion(1, 1).Syn()
	tl.At(20).Wheel(-1).Syn()

	var verdicts []wheel.Verdict
	runScript(t, wheel.DefaultConfig(), tl.Events(), WithDecisionFunc(func(_ input.Event, v wheel.Verdict) {
		verdicts = append(verdicts, v)
	}))

	require.Len(t, verdicts, 2)
	assert.Equal(t, wheel.ReasonNewBurst, verdicts[0].Reason)
	assert.Equal(t, wheel.Suppress, verdicts[1].Decision)
	assert.Equal(t, 20*time.Millisecond, verdicts[1].SinceAccepted)
}

func TestRun_ReadFailureIsFatal(t *testing.T) {
	src := testutil.NewScriptedSource(input.Event{Type: input.EvRel, Code: input.RelWheel, Value: 1})
	src.Err = errors.New("no such device")
	sink := testutil.NewRecordingSink()

	r, err := New(src, sink, wheel.DefaultConfig(), WithLogger(quietLogger()))
	require.NoError(t, err)

	err = r.Run(context.Background())
	require.Error(t, err)
	assert.True(t, device.IsKind(err, device.KindReadFailure))
	assert.Contains(t, err.Error(), "no such device")
	assert.Len(t, sink.Events(), 1)
	assert.Equal(t, StateStopped, r.State())
}

func TestRun_ReadFailureKeepsDeviceError(t *testing.T) {
	orig := &device.Error{Kind: device.KindReadFailure, Op: "read", Path: "/dev/input/event5", Err: errors.New("EIO")}
	src := testutil.NewScriptedSource()
	src.Err = orig

	r, err := New(src, testutil.NewRecordingSink(), wheel.DefaultConfig(), WithLogger(quietLogger()))
	require.NoError(t, err)

	err = r.Run(context.Background())
	var de *device.Error
	require.ErrorAs(t, err, &de)
	assert.Same(t, orig, de)
}

func TestRun_WriteFailureIsFatal(t *testing.T) {
	writeErr := &device.Error{Kind: device.KindWriteFailure, Op: "write", Path: device.UinputPath, Err: errors.New("ENODEV")}

	tl := testutil.NewTimeline()
	tl.At(0).Wheel(1).Syn()
	tl.At(10).Wheel(1).Syn()

	src := testutil.NewScriptedSource(tl.Events()...)
	sink := testutil.NewRecordingSink()
	sink.FailAfter = 3
	sink.Err = writeErr

	r, err := New(src, sink, wheel.DefaultConfig(), WithLogger(quietLogger()))
	require.NoError(t, err)

	err = r.Run(context.Background())
	assert.Same(t, writeErr, err)
	assert.Equal(t, 4, src.Delivered())
	assert.Equal(t, uint64(3), r.Stats().Forwarded)
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := testutil.NewScriptedSource(input.Event{Type: input.EvSyn})
	r, err := New(src, testutil.NewRecordingSink(), wheel.DefaultConfig(), WithLogger(quietLogger()))
	require.NoError(t, err)

	assert.ErrorIs(t, r.Run(ctx), context.Canceled)
	assert.Zero(t, src.Delivered())
	assert.Equal(t, StateStopped, r.State())
}

// blockingSource delivers one event per send on ch.
type blockingSource struct {
	ch chan input.Event
}

func (b *blockingSource) Next() (input.Event, error) {
	ev, ok := <-b.ch
	if !ok {
		return input.Event{}, errors.New("closed")
	}
	return ev, nil
}

func TestRun_DrainsAfterInFlightEvent(t *testing.T) {
	src := &blockingSource{ch: make(chan input.Event)}
	sink := testutil.NewRecordingSink()
	r, err := New(src, sink, wheel.DefaultConfig(), WithLogger(quietLogger()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	src.ch <- input.Event{Type: input.EvRel, Code: input.RelWheel, Value: 1}
	require.Eventually(t, func() bool { return r.State() == StateRunning && r.Stats().Forwarded == 1 }, time.Second, time.Millisecond)

	// Run is blocked in Next; the event delivered after cancel is still routed.
	cancel()
	src.ch <- input.Event{Type: input.EvSyn, Code: input.SynReport}

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("router did not stop")
	}
	assert.Len(t, sink.Events(), 2)
	assert.Equal(t, StateStopped, r.State())
}

func TestRun_SourceClosedDuringShutdown(t *testing.T) {
	src := &blockingSource{ch: make(chan input.Event)}
	r, err := New(src, testutil.NewRecordingSink(), wheel.DefaultConfig(), WithLogger(quietLogger()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	cancel()
	close(src.ch)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, device.IsKind(err, device.KindReadFailure))
	case <-time.After(time.Second):
		t.Fatal("router did not stop")
	}
}

func TestRun_OnlyOnce(t *testing.T) {
	_, sink := runScript(t, wheel.DefaultConfig(), nil)
	assert.Empty(t, sink.Events())

	src := testutil.NewScriptedSource()
	r, err := New(src, testutil.NewRecordingSink(), wheel.DefaultConfig(), WithLogger(quietLogger()))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	src.OnExhausted = cancel
	require.ErrorIs(t, r.Run(ctx), context.Canceled)

	err = r.Run(context.Background())
	assert.ErrorContains(t, err, "already stopped")
}

func TestRun_TraceLogging(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "trace", Output: &buf})
	require.NoError(t, err)

	tl := testutil.NewTimeline()
	tl.At(0).Wheel(1).Syn()
	tl.At(20).Wheel(-1).Syn()

	runScript(t, wheel.DefaultConfig(), tl.Events(), WithLogger(logger))

	out := buf.String()
	assert.Contains(t, out, "level=TRACE")
	assert.Contains(t, out, "code=REL_WHEEL")
	assert.Contains(t, out, "decision=suppress")
	assert.Contains(t, out, "reason=bounce")
	assert.Contains(t, out, "msg=\"router stopping\"")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "draining", StateDraining.String())
	assert.Equal(t, "state(9)", State(9).String())
}
