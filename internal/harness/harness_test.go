package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scrollguard/internal/input"
	"github.com/roach88/scrollguard/internal/wheel"
)

func TestGoldenScenarios(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(file)
			require.NoError(t, err)
			assert.Equal(t, name, scenario.Name, "scenario name must match its file name")

			result, err := RunWithGolden(t, scenario, wheel.DefaultConfig())
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_ReplayIsDeterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/hires.yaml")
	require.NoError(t, err)

	first, err := Run(scenario, wheel.DefaultConfig())
	require.NoError(t, err)
	second, err := Run(scenario, wheel.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, first.Render(), second.Render())
	assert.Equal(t, first.Output, second.Output)
}

func TestRun_OutputKeepsOrderAndTimes(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/passthrough.yaml")
	require.NoError(t, err)
	events, err := scenario.InputEvents()
	require.NoError(t, err)

	result, err := Run(scenario, wheel.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, events, result.Output)
}

func TestRun_ExpectMismatchFails(t *testing.T) {
	scenario := &Scenario{
		Name: "mismatch",
		Events: []EventStep{
			{AtMS: 0, Type: "REL", Code: "REL_WHEEL", Value: 1},
			{AtMS: 10, Type: "REL", Code: "REL_WHEEL", Value: -1},
		},
		Expect: []int{1, -1},
	}

	result, err := Run(scenario, wheel.DefaultConfig())
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected directions [1 -1], got [1]")
	assert.Contains(t, result.Render(), "result: fail\nerror: expected directions")
}

func TestRun_AssertionFailureIncludesTrace(t *testing.T) {
	scenario := &Scenario{
		Name: "assert",
		Events: []EventStep{
			{AtMS: 0, Type: "REL", Code: "REL_WHEEL", Value: 1},
		},
		Assertions: []Assertion{{Type: AssertSuppressed, Axis: "vertical", Count: 1}},
	}

	result, err := Run(scenario, wheel.DefaultConfig())
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Assertion failed: suppressed vertical")
	assert.Contains(t, result.Errors[0], "Expected: 1")
	assert.Contains(t, result.Errors[0], "0ms REL REL_WHEEL 1 accept new_burst")
}

func TestRun_BaseTimingsApply(t *testing.T) {
	scenario := &Scenario{
		Name: "zero-window",
		Events: []EventStep{
			{AtMS: 0, Type: "REL", Code: "REL_WHEEL", Value: 1},
			{AtMS: 1, Type: "REL", Code: "REL_WHEEL", Value: -1},
		},
	}
	base := wheel.DefaultConfig()
	base.Window = 0

	result, err := Run(scenario, base)
	require.NoError(t, err)
	assert.Equal(t, []int{1, -1}, result.Directions())
	assert.Equal(t, int64(0), result.Timings.Window)
}

func TestRun_InvalidTimings(t *testing.T) {
	timeout := 10
	scenario := &Scenario{
		Name:   "bad",
		Wheel:  &Timings{DebounceTimeoutMS: &timeout},
		Events: []EventStep{{Type: "SYN", Code: "SYN_REPORT"}},
	}
	_, err := Run(scenario, wheel.DefaultConfig())
	assert.Error(t, err)
}

func TestScenarioTimingsOverride(t *testing.T) {
	window := 20
	s := &Scenario{Wheel: &Timings{DebounceTimeMS: &window}}
	got := s.Timings(wheel.DefaultConfig())
	assert.Equal(t, 20*time.Millisecond, got.Window)
	assert.Equal(t, wheel.DefaultWindow, got.HWindow)
	assert.Equal(t, wheel.DefaultScrollTimeout, got.ScrollTimeout)

	assert.Equal(t, wheel.DefaultConfig(), (&Scenario{}).Timings(wheel.DefaultConfig()))
}

func TestInputEventsParsesNamesAndNumbers(t *testing.T) {
	s := &Scenario{Events: []EventStep{
		{AtMS: 3, Type: "EV_REL", Code: "rel_hwheel_hi_res", Value: -120},
		{AtMS: 4, Type: "2", Code: "0x08", Value: 1},
	}}
	events, err := s.InputEvents()
	require.NoError(t, err)
	assert.Equal(t, []input.Event{
		{Time: 3 * time.Millisecond, Type: input.EvRel, Code: input.RelHWheelHiRes, Value: -120},
		{Time: 4 * time.Millisecond, Type: input.EvRel, Code: input.RelWheel, Value: 1},
	}, events)
}

func TestParseScenario_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"unknown field", "name: x\nevent: []\n", "field event not found"},
		{"no name", "events:\n  - {at_ms: 0, type: SYN, code: SYN_REPORT}\n", "name is required"},
		{"no events", "name: x\n", "events list is required"},
		{"time goes back", "name: x\nevents:\n  - {at_ms: 5, type: SYN, code: SYN_REPORT}\n  - {at_ms: 4, type: SYN, code: SYN_REPORT}\n", "before the previous event"},
		{"bad type", "name: x\nevents:\n  - {at_ms: 0, type: WHEEL, code: REL_WHEEL}\n", "unknown event type"},
		{"bad code", "name: x\nevents:\n  - {at_ms: 0, type: REL, code: REL_SCROLL}\n", "unknown REL code"},
		{"bad direction", "name: x\nevents:\n  - {at_ms: 0, type: SYN, code: SYN_REPORT}\nexpect: [2]\n", "direction must be 1 or -1"},
		{"bad assertion", "name: x\nevents:\n  - {at_ms: 0, type: SYN, code: SYN_REPORT}\nassertions:\n  - {type: dropped, count: 1}\n", "unknown assertion type"},
		{"bad axis", "name: x\nevents:\n  - {at_ms: 0, type: SYN, code: SYN_REPORT}\nassertions:\n  - {type: suppressed, axis: diagonal, count: 1}\n", "unknown axis"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read scenario file")
}

func TestFindScenarios(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0o755))

	files, err := FindScenarios(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yml"), filepath.Join(dir, "b.yaml")}, files)

	single, err := FindScenarios(files[0])
	require.NoError(t, err)
	assert.Equal(t, files[:1], single)

	_, err = FindScenarios(filepath.Join(dir, "missing"))
	var nf *ScenarioNotFoundError
	assert.ErrorAs(t, err, &nf)

	_, err = FindScenarios(t.TempDir())
	assert.ErrorContains(t, err, "no scenario files")
}
