package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/scrollguard/internal/input"
	"github.com/roach88/scrollguard/internal/wheel"
)

// Scenario is a scripted event stream with expectations about what the
// router lets through.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// Wheel overrides the caller's timings; absent keys keep them.
	Wheel *Timings `yaml:"wheel,omitempty"`

	// Events are replayed in order. Times must not decrease.
	Events []EventStep `yaml:"events"`

	// Expect lists the direction (+1/-1) of every forwarded non-zero wheel
	// event, all codes, in output order. Nil skips the check.
	Expect []int `yaml:"expect,omitempty"`

	// Assertions check the router counters after the run.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Timings mirror the [wheel] section of the configuration file.
type Timings struct {
	DebounceTimeMS    *int `yaml:"debounce_time_ms,omitempty"`
	HDebounceTimeMS   *int `yaml:"h_debounce_time_ms,omitempty"`
	DebounceTimeoutMS *int `yaml:"debounce_timeout_ms,omitempty"`
}

// EventStep is one scripted input event. Type and code accept the names
// printed by traces (REL, REL_WHEEL) or numbers.
type EventStep struct {
	AtMS  int    `yaml:"at_ms"`
	Type  string `yaml:"type"`
	Code  string `yaml:"code"`
	Value int32  `yaml:"value"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or fails validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// Timings returns base with the scenario's overrides applied.
func (s *Scenario) Timings(base wheel.Config) wheel.Config {
	if s.Wheel == nil {
		return base
	}
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	if s.Wheel.DebounceTimeMS != nil {
		base.Window = ms(*s.Wheel.DebounceTimeMS)
	}
	if s.Wheel.HDebounceTimeMS != nil {
		base.HWindow = ms(*s.Wheel.HDebounceTimeMS)
	}
	if s.Wheel.DebounceTimeoutMS != nil {
		base.ScrollTimeout = ms(*s.Wheel.DebounceTimeoutMS)
	}
	return base
}

// InputEvents converts the scripted steps to events.
func (s *Scenario) InputEvents() ([]input.Event, error) {
	events := make([]input.Event, 0, len(s.Events))
	for i, step := range s.Events {
		typ, err := input.ParseType(step.Type)
		if err != nil {
			return nil, fmt.Errorf("events[%d]: %w", i, err)
		}
		code, err := input.ParseCode(typ, step.Code)
		if err != nil {
			return nil, fmt.Errorf("events[%d]: %w", i, err)
		}
		events = append(events, input.Event{
			Time:  time.Duration(step.AtMS) * time.Millisecond,
			Type:  typ,
			Code:  code,
			Value: step.Value,
		})
	}
	return events, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if len(s.Events) == 0 {
		return fmt.Errorf("events list is required and must be non-empty")
	}

	last := 0
	for i, step := range s.Events {
		if step.AtMS < 0 {
			return fmt.Errorf("events[%d]: at_ms must not be negative", i)
		}
		if step.AtMS < last {
			return fmt.Errorf("events[%d]: at_ms %d is before the previous event (%d)", i, step.AtMS, last)
		}
		last = step.AtMS
		if step.Type == "" {
			return fmt.Errorf("events[%d]: type is required", i)
		}
	}
	if _, err := s.InputEvents(); err != nil {
		return err
	}

	for i, d := range s.Expect {
		if d != 1 && d != -1 {
			return fmt.Errorf("expect[%d]: direction must be 1 or -1, got %d", i, d)
		}
	}

	for i, a := range s.Assertions {
		if err := a.validate(); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}
