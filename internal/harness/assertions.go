package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/scrollguard/internal/router"
)

// Assertion type constants.
const (
	AssertSuppressed = "suppressed"
	AssertForwarded  = "forwarded"
	AssertRead       = "read"
)

// Assertion checks one router counter after the run.
type Assertion struct {
	// Type is suppressed, forwarded or read.
	Type string `yaml:"type"`

	// Axis narrows suppressed/forwarded to vertical or horizontal wheel
	// decisions. Empty means the total over all events.
	Axis string `yaml:"axis,omitempty"`

	Count uint64 `yaml:"count"`
}

func (a Assertion) validate() error {
	switch a.Type {
	case AssertSuppressed, AssertForwarded:
	case AssertRead:
		if a.Axis != "" {
			return fmt.Errorf("read assertions take no axis")
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	switch a.Axis {
	case "", "vertical", "horizontal":
		return nil
	default:
		return fmt.Errorf("unknown axis %q (want vertical or horizontal)", a.Axis)
	}
}

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Assertion Assertion
	Actual    uint64
	Trace     []TraceLine
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	name := e.Assertion.Type
	if e.Assertion.Axis != "" {
		name += " " + e.Assertion.Axis
	}
	fmt.Fprintf(&buf, "Assertion failed: %s\n", name)
	fmt.Fprintf(&buf, "  Expected: %d\n", e.Assertion.Count)
	fmt.Fprintf(&buf, "  Actual: %d\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, line := range e.Trace {
		fmt.Fprintf(&buf, "  %s\n", line)
	}
	return buf.String()
}

// evaluateAssertion compares one counter from stats.
func evaluateAssertion(a Assertion, stats router.Stats, trace []TraceLine) error {
	var actual uint64
	switch a.Type {
	case AssertRead:
		actual = stats.Read
	case AssertSuppressed:
		switch a.Axis {
		case "vertical":
			actual = stats.Vertical.Suppressed
		case "horizontal":
			actual = stats.Horizontal.Suppressed
		default:
			actual = stats.SuppressedTotal()
		}
	case AssertForwarded:
		switch a.Axis {
		case "vertical":
			actual = stats.Vertical.Forwarded
		case "horizontal":
			actual = stats.Horizontal.Forwarded
		default:
			actual = stats.Forwarded
		}
	}

	if actual != a.Count {
		return &AssertionError{Assertion: a, Actual: actual, Trace: trace}
	}
	return nil
}
