package wheel

import (
	"fmt"
	"time"

	"github.com/roach88/scrollguard/internal/input"
)

// Default timings, matching what most bouncing encoders need.
const (
	DefaultWindow        = 50 * time.Millisecond
	DefaultScrollTimeout = 300 * time.Millisecond
)

// Config holds the debounce timings. It is fixed for the lifetime of a
// Debouncer.
type Config struct {
	// Window is the minimum time after an accepted vertical event before a
	// reversal is trusted.
	Window time.Duration

	// HWindow is Window for the horizontal wheel.
	HWindow time.Duration

	// ScrollTimeout ends a scroll burst: a gap longer than this resets the
	// axis direction.
	ScrollTimeout time.Duration
}

// DefaultConfig returns the stock timings.
func DefaultConfig() Config {
	return Config{
		Window:        DefaultWindow,
		HWindow:       DefaultWindow,
		ScrollTimeout: DefaultScrollTimeout,
	}
}

// Validate checks the ordering constraints between the timings.
func (c Config) Validate() error {
	if c.Window < 0 {
		return fmt.Errorf("debounce window must not be negative, got %s", c.Window)
	}
	if c.HWindow < 0 {
		return fmt.Errorf("horizontal debounce window must not be negative, got %s", c.HWindow)
	}
	if c.ScrollTimeout <= 0 {
		return fmt.Errorf("scroll timeout must be positive, got %s", c.ScrollTimeout)
	}
	if c.ScrollTimeout <= c.Window || c.ScrollTimeout <= c.HWindow {
		return fmt.Errorf("scroll timeout %s must exceed both debounce windows (%s, %s)",
			c.ScrollTimeout, c.Window, c.HWindow)
	}
	return nil
}

// WindowFor returns the debounce window that applies to axis.
func (c Config) WindowFor(axis input.ScrollAxis) time.Duration {
	if axis == input.ScrollHorizontal {
		return c.HWindow
	}
	return c.Window
}
