package router

import (
	"sync/atomic"

	"github.com/roach88/scrollguard/internal/input"
)

// counters are written by the Run goroutine and read by Stats.
type counters struct {
	read           atomic.Uint64
	forwarded      atomic.Uint64
	wheelForwarded [input.ScrollAxisCount]atomic.Uint64
	suppressed     [input.ScrollAxisCount]atomic.Uint64
}

// AxisStats counts wheel decisions for one scroll axis.
type AxisStats struct {
	Forwarded  uint64 `json:"forwarded"`
	Suppressed uint64 `json:"suppressed"`
}

// Stats is a point-in-time copy of the router counters.
type Stats struct {
	// Read counts every event taken from the source.
	Read uint64 `json:"read"`

	// Forwarded counts every event written to the sink, wheel or not.
	Forwarded uint64 `json:"forwarded"`

	Vertical   AxisStats `json:"vertical"`
	Horizontal AxisStats `json:"horizontal"`
}

// SuppressedTotal sums suppressed events across axes.
func (s Stats) SuppressedTotal() uint64 {
	return s.Vertical.Suppressed + s.Horizontal.Suppressed
}

func (c *counters) snapshot() Stats {
	return Stats{
		Read:      c.read.Load(),
		Forwarded: c.forwarded.Load(),
		Vertical: AxisStats{
			Forwarded:  c.wheelForwarded[input.ScrollVertical].Load(),
			Suppressed: c.suppressed[input.ScrollVertical].Load(),
		},
		Horizontal: AxisStats{
			Forwarded:  c.wheelForwarded[input.ScrollHorizontal].Load(),
			Suppressed: c.suppressed[input.ScrollHorizontal].Load(),
		},
	}
}
