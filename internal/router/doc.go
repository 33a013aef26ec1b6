// Package router implements the scrollguard event loop.
//
// ARCHITECTURE:
//
// Single-Writer Loop:
// One goroutine reads an event from the grabbed source, asks the owning
// debouncer for a decision when the event is a wheel event, and writes the
// event to the virtual sink unless it was suppressed. Nothing else touches
// the debouncers, so they need no locking.
//
// Event Flow:
//  1. Source.Next() blocks for the next kernel event
//  2. input.Classify() maps the code to a scroll axis (or none)
//  3. The axis' wheel.Debouncer accepts or suppresses
//  4. Sink.Emit() re-emits accepted and non-wheel events, SYN markers included
//
// Shutdown:
// Cancellation is checked between events. The blocking read has no
// deadline, so a cancelled Router stops once the next event arrives or the
// source is closed.
package router
