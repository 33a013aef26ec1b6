package testutil

import (
	"errors"
	"sync"

	"github.com/roach88/scrollguard/internal/input"
)

// ErrScriptExhausted is returned by ScriptedSource once every event has
// been delivered and no terminal error was scripted.
var ErrScriptExhausted = errors.New("scripted source exhausted")

// ScriptedSource replays a fixed event list through router.Source.
//
// Thread-safety: Next and Delivered are safe for concurrent use via an
// internal mutex.
type ScriptedSource struct {
	mu     sync.Mutex
	events []input.Event
	pos    int

	// Err is returned after the last event instead of ErrScriptExhausted.
	Err error

	// OnExhausted runs once, just before the first end-of-script error.
	// Tests use it to cancel the router context so Run ends cleanly.
	OnExhausted func()

	exhausted bool
}

// NewScriptedSource creates a source that returns events in order.
func NewScriptedSource(events ...input.Event) *ScriptedSource {
	return &ScriptedSource{events: events}
}

// Next returns the next scripted event.
func (s *ScriptedSource) Next() (input.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pos < len(s.events) {
		ev := s.events[s.pos]
		s.pos++
		return ev, nil
	}

	if !s.exhausted {
		s.exhausted = true
		if s.OnExhausted != nil {
			s.OnExhausted()
		}
	}
	if s.Err != nil {
		return input.Event{}, s.Err
	}
	return input.Event{}, ErrScriptExhausted
}

// Delivered returns how many events Next has returned.
func (s *ScriptedSource) Delivered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}
