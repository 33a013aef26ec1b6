package testutil

import (
	"sync"

	"github.com/roach88/scrollguard/internal/input"
)

// RecordingSink stores every emitted event in order.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type RecordingSink struct {
	mu     sync.Mutex
	events []input.Event

	// FailAfter makes Emit return Err once this many events are recorded.
	// Zero disables failures.
	FailAfter int
	Err       error
}

// NewRecordingSink creates an empty sink.
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

// Emit records ev, or fails when FailAfter is reached.
func (s *RecordingSink) Emit(ev input.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailAfter > 0 && len(s.events) >= s.FailAfter {
		return s.Err
	}
	s.events = append(s.events, ev)
	return nil
}

// Events returns a copy of the recorded events.
func (s *RecordingSink) Events() []input.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]input.Event, len(s.events))
	copy(out, s.events)
	return out
}

// WheelValues returns the values of recorded events on codes, in order.
func (s *RecordingSink) WheelValues(codes ...uint16) []int32 {
	var out []int32
	for _, ev := range s.Events() {
		if ev.Type != input.EvRel {
			continue
		}
		for _, c := range codes {
			if ev.Code == c {
				out = append(out, ev.Value)
				break
			}
		}
	}
	return out
}

// Reset discards recorded events.
func (s *RecordingSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
