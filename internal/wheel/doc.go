// Package wheel implements the scroll-wheel debounce state machine.
//
// A worn encoder reports short reversals while the user scrolls steadily in
// one direction. Each scroll axis keeps the direction of its last accepted
// event; a reversal is forwarded only once the axis window has elapsed since
// that event. A gap longer than the scroll timeout starts a new burst and
// clears the remembered direction, so the first event of every burst is
// always accepted.
//
// Reversals are measured against the last accepted event. Suppressed events
// still advance the last-seen time, which keeps a burst of bounces inside
// one scroll burst.
//
// The package does no I/O and keeps no clock of its own: time comes from the
// event timestamps, which makes every decision reproducible in tests.
package wheel
