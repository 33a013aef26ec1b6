// Package input models Linux input events as read from and written to
// evdev and uinput nodes.
//
// Routing decisions never use dynamic type checks: an event's Axis is
// resolved once through a fixed table keyed by (type, code), and every
// wheel axis maps to exactly one ScrollAxis so hi-res and legacy wheel
// codes share debounce state.
package input
