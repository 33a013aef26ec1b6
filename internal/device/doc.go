// Package device owns the kernel endpoints of the pipeline: the grabbed
// evdev Source, the uinput Sink that replays the corrected stream, and
// discovery of candidate mice.
//
// Failures are reported as *Error values carrying an ErrorKind; use IsKind
// to branch on them.
package device
