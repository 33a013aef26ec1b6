package device

import "golang.org/x/sys/unix"

// IsPrivileged reports whether the process runs as root. Membership in the
// input group can be enough, so callers only warn on false.
func IsPrivileged() bool {
	return unix.Geteuid() == 0
}
