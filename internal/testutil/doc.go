// Package testutil provides in-memory endpoints and event builders for
// driving the router without kernel devices.
package testutil
