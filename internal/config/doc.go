// Package config loads /etc/scrollguard.toml.
//
// The file is decoded with go-toml over the defaults, so a partial file is
// valid. Decoded values are checked against schema.cue, which closes the
// structure and encodes the range and ordering constraints between the
// debounce timings.
package config
