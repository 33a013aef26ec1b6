// Package logging builds the process slog logger from configuration.
package logging
