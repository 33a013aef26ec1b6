package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/scrollguard/internal/config"
	"github.com/roach88/scrollguard/internal/device"
)

// Exit codes.
const (
	ExitSuccess      = 0 // clean shutdown, or the command did its job
	ExitFailure      = 1 // the mouse or virtual device failed mid-run; scenarios failed
	ExitCommandError = 2 // bad flags, config, device selection, open/grab, uinput setup
)

// Codes for failures that carry no device or config code of their own.
const (
	CodeNoDevices        = "NO_DEVICES"
	CodeAmbiguousDevice  = "AMBIGUOUS_DEVICE"
	CodeInvalidSelection = "INVALID_SELECTION"
	CodeRuntimeFailure   = "RUNTIME_FAILURE"
	CodeCommandError     = "COMMAND_ERROR"
)

// ExitError carries the process exit code out of a command.
type ExitError struct {
	Code    int
	Message string
	Err     error

	// Reported is set when the command already wrote the failure to
	// stdout, so Execute must not print it again.
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit code and context to err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps err to a process exit code. Errors that are not
// ExitErrors come from cobra flag and argument parsing and count as
// command errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// ErrorCode returns the machine-readable code for err: the device error
// kind, the config error code, a selection code, or a generic one.
func ErrorCode(err error) string {
	var de *device.Error
	if errors.As(err, &de) {
		return string(de.Kind)
	}
	var ce *config.Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	switch {
	case errors.Is(err, device.ErrNoDevices):
		return CodeNoDevices
	case errors.Is(err, device.ErrAmbiguous):
		return CodeAmbiguousDevice
	case errors.Is(err, device.ErrInvalidSelection):
		return CodeInvalidSelection
	}
	if GetExitCode(err) == ExitFailure {
		return CodeRuntimeFailure
	}
	return CodeCommandError
}

// OutputFormatter writes command results as text or as a JSON envelope.
type OutputFormatter struct {
	Format string
	Writer io.Writer

	// ErrWriter receives text-mode errors and notices so stdout stays
	// clean for pipes. Falls back to Writer.
	ErrWriter io.Writer
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError describes a failure in a CLIResponse.
type CLIError struct {
	Code    string `json:"code"` // device error kind, config code or one of the Code* constants
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success writes data. Text mode prints it with fmt, so result types
// that need a layout implement fmt.Stringer.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error writes a failure with an explicit code.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	w := f.GetErrWriter()
	fmt.Fprintf(w, "Error [%s]: %s\n", code, message)
	if details != nil {
		fmt.Fprintf(w, "Details: %v\n", details)
	}
	return nil
}

// Failure writes err with the code ErrorCode derives from it.
func (f *OutputFormatter) Failure(err error) error {
	return f.Error(ErrorCode(err), err.Error(), nil)
}

// Notice prints a diagnostic line on ErrWriter.
func (f *OutputFormatter) Notice(format string, args ...any) {
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns ErrWriter, or Writer when it is unset.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
