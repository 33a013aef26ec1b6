package config

import (
	"errors"
	"fmt"
)

// Error codes for configuration failures.
const (
	ErrCodeRead     = "CONFIG_READ"
	ErrCodeParse    = "CONFIG_PARSE"
	ErrCodeValidate = "CONFIG_INVALID"
	ErrCodeWrite    = "CONFIG_WRITE"
)

// Error is a configuration failure.
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err came from schema validation.
func IsValidationError(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeValidate
	}
	return false
}
