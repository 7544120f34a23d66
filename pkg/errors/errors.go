package errors

import (
	"errors"
	"fmt"
)

// Sentinel error values used throughout the application.
var (
	// ErrInvalidParameter indicates a bad generation or filter argument.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrRenderFailed indicates the presentation layer could not produce output.
	ErrRenderFailed = errors.New("render failed")
)

// Wrap annotates err with a message while keeping it matchable via errors.Is.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
