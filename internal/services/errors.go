package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput wraps every validation failure; the wrapped message
	// names the offending field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthenticated is returned when an operation needs a caller but none is known.
	ErrUnauthenticated = errors.New("authentication required")
)

func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
