package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Validation errors: terminal, reported synchronously, no partial result
	ErrValidation       = errors.New("invalid bias input")
	ErrTooFewTrials     = fmt.Errorf("%w: must have at least 2 appointments", ErrValidation)
	ErrExpectedTooSmall = fmt.Errorf("%w: must have at least 1 expected appointment", ErrValidation)
	ErrExpectedTooLarge = fmt.Errorf("%w: expected must be less than total", ErrValidation)
	ErrActualTooLarge   = fmt.Errorf("%w: actual must not exceed total", ErrValidation)

	// Resource errors
	ErrTrialsExceedLimit = fmt.Errorf("%w: total exceeds the supported maximum", ErrValidation)
)

// NewValidationError wraps a field-level constraint failure
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: validation failed for %s: %s", ErrValidation, field, reason)
}

// IsValidationError reports whether err is an input validation failure
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
