package engine

import (
	"errors"
	"fmt"
)

// InvariantError reports a broken engine invariant found by CheckInvariants.
type InvariantError struct {
	// Code identifies the invariant.
	Code InvariantCode

	// Lot is the capacity key of the offending lot.
	Lot int

	// Message is a human-readable description.
	Message string
}

// InvariantCode categorizes invariant violations.
type InvariantCode string

const (
	// ErrCodeLimitExceeded indicates a lot holds more trucks than its limit.
	ErrCodeLimitExceeded InvariantCode = "LIMIT_EXCEEDED"

	// ErrCodeIndexMismatch indicates the all index and the registry disagree.
	ErrCodeIndexMismatch InvariantCode = "INDEX_MISMATCH"

	// ErrCodeMissingHint indicates a hint index lacks a lot whose predicate holds.
	ErrCodeMissingHint InvariantCode = "MISSING_HINT"
)

// Error implements the error interface.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s (lot=%d)", e.Code, e.Message, e.Lot)
}

// IsInvariantError returns true if err (or any error it wraps) is an
// InvariantError with the given code.
func IsInvariantError(err error, code InvariantCode) bool {
	var ie *InvariantError
	if errors.As(err, &ie) {
		return ie.Code == code
	}
	return false
}
