package command

import (
	"errors"
	"fmt"
)

// ErrUnknownCommand is returned by Parse for an unrecognised command name.
// It is recoverable: the line produces no output and processing continues.
var ErrUnknownCommand = errors.New("unknown command")

// ErrBlankLine is returned by Parse for a line with no fields.
var ErrBlankLine = errors.New("blank line")

// ParseErrorCode categorizes fatal parse errors.
type ParseErrorCode string

const (
	// ErrCodeMalformedNumber indicates a field is not a valid integer.
	ErrCodeMalformedNumber ParseErrorCode = "MALFORMED_NUMBER"

	// ErrCodeMissingField indicates the command has too few fields.
	ErrCodeMissingField ParseErrorCode = "MISSING_FIELD"
)

// ParseError is a fatal input error. It aborts the whole run.
type ParseError struct {
	Code    ParseErrorCode
	Command string
	Field   string
	Value   string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch e.Code {
	case ErrCodeMissingField:
		return fmt.Sprintf("%s: %s: missing field %q", e.Code, e.Command, e.Field)
	default:
		return fmt.Sprintf("%s: %s: field %q has value %q", e.Code, e.Command, e.Field, e.Value)
	}
}

// Unwrap returns the underlying conversion error, if any.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsMalformed returns true if err is (or wraps) a *ParseError.
func IsMalformed(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsUnknown returns true if err is (or wraps) ErrUnknownCommand.
func IsUnknown(err error) bool {
	return errors.Is(err, ErrUnknownCommand)
}
