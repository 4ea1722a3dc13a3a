// Package errors defines the sentinel errors raised by the search engine and
// an AppError wrapper that attaches a human-readable message to a sentinel
// while staying compatible with errors.Is.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNegativeID       = errors.New("negative document id")
	ErrDuplicateID      = errors.New("document id already exists")
	ErrInvalidTerm      = errors.New("invalid term")
	ErrMalformedQuery   = errors.New("malformed query")
	ErrUnknownDocument  = errors.New("unknown document")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrEmptyDocument    = errors.New("document has no indexable terms")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidPageSize  = errors.New("invalid page size")
	ErrUnknownStatus    = errors.New("unknown document status")
	ErrMalformedCommand = errors.New("malformed command")
)

// AppError pairs a sentinel error with the details of a specific failure.
type AppError struct {
	Err     error
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, message string) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: message,
	}
}

func Newf(sentinel error, format string, args ...any) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: fmt.Sprintf(format, args...),
	}
}

// Is reports whether any error in err's chain matches target. It lets callers
// import a single errors package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// ExitCode maps an error to the process exit status used by the command-line
// driver.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch {
	case errors.Is(err, ErrInvalidConfig):
		return 2
	case errors.Is(err, ErrInvalidTerm), errors.Is(err, ErrMalformedQuery):
		return 3
	case errors.Is(err, ErrNegativeID), errors.Is(err, ErrDuplicateID), errors.Is(err, ErrEmptyDocument):
		return 4
	case errors.Is(err, ErrUnknownDocument), errors.Is(err, ErrIndexOutOfRange):
		return 5
	default:
		return 1
	}
}
