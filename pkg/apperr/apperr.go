package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error so handlers can map it to an HTTP status code
// without string matching.
type Kind int

const (
	// KindValidation marks a missing or malformed required field. Nothing was written.
	KindValidation Kind = iota + 1
	// KindNotFound marks a reference to a tier/category/profile that does not exist.
	KindNotFound
	// KindInvariantViolation marks a broken ordering invariant (expected neighbor missing).
	KindInvariantViolation
	// KindConflict marks a duplicate natural key or a lost compare-and-swap race.
	KindConflict
	// KindStore marks an opaque backend/transport failure.
	KindStore
)

// Error carries a kind alongside the message and an optional wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying error.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func InvariantViolation(format string, args ...any) *Error {
	return New(KindInvariantViolation, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, format, args...)
}

func Store(err error, format string, args ...any) *Error {
	return Wrap(KindStore, err, format, args...)
}

// KindOf returns the kind of err, or KindStore when err carries no kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStore
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
