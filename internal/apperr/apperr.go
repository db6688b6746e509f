// Package apperr defines the error taxonomy shared by every usecase.
// Errors of these kinds are expected, recoverable-by-caller outcomes;
// anything else escaping a usecase is an internal failure.
package apperr

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindNotFound
	KindConflict
	KindNotAuthorized
	KindAlreadyProcessed
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindNotAuthorized:
		return "not_authorized"
	case KindAlreadyProcessed:
		return "already_processed"
	default:
		return "internal"
	}
}

type Error struct {
	kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Kind() Kind { return e.kind }

func New(kind Kind, msg string) error {
	return &Error{kind: kind, msg: msg}
}

func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying cause. A nil cause
// returns nil so call sites can wrap unconditionally.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, msg: msg, cause: err}
}

// Internal wraps an unexpected failure (store unreachable, constraint
// violation outside the taxonomy) with a stack trace.
func Internal(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{kind: KindInternal, msg: msg, cause: errors.WithStack(err)}
}

// KindOf reports the kind of err, walking the wrap chain. Untyped errors
// are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Convenience constructors for the common kinds.

func InvalidInput(msg string) error { return New(KindInvalidInput, msg) }

func NotFound(msg string) error { return New(KindNotFound, msg) }

func Conflict(msg string) error { return New(KindConflict, msg) }

func NotAuthorized(msg string) error { return New(KindNotAuthorized, msg) }

func AlreadyProcessed(msg string) error { return New(KindAlreadyProcessed, msg) }
