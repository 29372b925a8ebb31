// Package errs defines the closed set of error kinds used across the
// schedule pipeline. Callers classify failures with Kind checks instead of
// inspecting message text.
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies a failure category.
type Kind int

const (
	// Validation indicates a malformed or duplicate team id.
	Validation Kind = iota
	// Fetch indicates a network or transport failure reaching the source.
	Fetch
	// NotFound indicates the source does not recognize the team id.
	NotFound
	// Data indicates the upstream document is missing required structure.
	Data
	// NoGamesFound indicates zero qualifying games after filtering.
	NoGamesFound
	// InvalidSchedule indicates the season span failed the sanity check.
	InvalidSchedule
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Fetch:
		return "fetch"
	case NotFound:
		return "not_found"
	case Data:
		return "data"
	case NoGamesFound:
		return "no_games_found"
	case InvalidSchedule:
		return "invalid_schedule"
	default:
		return "unknown"
	}
}

// Error is a kinded error with an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind carrying the original cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain.
// The second return is false when the chain carries no kinded error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind reports whether the error chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
