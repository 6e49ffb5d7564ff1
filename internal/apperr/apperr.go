// Package apperr defines the error taxonomy shared by every component.
//
// Components return these typed errors instead of raw store errors; the
// API layer maps each Kind to an HTTP status code in exactly one place.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport boundary.
type Kind int

const (
	// KindInternal is the fallback for anything unclassified. Surfaced to
	// callers as an opaque message; full detail stays in the server log.
	KindInternal Kind = iota

	// KindValidation covers missing or malformed input, rejected before
	// the store is touched.
	KindValidation

	// KindAuthorization covers operations on a pair the caller is not
	// matched with, or match-scoped resources accessed by a non-participant.
	KindAuthorization

	// KindQuota covers writes rejected because the per-pair message cap
	// is already reached. Reads stay allowed.
	KindQuota

	// KindNotFound covers references to users or skills that do not exist,
	// where disclosing that is safe.
	KindNotFound

	// KindUnavailable covers an unreachable persistence layer. Retryable
	// by the caller; the server never retries internally.
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindQuota:
		return "quota"
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error carries a Kind, a caller-safe message, and an optional wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a typed error with a caller-safe message.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf is New with formatting.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying cause. The cause is
// reachable via errors.Unwrap / errors.Is.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the Kind from err, walking the wrap chain.
// Unclassified errors report KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the caller-safe message for err. Unclassified errors get
// a generic message so internals never leak to the client.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Msg
	}
	return "something went wrong, please try again"
}
