// Package apperr defines the error taxonomy shared by the registry and the
// notification workflow. Domain packages declare their sentinel errors with
// these constructors so handlers can map any failure to a status code without
// string matching.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	// KindUpdateFailed means the input was valid but the write matched nothing.
	KindUpdateFailed
	KindDeleteFailed
	KindForbidden
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUpdateFailed:
		return "update_failed"
	case KindDeleteFailed:
		return "delete_failed"
	case KindForbidden:
		return "forbidden"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Error is a classified error with a stable, enumerable reason.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

// Error joins the reason and the wrapped error, skipping the reason when the
// wrapped message already starts with it.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	inner := e.Err.Error()
	if strings.HasPrefix(inner, e.Reason+": ") {
		return inner
	}
	return fmt.Sprintf("%s: %s", e.Reason, inner)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches two *Error values on kind and reason so wrapped copies of a
// sentinel still compare equal with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Reason == t.Reason
}

func New(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

func Validation(reason string) *Error   { return New(KindValidation, reason) }
func Conflict(reason string) *Error     { return New(KindConflict, reason) }
func NotFound(reason string) *Error     { return New(KindNotFound, reason) }
func UpdateFailed(reason string) *Error { return New(KindUpdateFailed, reason) }
func DeleteFailed(reason string) *Error { return New(KindDeleteFailed, reason) }
func Forbidden(reason string) *Error    { return New(KindForbidden, reason) }

// Persistence wraps a gateway failure with the name of the operation that
// failed, e.g. Persistence("create membership", err).
func Persistence(op string, err error) *Error {
	return &Error{Kind: KindPersistence, Reason: "failed to " + op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the user-visible message for err. Persistence failures keep
// their operation prefix but hide the driver detail.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == KindPersistence {
			return e.Reason
		}
		return e.Error()
	}
	return err.Error()
}
