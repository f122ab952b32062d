// Package scferr defines the typed error kinds shared across the
// source-finding pipeline, so callers can distinguish failure classes with
// errors.Is without depending on a specific package's sentinel values.
package scferr

import (
	"errors"
	"fmt"
)

// Kind classifies why a pipeline operation failed.
type Kind int

const (
	// KindUserInput marks an invalid argument shape or out-of-range value.
	KindUserInput Kind = iota
	// KindIndexRange marks a coordinate or label outside declared bounds.
	KindIndexRange
	// KindKeyMissing marks a header key that is not present.
	KindKeyMissing
	// KindFileAccess marks an open/seek/read/write/overwrite-denied failure.
	KindFileAccess
	// KindFormat marks an invalid FITS structure.
	KindFormat
	// KindNoMemory marks an allocation failure.
	KindNoMemory
	// KindNullPtr marks an internal defensive check failure; indicates a bug.
	KindNullPtr
)

// String returns a short, stable label for the kind.
func (k Kind) String() string {
	switch k {
	case KindUserInput:
		return "user input"
	case KindIndexRange:
		return "index range"
	case KindKeyMissing:
		return "key missing"
	case KindFileAccess:
		return "file access"
	case KindFormat:
		return "format"
	case KindNoMemory:
		return "no memory"
	case KindNullPtr:
		return "null pointer"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a Kind, letting callers match on the
// kind via errors.As while still seeing the original error through errors.Is
// / Unwrap.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "header.Get", "cube.Load"
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, scferr.New(scferr.KindKeyMissing, "", nil)) or more
// idiomatically compare via a sentinel constructed with New(kind, "", nil).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an *Error for the given kind, operation and cause.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Of returns the Kind carried by err, if err is (or wraps) an *Error, and
// whether one was found.
func Of(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
