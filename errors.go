package scfind

import (
	"errors"

	"github.com/mrjoshuak/go-scfind/internal/scferr"
)

// Error kinds, re-exported from internal/scferr so callers never need to
// import the internal package to match on errors.As/errors.Is.
type (
	// Kind classifies why a pipeline operation failed.
	Kind = scferr.Kind
	// Error wraps an underlying cause with a Kind.
	Error = scferr.Error
)

const (
	KindUserInput  = scferr.KindUserInput
	KindIndexRange = scferr.KindIndexRange
	KindKeyMissing = scferr.KindKeyMissing
	KindFileAccess = scferr.KindFileAccess
	KindFormat     = scferr.KindFormat
	KindNoMemory   = scferr.KindNoMemory
	KindNullPtr    = scferr.KindNullPtr
)

// ErrNoSources is returned by Run when the S+C finder and linker complete
// cleanly but no source survives filtering. Callers distinguish it from a
// real failure with errors.Is.
var ErrNoSources = errors.New("scfind: no sources found")
