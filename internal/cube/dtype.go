// Package cube implements the DataCube: a value owning a FITS-style header
// and a contiguous, dtype-polymorphic payload of Nx*Ny*Nz elements. The
// payload is a tagged variant over the six on-disk numeric widths, with
// the per-width access logic generated once from generics.
package cube

import (
	"fmt"

	"github.com/mrjoshuak/go-scfind/internal/scferr"
)

// DType identifies one of the six supported on-disk numeric element types.
type DType int

const (
	I8 DType = iota
	I16
	I32
	I64
	F32
	F64
)

// Bitpix returns the FITS BITPIX value for d.
func (d DType) Bitpix() int {
	switch d {
	case I8:
		return 8
	case I16:
		return 16
	case I32:
		return 32
	case I64:
		return 64
	case F32:
		return -32
	case F64:
		return -64
	}
	return 0
}

// WordSize returns the element width in bytes for d.
func (d DType) WordSize() int {
	switch d {
	case I8:
		return 1
	case I16:
		return 2
	case I32, F32:
		return 4
	case I64, F64:
		return 8
	}
	return 0
}

// IsFloat reports whether d is one of the two floating-point widths.
func (d DType) IsFloat() bool {
	return d == F32 || d == F64
}

// DTypeFromBitpix maps a BITPIX header value to a DType, failing for any
// value outside {-64,-32,8,16,32,64}.
func DTypeFromBitpix(bitpix int64) (DType, error) {
	switch bitpix {
	case 8:
		return I8, nil
	case 16:
		return I16, nil
	case 32:
		return I32, nil
	case 64:
		return I64, nil
	case -32:
		return F32, nil
	case -64:
		return F64, nil
	default:
		return 0, scferr.New(scferr.KindFormat, "cube.DTypeFromBitpix", fmt.Errorf("unsupported BITPIX value %d", bitpix))
	}
}
