// Package region implements the small value containers used to pass
// sub-cube bounds and S+C kernel grids around the pipeline: a
// comma-separated integer/float list and a tagged shape-specific flag
// value, both immutable once constructed.
package region

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mrjoshuak/go-scfind/internal/scferr"
)

// Kind distinguishes the two element kinds an Array can hold.
type Kind int

const (
	// KindInt marks an Array of integers.
	KindInt Kind = iota
	// KindFloat marks an Array of floats.
	KindFloat
)

// Array is a fixed-size, typed value list parsed from a comma-separated
// string, used both for six-integer sub-cube regions and for S+C kernel
// lists of spatial FWHMs or spectral boxcar widths. No resizing after
// construction.
type Array struct {
	kind Kind
	ints []int64
	flts []float64
}

// ParseInts parses a comma-separated list of integers into an Array.
func ParseInts(s string) (*Array, error) {
	parts, err := splitTrim(s)
	if err != nil {
		return nil, err
	}
	ints := make([]int64, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, scferr.New(scferr.KindUserInput, "region.ParseInts", fmt.Errorf("element %d (%q): %w", i, p, err))
		}
		ints[i] = n
	}
	return &Array{kind: KindInt, ints: ints}, nil
}

// ParseFloats parses a comma-separated list of floats into an Array.
func ParseFloats(s string) (*Array, error) {
	parts, err := splitTrim(s)
	if err != nil {
		return nil, err
	}
	flts := make([]float64, len(parts))
	for i, p := range parts {
		x, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, scferr.New(scferr.KindUserInput, "region.ParseFloats", fmt.Errorf("element %d (%q): %w", i, p, err))
		}
		flts[i] = x
	}
	return &Array{kind: KindFloat, flts: flts}, nil
}

func splitTrim(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, scferr.New(scferr.KindUserInput, "region.parse", fmt.Errorf("empty value list"))
	}
	raw := strings.Split(s, ",")
	out := make([]string, len(raw))
	for i, p := range raw {
		out[i] = strings.TrimSpace(p)
	}
	return out, nil
}

// Size returns the number of elements in the array.
func (a *Array) Size() int {
	if a.kind == KindInt {
		return len(a.ints)
	}
	return len(a.flts)
}

// GetInt returns element i as an integer, truncating a float array.
func (a *Array) GetInt(i int) int64 {
	if a.kind == KindInt {
		return a.ints[i]
	}
	return int64(a.flts[i])
}

// GetFlt returns element i as a float, widening an int array.
func (a *Array) GetFlt(i int) float64 {
	if a.kind == KindInt {
		return float64(a.ints[i])
	}
	return a.flts[i]
}

// Bounds is a convenience six-integer sub-cube region
// [xmin,xmax,ymin,ymax,zmin,zmax], as parsed from an Array of size 6.
type Bounds struct {
	XMin, XMax, YMin, YMax, ZMin, ZMax int
}

// BoundsFromArray extracts a Bounds from a 6-element integer Array,
// requiring min <= max on every axis.
func BoundsFromArray(a *Array) (Bounds, error) {
	if a.Size() != 6 {
		return Bounds{}, scferr.New(scferr.KindUserInput, "region.BoundsFromArray", fmt.Errorf("expected 6 elements, got %d", a.Size()))
	}
	b := Bounds{
		XMin: int(a.GetInt(0)), XMax: int(a.GetInt(1)),
		YMin: int(a.GetInt(2)), YMax: int(a.GetInt(3)),
		ZMin: int(a.GetInt(4)), ZMax: int(a.GetInt(5)),
	}
	if b.XMin > b.XMax || b.YMin > b.YMax || b.ZMin > b.ZMax {
		return Bounds{}, scferr.New(scferr.KindUserInput, "region.BoundsFromArray", fmt.Errorf("min must not exceed max"))
	}
	return b, nil
}

// Clip clips b to [0, size-1] along each axis.
func (b Bounds) Clip(nx, ny, nz int) Bounds {
	clip := func(lo, hi, n int) (int, int) {
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		if lo > hi {
			lo = hi
		}
		return lo, hi
	}
	c := b
	c.XMin, c.XMax = clip(b.XMin, b.XMax, nx)
	c.YMin, c.YMax = clip(b.YMin, b.YMax, ny)
	c.ZMin, c.ZMax = clip(b.ZMin, b.ZMax, nz)
	return c
}

// Size returns the extent along each axis.
func (b Bounds) Size() (nx, ny, nz int) {
	return b.XMax - b.XMin + 1, b.YMax - b.YMin + 1, b.ZMax - b.ZMin + 1
}
