// Package kernel implements the floating-point statistics and smoothing
// kernels shared by the S+C finder and the DataCube filter operations.
//
// Every operation is generic over the two on-disk floating-point widths
// (float32, float64) and is generated from a single implementation so the
// two precisions stay bit-compatible wherever their rounding is defined.
package kernel

import (
	"math"
	"sort"
)

// Float is the set of element types kernels operate on. Integer payloads
// are rejected by the caller (cube), not here.
type Float interface {
	~float32 | ~float64
}

// Range selects which side of v contributes to a statistic.
type Range int

const (
	// RangeNegative includes only finite x <= v.
	RangeNegative Range = -1
	// RangeFull includes every finite x.
	RangeFull Range = 0
	// RangePositive includes only finite x >= v.
	RangePositive Range = 1
)

// Sum returns the NaN-safe sum of data: NaN values are skipped, and if
// every value is NaN the result is NaN.
func Sum[T Float](data []T) T {
	var sum T
	seen := false
	for _, x := range data {
		if isNaN(x) {
			continue
		}
		sum += x
		seen = true
	}
	if !seen {
		return T(math.NaN())
	}
	return sum
}

// StdDevAbout computes sqrt(sum((x-v)^2)/N) over the strided sub-sequence
// {data[i*cadence]}, including only values selected by rng (NaNs are always
// excluded). Returns NaN if no value is included.
func StdDevAbout[T Float](data []T, v T, cadence int, rng Range) T {
	if cadence < 1 {
		cadence = 1
	}
	var sumSq float64
	var n int
	for i := 0; i < len(data); i += cadence {
		x := data[i]
		if isNaN(x) {
			continue
		}
		if !include(x, v, rng) {
			continue
		}
		d := float64(x) - float64(v)
		sumSq += d * d
		n++
	}
	if n == 0 {
		return T(math.NaN())
	}
	return T(math.Sqrt(sumSq / float64(n)))
}

func include[T Float](x, v T, rng Range) bool {
	switch rng {
	case RangeNegative:
		return x <= v
	case RangePositive:
		return x >= v
	default:
		return true
	}
}

// MAD returns the median absolute deviation of data about v, considering
// only finite entries. The selection is destructive: data is overwritten in
// place with |x-v| for its finite entries (compacted to the front) and then
// sorted. Callers that need to preserve the original payload must pass a
// copy.
//
// The compacted deviations are staged into a float64 scratch buffer,
// sorted ascending with sort.Float64s, and written back, so float32 and
// float64 payloads share the same sort implementation.
func MAD[T Float](data []T, v T) T {
	n := 0
	for _, x := range data {
		if isNaN(x) || math.IsInf(float64(x), 0) {
			continue
		}
		data[n] = T(math.Abs(float64(x) - float64(v)))
		n++
	}
	if n == 0 {
		return T(math.NaN())
	}
	sub := data[:n]
	buf := make([]float64, n)
	for i, x := range sub {
		buf[i] = float64(x)
	}
	sort.Float64s(buf)
	for i, x := range buf {
		sub[i] = T(x)
	}
	return median(sub)
}

func median[T Float](sorted []T) T {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return T((float64(sorted[n/2-1]) + float64(sorted[n/2])) / 2)
}

func isNaN[T Float](x T) bool {
	return math.IsNaN(float64(x))
}
