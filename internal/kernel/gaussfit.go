package kernel

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// GaussFitNoise estimates the noise level of the strided sub-sequence
// {data[i*cadence]} by fitting a Gaussian to a histogram of the values
// selected by rng. The fit uses the method of moments (bin centres
// weighted by bin count) via gonum/stat rather than a nonlinear
// least-squares fit, which is adequate for a noise estimate and keeps the
// estimator a single pass over the data.
func GaussFitNoise[T Float](data []T, v T, cadence int, rng Range) T {
	if cadence < 1 {
		cadence = 1
	}
	var selected []float64
	for i := 0; i < len(data); i += cadence {
		x := data[i]
		if isNaN(x) {
			continue
		}
		if !include(x, v, rng) {
			continue
		}
		selected = append(selected, float64(x))
	}
	if len(selected) == 0 {
		return T(math.NaN())
	}

	const nbins = 101
	lo, hi := selected[0], selected[0]
	for _, x := range selected {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	if hi <= lo {
		return 0
	}

	counts := make([]float64, nbins)
	centers := make([]float64, nbins)
	width := (hi - lo) / float64(nbins)
	for i := range centers {
		centers[i] = lo + (float64(i)+0.5)*width
	}
	for _, x := range selected {
		bin := int((x - lo) / width)
		if bin >= nbins {
			bin = nbins - 1
		}
		if bin < 0 {
			bin = 0
		}
		counts[bin]++
	}

	variance := stat.Variance(centers, counts)
	return T(math.Sqrt(variance))
}
