package kernel

import "math"

// Boxcar1D applies a symmetric boxcar filter of half-width radius to src,
// writing the result into dst (which may alias src). scratch must have
// length len(src)+2*radius and is used as the zero-padded working buffer;
// the caller owns it and may reuse it across calls.
//
// NaNs in src are replaced by zero in the padded buffer before filtering so
// that a NaN-free input never incurs the zero-substitution path and still
// produces bit-identical output.
func Boxcar1D[T Float](dst, src []T, radius int, scratch []T) {
	if radius <= 0 {
		copy(dst, src)
		return
	}
	n := len(src)
	want := n + 2*radius
	if len(scratch) < want {
		panic("kernel: scratch buffer too small for Boxcar1D")
	}
	pad := scratch[:want]
	for i := range pad {
		pad[i] = 0
	}
	for i, x := range src {
		if isNaN(x) {
			continue // zero-padding already in place
		}
		pad[radius+i] = x
	}

	width := T(2*radius + 1)
	var sum T
	for i := 0; i < int(width) && i < want; i++ {
		sum += pad[i]
	}
	for i := 0; i < n; i++ {
		dst[i] = sum / width
		lo := i
		hi := i + int(width)
		if hi < want {
			sum += pad[hi] - pad[lo]
		}
	}
}

// gaussianBoxcarPlan chooses the number of repeated boxcar passes n and
// their shared half-width r such that n*((2r+1)^2-1)/12 ~= sigma^2, the
// variance a chain of n boxcars of half-width r produces. sigma below 1.5
// is clamped to 1.5, the narrowest width the approximation resolves.
func gaussianBoxcarPlan(sigma float64) (n, r int) {
	if sigma < 1.5 {
		sigma = 1.5
	}
	// Fixed at 3 passes, the conventional choice for boxcar approximations
	// of a Gaussian (Wells 1986); solve n*((2r+1)^2-1)/12 = sigma^2 for r.
	n = 3
	target := 12*sigma*sigma/float64(n) + 1
	side := math.Sqrt(target)
	r = int(math.Round((side - 1) / 2))
	if r < 1 {
		r = 1
	}
	return n, r
}

// Gaussian2D approximates a 2-D separable Gaussian filter of standard
// deviation sigma on an nx-by-ny plane (x fastest-varying), by n repeated
// boxcars of half-width r applied first along rows (x), then along columns
// (y), each with zero-padded boundaries. plane is modified in place.
//
// rowScratch must have length nx+2*r and colScratch must have length
// ny+2*r, where r is the half-width chosen internally for sigma; callers
// size their scratch via GaussianScratchSizes.
func Gaussian2D[T Float](plane []T, nx, ny int, sigma float64, rowScratch, colScratch []T) {
	n, r := gaussianBoxcarPlan(sigma)
	if len(rowScratch) < nx+2*r || len(colScratch) < ny+2*r {
		panic("kernel: scratch buffer too small for Gaussian2D")
	}

	row := make([]T, nx) // temp row buffer reused per y; small relative to plane
	for pass := 0; pass < n; pass++ {
		for y := 0; y < ny; y++ {
			off := y * nx
			copy(row, plane[off:off+nx])
			Boxcar1D(plane[off:off+nx], row, r, rowScratch)
		}
	}

	col := make([]T, ny)
	colOut := make([]T, ny)
	for pass := 0; pass < n; pass++ {
		for x := 0; x < nx; x++ {
			for y := 0; y < ny; y++ {
				col[y] = plane[y*nx+x]
			}
			Boxcar1D(colOut, col, r, colScratch)
			for y := 0; y < ny; y++ {
				plane[y*nx+x] = colOut[y]
			}
		}
	}
}

// GaussianScratchSizes returns the scratch buffer lengths Gaussian2D needs
// for a given sigma and plane dimensions, so callers can preallocate.
func GaussianScratchSizes(sigma float64, nx, ny int) (rowLen, colLen int) {
	_, r := gaussianBoxcarPlan(sigma)
	return nx + 2*r, ny + 2*r
}
