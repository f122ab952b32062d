package kernel

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestSum(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		want float64
	}{
		{"no nan", []float64{1, 2, 3}, 6},
		{"some nan", []float64{1, math.NaN(), 3}, 4},
		{"all nan", []float64{math.NaN(), math.NaN()}, math.NaN()},
		{"empty", nil, math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sum(tt.data)
			if math.IsNaN(tt.want) {
				if !math.IsNaN(got) {
					t.Errorf("Sum() = %v, want NaN", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Sum() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStdDevAbout(t *testing.T) {
	data := []float64{-2, -1, 0, 1, 2}
	got := StdDevAbout(data, 0, 1, RangeFull)
	want := math.Sqrt((4 + 1 + 0 + 1 + 4) / 5.0)
	if !scalar.EqualWithinAbs(got, want, 1e-12) {
		t.Errorf("StdDevAbout(full) = %v, want %v", got, want)
	}

	gotNeg := StdDevAbout(data, 0, 1, RangeNegative)
	wantNeg := math.Sqrt((4 + 1 + 0) / 3.0)
	if !scalar.EqualWithinAbs(gotNeg, wantNeg, 1e-12) {
		t.Errorf("StdDevAbout(negative) = %v, want %v", gotNeg, wantNeg)
	}

	gotPos := StdDevAbout(data, 0, 1, RangePositive)
	wantPos := math.Sqrt((0 + 1 + 4) / 3.0)
	if !scalar.EqualWithinAbs(gotPos, wantPos, 1e-12) {
		t.Errorf("StdDevAbout(positive) = %v, want %v", gotPos, wantPos)
	}
}

func TestStdDevAboutCadence(t *testing.T) {
	data := []float64{0, 100, 1, 100, 2, 100}
	got := StdDevAbout(data, 0, 2, RangeFull)
	want := math.Sqrt((0 + 1 + 4) / 3.0)
	if !scalar.EqualWithinAbs(got, want, 1e-12) {
		t.Errorf("StdDevAbout(cadence=2) = %v, want %v", got, want)
	}
}

func TestStdDevAboutAllNaN(t *testing.T) {
	data := []float64{math.NaN(), math.NaN()}
	got := StdDevAbout(data, 0, 1, RangeFull)
	if !math.IsNaN(got) {
		t.Errorf("StdDevAbout(all NaN) = %v, want NaN", got)
	}
}

func TestMAD(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}
	got := MAD(data, 3)
	want := 1.0 // |1-3|,|2-3|,|3-3|,|4-3|,|5-3| = 2,1,0,1,2 -> median 1
	if got != want {
		t.Errorf("MAD() = %v, want %v", got, want)
	}
}

func TestMADIgnoresNonFinite(t *testing.T) {
	data := []float64{1, math.NaN(), 3, math.Inf(1), 5}
	got := MAD(data, 3)
	want := 2.0 // finite devs from 3: |1-3|=2, |3-3|=0, |5-3|=2 -> sorted 0,2,2 -> median 2
	if got != want {
		t.Errorf("MAD() = %v, want %v", got, want)
	}
}

func TestBoxcar1D(t *testing.T) {
	src := []float64{0, 0, 0, 10, 0, 0, 0}
	dst := make([]float64, len(src))
	scratch := make([]float64, len(src)+2)
	Boxcar1D(dst, src, 1, scratch)
	want := []float64{0, 0, 10.0 / 3, 10.0 / 3, 10.0 / 3, 0, 0}
	for i := range want {
		if !scalar.EqualWithinAbs(dst[i], want[i], 1e-12) {
			t.Errorf("Boxcar1D()[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestBoxcar1DZeroRadiusIsIdentity(t *testing.T) {
	src := []float64{1, 2, 3}
	dst := make([]float64, 3)
	Boxcar1D(dst, src, 0, nil)
	for i := range src {
		if dst[i] != src[i] {
			t.Errorf("Boxcar1D(radius=0)[%d] = %v, want %v", i, dst[i], src[i])
		}
	}
}

func TestBoxcar1DRepeatCallsAreBitIdentical(t *testing.T) {
	// Two runs over the same NaN-free input, each with its own scratch
	// buffer, must produce bit-identical output.
	src := []float64{1, 2, 3, 4, 5}
	dst1 := make([]float64, 5)
	dst2 := make([]float64, 5)
	scratch1 := make([]float64, 7)
	scratch2 := make([]float64, 7)
	Boxcar1D(dst1, src, 1, scratch1)
	Boxcar1D(dst2, src, 1, scratch2)
	for i := range dst1 {
		if dst1[i] != dst2[i] {
			t.Errorf("non-deterministic Boxcar1D at %d: %v vs %v", i, dst1[i], dst2[i])
		}
	}
}

func TestGaussian2DSmoothsPeak(t *testing.T) {
	// The plane is sized so the smoothed impulse stays clear of the
	// zero-padded boundary; total flux is then conserved.
	nx, ny := 25, 25
	plane := make([]float64, nx*ny)
	plane[12*nx+12] = 100
	rowLen, colLen := GaussianScratchSizes(2.0, nx, ny)
	Gaussian2D(plane, nx, ny, 2.0, make([]float64, rowLen), make([]float64, colLen))

	center := plane[12*nx+12]
	corner := plane[0]
	if center <= corner {
		t.Errorf("expected smoothed center %v to exceed corner %v", center, corner)
	}
	sum := Sum(plane)
	if !scalar.EqualWithinAbs(sum, 100, 1e-6) {
		t.Errorf("Gaussian2D changed total flux: sum=%v want ~100", sum)
	}
}

func TestBoxcarLinearity(t *testing.T) {
	a := []float64{1, 3, -2, 5, 0, 7, 2}
	b := []float64{2, -1, 4, 0, 3, -2, 1}
	alpha, beta := 2.0, -1.5

	combined := make([]float64, len(a))
	for i := range a {
		combined[i] = alpha*a[i] + beta*b[i]
	}

	n := len(a)
	filt := func(x []float64) []float64 {
		dst := make([]float64, n)
		scratch := make([]float64, n+4)
		Boxcar1D(dst, x, 2, scratch)
		return dst
	}

	fa, fb, fc := filt(a), filt(b), filt(combined)
	for i := range fc {
		want := alpha*fa[i] + beta*fb[i]
		if !scalar.EqualWithinAbs(fc[i], want, 1e-9) {
			t.Errorf("linearity violated at %d: got %v, want %v", i, fc[i], want)
		}
	}
}

func TestGaussFitNoise(t *testing.T) {
	// A symmetric spread of values about zero should produce a finite,
	// positive sigma estimate rather than panicking or returning zero.
	data := make([]float64, 0, 2001)
	for i := -1000; i <= 1000; i++ {
		data = append(data, float64(i)/200.0)
	}
	got := GaussFitNoise(data, 0, 1, RangeFull)
	if got <= 0 || math.IsNaN(got) {
		t.Errorf("GaussFitNoise() = %v, want finite positive", got)
	}
}
