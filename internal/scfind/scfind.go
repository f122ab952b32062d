// Package scfind implements the Smooth + Clip (S+C) finder: an iterative
// noise-adaptive thresholding engine that convolves a cube with a grid of
// spatial x spectral kernels, re-estimates noise at each grid point, and
// accumulates detections into a union mask.
package scfind

import (
	"fmt"
	"math"

	"github.com/mrjoshuak/go-scfind/internal/cube"
	"github.com/mrjoshuak/go-scfind/internal/kernel"
	"github.com/mrjoshuak/go-scfind/internal/scferr"
)

// Statistic selects the noise estimator.
type Statistic int

const (
	StatStd Statistic = iota
	StatMAD
	StatGauss
)

// Params configures Run.
type Params struct {
	KernelsXY   []float64 // spatial FWHMs, 0 = no spatial smoothing
	KernelsZ    []int     // spectral boxcar widths, 0 = no spectral smoothing, else odd
	Threshold   float64   // multiples of the local noise, > 0
	Replacement float64   // mask-replacement factor m >= 0
	Statistic   Statistic
	FluxRange   kernel.Range
}

// fwhmToSigma converts a Gaussian FWHM to its standard deviation,
// FWHM = 2*sqrt(2*ln(2))*sigma.
func fwhmToSigma(fwhm float64) float64 {
	return fwhm / (2 * math.Sqrt(2*math.Ln2))
}

// Run executes the S+C grid search against c, returning a fresh 32-bit
// mask with values in {0,1} and WCS keywords copied from c.
func Run(c *cube.Cube, p Params) (*cube.Cube, error) {
	if p.Threshold <= 0 {
		return nil, scferr.New(scferr.KindUserInput, "scfind.Run", fmt.Errorf("threshold must be > 0"))
	}
	if p.Replacement < 0 {
		return nil, scferr.New(scferr.KindUserInput, "scfind.Run", fmt.Errorf("replacement must be >= 0"))
	}
	for _, kz := range p.KernelsZ {
		if kz != 0 && kz%2 == 0 {
			return nil, scferr.New(scferr.KindUserInput, "scfind.Run", fmt.Errorf("spectral kernel width %d must be odd", kz))
		}
	}

	nx, ny, nz := c.Dims()
	mask, err := cube.New(cube.I32, nx, ny, nz)
	if err != nil {
		return nil, err
	}
	copyWCSHeader(c, mask)

	stride := samplingStride(nx, ny, nz)

	sigma0, err := estimateNoise(c, stride, p.Statistic, p.FluxRange)
	if err != nil {
		return nil, err
	}

	if err := c.Mask(mask, p.Threshold*sigma0); err != nil {
		return nil, err
	}

	for _, kxy := range p.KernelsXY {
		for _, kz := range p.KernelsZ {
			if kxy == 0 && kz == 0 {
				continue
			}
			working := c.Copy()
			if err := working.SetMasked(mask, p.Replacement*sigma0); err != nil {
				return nil, err
			}
			if kxy > 0 {
				if err := working.Gaussian(fwhmToSigma(kxy)); err != nil {
					return nil, err
				}
			}
			if kz > 0 {
				if err := working.Boxcar(kz / 2); err != nil {
					return nil, err
				}
			}
			sigmaPrime, err := estimateNoise(working, stride, p.Statistic, p.FluxRange)
			if err != nil {
				return nil, err
			}
			if err := working.Mask(mask, p.Threshold*sigmaPrime); err != nil {
				return nil, err
			}
		}
	}

	return mask, nil
}

// samplingStride computes s = max(1, floor((Nx*Ny*Nz/1e6)^(1/3))), capping
// noise-estimation cost at roughly 1e6 samples.
func samplingStride(nx, ny, nz int) int {
	total := float64(nx) * float64(ny) * float64(nz)
	s := int(math.Floor(math.Cbrt(total / 1e6)))
	if s < 1 {
		s = 1
	}
	return s
}

// wcsKeywords is the set of WCS header keywords copied verbatim onto the
// mask's header when present on the source cube.
var wcsKeywords = []string{
	"CTYPE1", "CTYPE2", "CTYPE3",
	"CRVAL1", "CRVAL2", "CRVAL3",
	"CRPIX1", "CRPIX2", "CRPIX3",
	"CDELT1", "CDELT2", "CDELT3",
	"EPOCH",
}

// estimateNoise computes the configured statistic over the strided
// sub-sequence {c.FlatFlt(i*stride)}.
func estimateNoise(c *cube.Cube, stride int, stat Statistic, rng kernel.Range) (float64, error) {
	if !c.DType().IsFloat() {
		return 0, scferr.New(scferr.KindUserInput, "scfind.estimateNoise", fmt.Errorf("requires a floating-point cube"))
	}
	n := c.Len()
	samples := make([]float64, 0, n/stride+1)
	for i := 0; i < n; i += stride {
		samples = append(samples, c.FlatFlt(i))
	}

	switch stat {
	case StatMAD:
		return float64(kernel.MAD(samples, 0)), nil
	case StatGauss:
		return float64(kernel.GaussFitNoise(samples, 0, 1, rng)), nil
	default:
		return float64(kernel.StdDevAbout(samples, 0, 1, rng)), nil
	}
}

func copyWCSHeader(src, dst *cube.Cube) {
	for _, key := range wcsKeywords {
		if key == "CTYPE1" || key == "CTYPE2" || key == "CTYPE3" {
			if s, ok := src.Hdr.GetStr(key); ok {
				dst.Hdr.PutStr(key, s)
			}
			continue
		}
		if v, err := src.Hdr.GetFlt(key); err == nil {
			dst.Hdr.PutFlt(key, v)
		}
	}
}
