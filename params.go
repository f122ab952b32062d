package scfind

import (
	"github.com/mrjoshuak/go-scfind/internal/cube"
	"github.com/mrjoshuak/go-scfind/internal/kernel"
	"github.com/mrjoshuak/go-scfind/internal/linker"
	"github.com/mrjoshuak/go-scfind/internal/region"
)

// Statistic selects the noise estimator shared by the scfind and
// scaleNoise configuration blocks.
type Statistic int

const (
	StatStd Statistic = iota
	StatMAD
	StatGauss
)

// FluxRange selects which side of zero contributes to a noise statistic.
// Estimating from the negative half is common for emission-line data, where
// positive flux is contaminated by real signal.
type FluxRange int

const (
	FluxNegative FluxRange = -1
	FluxFull     FluxRange = 0
	FluxPositive FluxRange = 1
)

func (r FluxRange) toKernel() kernel.Range { return kernel.Range(r) }

// SCFindParams configures the Smooth+Clip finder.
type SCFindParams struct {
	KernelsXY   []float64 // spatial FWHMs, 0 = no spatial smoothing
	KernelsZ    []int     // spectral boxcar widths, 0 = none, else odd
	Threshold   float64   // multiples of the local noise, > 0
	Replacement float64   // mask-replacement factor m >= 0
	Statistic   Statistic
	FluxRange   FluxRange
}

// NoiseMode selects between a cube-wide and a windowed local noise
// estimate for the optional pre-scaling pass.
type NoiseMode int

const (
	NoiseGlobal NoiseMode = iota
	NoiseLocal
)

// ScaleNoiseParams configures the optional noise-normalisation pass that
// runs before the S+C finder, flattening spatial or spectral noise
// variations so a single detection threshold applies across the cube.
// Enabled gates whether the pass runs at all; it defaults off.
type ScaleNoiseParams struct {
	Enabled        bool
	Mode           NoiseMode
	Statistic      Statistic
	FluxRange      FluxRange
	WindowSpatial  int
	WindowSpectral int
	GridSpatial    int
	GridSpectral   int
	Interpolate    bool
}

// LinkerParams configures the connected-component linker.
type LinkerParams struct {
	RadiusX, RadiusY, RadiusZ    int
	MinSizeX, MinSizeY, MinSizeZ int
	// RemoveNegative discards sources whose peak flux is negative.
	// Emission-line searches want this on.
	RemoveNegative bool
}

// Params is the full pipeline configuration. Input-region selection
// happens before Run is called, at cube.Load time, since it is a
// load-time sub-cube restriction rather than a pipeline stage.
type Params struct {
	// Flags excludes known bad pixels/channels/regions from the noise
	// estimate and detection pass; empty disables flagging.
	Flags []region.Flag

	SCFind     SCFindParams
	ScaleNoise ScaleNoiseParams
	Linker     LinkerParams
}

func (p LinkerParams) toInternal() linker.Config {
	return linker.Config{
		RadiusX:        p.RadiusX,
		RadiusY:        p.RadiusY,
		RadiusZ:        p.RadiusZ,
		MinSizeX:       p.MinSizeX,
		MinSizeY:       p.MinSizeY,
		MinSizeZ:       p.MinSizeZ,
		RemoveNegative: p.RemoveNegative,
	}
}

func (p ScaleNoiseParams) toInternal() cube.ScaleNoiseParams {
	mode := cube.NoiseGlobal
	if p.Mode == NoiseLocal {
		mode = cube.NoiseLocal
	}
	return cube.ScaleNoiseParams{
		Mode:           mode,
		Statistic:      cube.Statistic(p.Statistic),
		FluxRange:      p.FluxRange.toKernel(),
		WindowSpatial:  p.WindowSpatial,
		WindowSpectral: p.WindowSpectral,
		GridSpatial:    p.GridSpatial,
		GridSpectral:   p.GridSpectral,
		Interpolate:    p.Interpolate,
	}
}
