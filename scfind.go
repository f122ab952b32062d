// Package scfind implements a source-finding pipeline for 3-D radio
// astronomy spectral-line image data. Given a calibrated data cube, it
// identifies spatially/spectrally localised emission regions ("sources"),
// assigns them unique labels, filters them by size, and produces a
// labelled integer mask plus per-source geometry records.
//
// The public surface is a single entry point, Run, backed entirely by
// internal/ packages:
//
//	mask, table, err := scfind.Run(cubeIn, nil, params, nil)
//	if errors.Is(err, scfind.ErrNoSources) {
//	    // clean run, nothing detected
//	}
package scfind

import (
	"errors"
	"fmt"

	"github.com/mrjoshuak/go-scfind/internal/cube"
	"github.com/mrjoshuak/go-scfind/internal/linker"
	"github.com/mrjoshuak/go-scfind/internal/linkpar"
	internalscfind "github.com/mrjoshuak/go-scfind/internal/scfind"
)

// Logger receives warnings and progress notes that do not abort the run
// (e.g. a missing optional header keyword). A nil Logger silently drops
// them.
type Logger interface {
	Warnf(format string, args ...any)
	Infof(format string, args ...any)
}

// Run executes the full pipeline: optional flagging, optional weights
// division, optional noise scaling, the Smooth+Clip finder, and the
// linker. It returns the labelled 32-bit mask and the per-source geometry
// table, or ErrNoSources if the run completed cleanly with zero surviving
// sources.
func Run(cubeIn *cube.Cube, weightsIn *cube.Cube, params Params, logger Logger) (*cube.Cube, *linkpar.Table, error) {
	infof := func(format string, args ...any) {
		if logger != nil {
			logger.Infof(format, args...)
		}
	}
	warnf := func(format string, args ...any) {
		if logger != nil {
			logger.Warnf(format, args...)
		}
	}

	working := cubeIn
	if len(params.Flags) > 0 {
		working = cubeIn.Copy()
		if err := working.ApplyFlags(params.Flags); err != nil {
			return nil, nil, err
		}
		infof("applied %d flag region(s)", len(params.Flags))
	}

	if weightsIn != nil {
		if working == cubeIn {
			working = cubeIn.Copy()
		}
		if err := working.DivideByWeights(weightsIn); err != nil {
			return nil, nil, fmt.Errorf("dividing by weights: %w", err)
		}
		infof("divided by weights cube")
	}

	if params.ScaleNoise.Enabled {
		if working == cubeIn {
			working = cubeIn.Copy()
		}
		if err := working.ScaleNoise(params.ScaleNoise.toInternal()); err != nil {
			return nil, nil, fmt.Errorf("scaling noise: %w", err)
		}
		infof("applied noise scaling")
	}

	scfindParams := internalscfind.Params{
		KernelsXY:   params.SCFind.KernelsXY,
		KernelsZ:    params.SCFind.KernelsZ,
		Threshold:   params.SCFind.Threshold,
		Replacement: params.SCFind.Replacement,
		Statistic:   internalscfind.Statistic(params.SCFind.Statistic),
		FluxRange:   params.SCFind.FluxRange.toKernel(),
	}
	mask, err := internalscfind.Run(working, scfindParams)
	if err != nil {
		return nil, nil, fmt.Errorf("running S+C finder: %w", err)
	}

	fluxAt := func(x, y, z int) float64 {
		v, err := working.GetFlt(x, y, z)
		if err != nil {
			return 0
		}
		return v
	}
	table, err := linker.Run(mask, params.Linker.toInternal(), fluxAt)
	if err != nil {
		return nil, nil, fmt.Errorf("running linker: %w", err)
	}

	if table.Count() == 0 {
		warnf("no sources found")
		return mask, table, ErrNoSources
	}
	infof("found %d source(s)", table.Count())
	return mask, table, nil
}

// IsNoSources reports whether err is (or wraps) ErrNoSources, a thin
// convenience wrapper around errors.Is for callers that prefer a named
// predicate.
func IsNoSources(err error) bool {
	return errors.Is(err, ErrNoSources)
}
