// Package linker implements the 3-D connected-component labeller: it
// relabels a 32-bit candidate mask over an ellipsoidal neighbourhood, feeds
// a linkpar.Table with per-label pixel counts and bounding boxes, and
// applies a size-based post-filter that compacts surviving labels into a
// contiguous {1..K} run. Neighbour expansion uses an explicit work stack
// rather than recursion, which would overflow the call stack on dense or
// elongated blobs that link thousands of voxels deep.
package linker

import (
	"github.com/mrjoshuak/go-scfind/internal/cube"
	"github.com/mrjoshuak/go-scfind/internal/linkpar"
	"github.com/mrjoshuak/go-scfind/internal/scferr"
)

// Config configures Run.
type Config struct {
	RadiusX, RadiusY, RadiusZ    int // merge radii (rx,ry,rz)
	MinSizeX, MinSizeY, MinSizeZ int // minimum extents (mx,my,mz)

	// RemoveNegative discards sources whose peak (largest-magnitude)
	// flux is negative. Emission-line searches set it true; disable it
	// only to keep negative-flux detections (e.g. absorption-line work).
	RemoveNegative bool
}

// point is a pending pixel in the expansion work stack.
type point struct{ x, y, z int }

// Run labels mask in place. mask must be a 32-bit integer cube with
// background 0 and candidate pixels 1; it is rewritten so that surviving
// labels form {0} union {1..K} contiguous, and the returned Table carries
// one row per surviving label, reindexed 1..K (linkpar.Table.Reduce's
// post-condition).
//
// fluxAt, when non-nil, returns the flux value at the cube coordinate
// matching mask's geometry; it is consulted only when cfg.RemoveNegative is
// set, to decide whether a surviving source's peak is net-negative. A nil
// fluxAt disables the negative-source filter regardless of cfg.
func Run(mask *cube.Cube, cfg Config, fluxAt func(x, y, z int) float64) (*linkpar.Table, error) {
	nx, ny, nz := mask.Dims()
	if nx >= 1<<16 || ny >= 1<<16 || nz >= 1<<16 {
		return nil, scferr.New(scferr.KindUserInput, "linker.Run", errDimsTooLarge{nx, ny, nz})
	}

	table := linkpar.New()
	labels := make([]int32, nx*ny*nz)
	for i := range labels {
		if mask.FlatInt(i) != 0 {
			labels[i] = 1
		}
	}

	// peak[label] tracks the largest-magnitude flux seen so far for that
	// provisional label, signed; used by the optional negative-source
	// filter below. Index 0/1 unused (reserved sentinels).
	var peak []float64
	trackPeak := func(label int, x, y, z int) {
		if fluxAt == nil {
			return
		}
		for label >= len(peak) {
			peak = append(peak, 0)
		}
		v := fluxAt(x, y, z)
		if abs(v) > abs(peak[label]) {
			peak[label] = v
		}
	}

	idx := func(x, y, z int) int { return x + nx*(y+ny*z) }

	var stack []point

	// Reverse raster order: z outermost, then y, then x, each descending.
	for z := nz - 1; z >= 0; z-- {
		for y := ny - 1; y >= 0; y-- {
			for x := nx - 1; x >= 0; x-- {
				if labels[idx(x, y, z)] != 1 {
					continue
				}
				label := table.Push(x, y, z)
				labels[idx(x, y, z)] = int32(label)
				trackPeak(label, x, y, z)
				stack = append(stack, point{x, y, z})

				for len(stack) > 0 {
					p := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					expand(p, label, nx, ny, nz, cfg, labels, table, &stack, idx, trackPeak)
				}
			}
		}
	}

	if err := table.CheckBounds16(); err != nil {
		return nil, err
	}

	// Size filter and consecutive relabelling.
	nextFinal := 1
	for i := 0; i < len(labels); i++ {
		label := int(labels[i])
		if label <= 0 {
			continue
		}
		sx := table.GetSize(label, linkpar.AxisX)
		sy := table.GetSize(label, linkpar.AxisY)
		sz := table.GetSize(label, linkpar.AxisZ)
		if sx < cfg.MinSizeX || sy < cfg.MinSizeY || sz < cfg.MinSizeZ {
			labels[i] = 0
			continue
		}
		if cfg.RemoveNegative && fluxAt != nil && label < len(peak) && peak[label] < 0 {
			labels[i] = 0
			continue
		}
		if table.GetLabel(label) == 0 {
			table.SetLabel(label, nextFinal)
			nextFinal++
		}
		labels[i] = int32(table.GetLabel(label))
	}

	for i := range labels {
		mask.SetFlatInt(i, int64(labels[i]))
	}

	table.Reduce()
	return table, nil
}

// expand examines the axis-aligned neighbourhood box around p restricted to
// the cube and absorbs any neighbour still marked candidate (1) into label,
// pushing it onto the work stack for further expansion.
//
// Spatially the box is narrowed to the closed ellipse with semi-axes
// (rx, ry): a neighbour is skipped when (Δx)²·ry² + (Δy)²·rx² > rx²·ry².
// The spectral offset is not part of the ellipse test; any Δz within rz
// passes.
func expand(p point, label, nx, ny, nz int, cfg Config, labels []int32, table *linkpar.Table, stack *[]point, idx func(x, y, z int) int, trackPeak func(label, x, y, z int)) {
	x0 := p.x - cfg.RadiusX
	x1 := p.x + cfg.RadiusX
	y0 := p.y - cfg.RadiusY
	y1 := p.y + cfg.RadiusY
	z0 := p.z - cfg.RadiusZ
	z1 := p.z + cfg.RadiusZ
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if z0 < 0 {
		z0 = 0
	}
	if x1 > nx-1 {
		x1 = nx - 1
	}
	if y1 > ny-1 {
		y1 = ny - 1
	}
	if z1 > nz-1 {
		z1 = nz - 1
	}

	rx2ry2 := cfg.RadiusX * cfg.RadiusX * cfg.RadiusY * cfg.RadiusY

	for z := z0; z <= z1; z++ {
		for y := y0; y <= y1; y++ {
			dy := y - p.y
			for x := x0; x <= x1; x++ {
				dx := x - p.x
				if dx*dx*cfg.RadiusY*cfg.RadiusY+dy*dy*cfg.RadiusX*cfg.RadiusX > rx2ry2 {
					continue
				}
				i := idx(x, y, z)
				if labels[i] != 1 {
					continue
				}
				labels[i] = int32(label)
				table.Update(label, x, y, z)
				trackPeak(label, x, y, z)
				*stack = append(*stack, point{x, y, z})
			}
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

type errDimsTooLarge struct{ nx, ny, nz int }

func (e errDimsTooLarge) Error() string {
	return "cube dimensions must be < 2^16 for linker labelling"
}
