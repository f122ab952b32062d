package cube

import (
	"fmt"

	"github.com/mrjoshuak/go-scfind/internal/kernel"
	"github.com/mrjoshuak/go-scfind/internal/scferr"
)

// NoiseMode selects between a single cube-wide noise estimate and a
// windowed, optionally-interpolated local estimate.
type NoiseMode int

const (
	NoiseGlobal NoiseMode = iota
	NoiseLocal
)

// Statistic selects the noise estimator.
type Statistic int

const (
	StatStd Statistic = iota
	StatMAD
	StatGauss
)

// ScaleNoiseParams configures ScaleNoise.
type ScaleNoiseParams struct {
	Mode           NoiseMode
	Statistic      Statistic
	FluxRange      kernel.Range
	WindowSpatial  int
	WindowSpectral int
	GridSpatial    int
	GridSpectral   int
	Interpolate    bool
}

// ScaleNoise divides every pixel by a noise estimate: a single cube-wide
// value in NoiseGlobal mode, or a gridded local estimate in NoiseLocal mode
// (optionally bilinearly/trilinearly interpolated between grid points).
// Only defined for floating-point payloads.
func (c *Cube) ScaleNoise(p ScaleNoiseParams) error {
	if p.Mode == NoiseGlobal {
		noise, err := c.noiseOf(c.allIndices(), p.Statistic, p.FluxRange)
		if err != nil {
			return err
		}
		if noise == 0 {
			return scferr.New(scferr.KindUserInput, "cube.ScaleNoise", fmt.Errorf("global noise estimate is zero"))
		}
		return c.scaleAll(func(int, int, int) float64 { return noise })
	}

	if p.GridSpatial < 1 {
		p.GridSpatial = 1
	}
	if p.GridSpectral < 1 {
		p.GridSpectral = 1
	}
	gx := gridPoints(c.nx, p.GridSpatial)
	gy := gridPoints(c.ny, p.GridSpatial)
	gz := gridPoints(c.nz, p.GridSpectral)

	grid := make([][][]float64, len(gx))
	for i, cx := range gx {
		grid[i] = make([][]float64, len(gy))
		for j, cy := range gy {
			grid[i][j] = make([]float64, len(gz))
			for k, cz := range gz {
				idxs := c.windowIndices(cx, cy, cz, p.WindowSpatial, p.WindowSpectral)
				n, err := c.noiseOf(idxs, p.Statistic, p.FluxRange)
				if err != nil {
					return err
				}
				grid[i][j][k] = n
			}
		}
	}

	lookup := func(x, y, z int) float64 {
		if !p.Interpolate {
			return nearestGrid(grid, gx, gy, gz, x, y, z)
		}
		return trilinearGrid(grid, gx, gy, gz, x, y, z)
	}
	return c.scaleAll(lookup)
}

func (c *Cube) scaleAll(noiseAt func(x, y, z int) float64) error {
	apply := func(get func(int) float64, set func(int, float64)) error {
		for z := 0; z < c.nz; z++ {
			for y := 0; y < c.ny; y++ {
				for x := 0; x < c.nx; x++ {
					i := x0(c.nx, c.ny, x, y, z)
					n := noiseAt(x, y, z)
					if n == 0 {
						continue
					}
					set(i, get(i)/n)
				}
			}
		}
		return nil
	}
	if _, ok := c.pay.F32(); ok {
		return apply(c.pay.GetFlt, c.pay.SetFlt)
	}
	if _, ok := c.pay.F64(); ok {
		return apply(c.pay.GetFlt, c.pay.SetFlt)
	}
	return scferr.New(scferr.KindUserInput, "cube.ScaleNoise", fmt.Errorf("requires a floating-point payload"))
}

// allIndices returns every voxel index, used for the global noise estimate.
func (c *Cube) allIndices() []int {
	idxs := make([]int, c.Len())
	for i := range idxs {
		idxs[i] = i
	}
	return idxs
}

// windowIndices returns the indices of the window of size
// 2*windowSpatial+1 x 2*windowSpatial+1 x 2*windowSpectral+1 centred at
// (cx,cy,cz), clipped to the cube.
func (c *Cube) windowIndices(cx, cy, cz, windowSpatial, windowSpectral int) []int {
	x0c, x1c := clampWindow(cx, windowSpatial, c.nx)
	y0c, y1c := clampWindow(cy, windowSpatial, c.ny)
	z0c, z1c := clampWindow(cz, windowSpectral, c.nz)
	var idxs []int
	for z := z0c; z <= z1c; z++ {
		for y := y0c; y <= y1c; y++ {
			for x := x0c; x <= x1c; x++ {
				idxs = append(idxs, x0(c.nx, c.ny, x, y, z))
			}
		}
	}
	return idxs
}

func clampWindow(center, radius, n int) (int, int) {
	lo, hi := center-radius, center+radius
	if lo < 0 {
		lo = 0
	}
	if hi > n-1 {
		hi = n - 1
	}
	return lo, hi
}

// noiseOf computes the chosen statistic over the selected indices. MAD is
// destructive per kernel.MAD's contract, so it always operates on a scratch
// copy, never the cube's own payload.
func (c *Cube) noiseOf(idxs []int, stat Statistic, rng kernel.Range) (float64, error) {
	if f32, ok := c.pay.F32(); ok {
		vals := gather32(f32, idxs)
		return noiseStat(vals, stat, rng)
	}
	if f64, ok := c.pay.F64(); ok {
		vals := gather64(f64, idxs)
		return noiseStat(vals, stat, rng)
	}
	return 0, scferr.New(scferr.KindUserInput, "cube.noiseOf", fmt.Errorf("requires a floating-point payload"))
}

func gather32(s []float32, idxs []int) []float64 {
	out := make([]float64, len(idxs))
	for i, idx := range idxs {
		out[i] = float64(s[idx])
	}
	return out
}

func gather64(s []float64, idxs []int) []float64 {
	out := make([]float64, len(idxs))
	for i, idx := range idxs {
		out[i] = s[idx]
	}
	return out
}

func noiseStat(vals []float64, stat Statistic, rng kernel.Range) (float64, error) {
	switch stat {
	case StatMAD:
		return float64(kernel.MAD(vals, 0)), nil
	case StatGauss:
		return float64(kernel.GaussFitNoise(vals, 0, 1, rng)), nil
	default:
		return float64(kernel.StdDevAbout(vals, 0, 1, rng)), nil
	}
}

func gridPoints(n, step int) []int {
	if step >= n {
		return []int{n / 2}
	}
	var pts []int
	for c := step / 2; c < n; c += step {
		pts = append(pts, c)
	}
	if len(pts) == 0 {
		pts = []int{n / 2}
	}
	return pts
}

func nearestGrid(grid [][][]float64, gx, gy, gz []int, x, y, z int) float64 {
	i := nearestIndex(gx, x)
	j := nearestIndex(gy, y)
	k := nearestIndex(gz, z)
	return grid[i][j][k]
}

func nearestIndex(pts []int, v int) int {
	best, bestDist := 0, abs(v-pts[0])
	for i, p := range pts {
		if d := abs(v - p); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// trilinearGrid interpolates the noise estimate trilinearly between the
// surrounding grid points, falling back to nearest-neighbour along any axis
// with fewer than two grid points.
func trilinearGrid(grid [][][]float64, gx, gy, gz []int, x, y, z int) float64 {
	xi0, xi1, xt := bracket(gx, x)
	yi0, yi1, yt := bracket(gy, y)
	zi0, zi1, zt := bracket(gz, z)

	lerp := func(a, b, t float64) float64 { return a + (b-a)*t }

	c00 := lerp(grid[xi0][yi0][zi0], grid[xi1][yi0][zi0], xt)
	c01 := lerp(grid[xi0][yi0][zi1], grid[xi1][yi0][zi1], xt)
	c10 := lerp(grid[xi0][yi1][zi0], grid[xi1][yi1][zi0], xt)
	c11 := lerp(grid[xi0][yi1][zi1], grid[xi1][yi1][zi1], xt)
	c0 := lerp(c00, c10, yt)
	c1 := lerp(c01, c11, yt)
	return lerp(c0, c1, zt)
}

// bracket finds the two grid points surrounding v along one axis and the
// fractional position between them, clamping at the ends.
func bracket(pts []int, v int) (lo, hi int, t float64) {
	if len(pts) == 1 {
		return 0, 0, 0
	}
	for i := 0; i < len(pts)-1; i++ {
		if v >= pts[i] && v <= pts[i+1] {
			span := float64(pts[i+1] - pts[i])
			if span == 0 {
				return i, i + 1, 0
			}
			return i, i + 1, float64(v-pts[i]) / span
		}
	}
	if v < pts[0] {
		return 0, 1, 0
	}
	return len(pts) - 2, len(pts) - 1, 1
}
