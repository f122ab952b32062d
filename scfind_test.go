package scfind

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/mrjoshuak/go-scfind/internal/cube"
)

// A cube of all zeros yields no detections and a clean "no sources"
// termination.
func TestRunEmptyCubeReportsNoSources(t *testing.T) {
	c, err := cube.New(cube.F32, 4, 4, 4)
	if err != nil {
		t.Fatalf("cube.New: %v", err)
	}

	params := Params{
		SCFind: SCFindParams{
			KernelsXY: []float64{0.0},
			KernelsZ:  []int{0},
			Threshold: 3.5,
			Statistic: StatStd,
		},
		Linker: LinkerParams{
			RadiusX: 1, RadiusY: 1, RadiusZ: 1,
			MinSizeX: 1, MinSizeY: 1, MinSizeZ: 1,
		},
	}

	mask, table, err := Run(c, nil, params, nil)
	if !errors.Is(err, ErrNoSources) {
		t.Fatalf("Run() error = %v, want ErrNoSources", err)
	}
	if table.Count() != 0 {
		t.Fatalf("Count() = %d, want 0", table.Count())
	}
	for i := 0; i < mask.Len(); i++ {
		if mask.FlatInt(i) != 0 {
			t.Fatalf("mask[%d] = %d, want 0", i, mask.FlatInt(i))
		}
	}
}

// A single bright pixel at (5,5,5) in a 10x10x10 cube, MAD statistic,
// min size (1,1,1) -> exactly one source at (5,5,5).
func TestRunSingleBrightPixel(t *testing.T) {
	c, err := cube.New(cube.F32, 10, 10, 10)
	if err != nil {
		t.Fatalf("cube.New: %v", err)
	}
	if err := c.SetFlt(5, 5, 5, 100); err != nil {
		t.Fatalf("SetFlt: %v", err)
	}

	params := Params{
		SCFind: SCFindParams{
			KernelsXY: []float64{0.0},
			KernelsZ:  []int{0},
			Threshold: 3.0,
			Statistic: StatMAD,
		},
		Linker: LinkerParams{
			RadiusX: 1, RadiusY: 1, RadiusZ: 1,
			MinSizeX: 1, MinSizeY: 1, MinSizeZ: 1,
		},
	}

	_, table, err := Run(c, nil, params, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if table.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", table.Count())
	}
	xmin, xmax, ymin, ymax, zmin, zmax := table.Bounds(1)
	if xmin != 5 || xmax != 5 || ymin != 5 || ymax != 5 || zmin != 5 || zmax != 5 {
		t.Errorf("Bounds(1) = %d,%d,%d,%d,%d,%d, want all 5", xmin, xmax, ymin, ymax, zmin, zmax)
	}
	if table.N(1) != 1 {
		t.Errorf("N(1) = %d, want 1", table.N(1))
	}
}

// A Gaussian blob of peak 8 sigma buried in unit noise must survive the
// full smooth-clip-link chain with its bounding box around the true centre.
func TestRunDetectsBlobUnderNoise(t *testing.T) {
	const n = 64
	c, err := cube.New(cube.F32, n, n, n)
	if err != nil {
		t.Fatalf("cube.New: %v", err)
	}

	rng := rand.New(rand.NewSource(42))
	const peak, width = 8.0, 1.5
	for z := 0; z < n; z++ {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				dx, dy, dz := float64(x-n/2), float64(y-n/2), float64(z-n/2)
				blob := peak * math.Exp(-(dx*dx+dy*dy+dz*dz)/(2*width*width))
				c.SetFlt(x, y, z, rng.NormFloat64()+blob)
			}
		}
	}

	params := Params{
		SCFind: SCFindParams{
			KernelsXY: []float64{0.0, 3.5},
			KernelsZ:  []int{1, 3},
			Threshold: 4.0,
			Statistic: StatStd,
			FluxRange: FluxNegative,
		},
		Linker: LinkerParams{
			RadiusX: 2, RadiusY: 2, RadiusZ: 2,
			MinSizeX: 2, MinSizeY: 2, MinSizeZ: 2,
			RemoveNegative: true,
		},
	}

	_, table, err := Run(c, nil, params, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if table.Count() < 1 {
		t.Fatal("expected at least one source")
	}

	found := false
	for id := 1; id <= table.Count(); id++ {
		xmin, xmax, ymin, ymax, zmin, zmax := table.Bounds(id)
		if xmin <= n/2 && n/2 <= xmax && ymin <= n/2 && n/2 <= ymax && zmin <= n/2 && n/2 <= zmax {
			found = true
			if table.N(id) < 5 {
				t.Errorf("central source has %d voxels, want >= 5", table.N(id))
			}
		}
	}
	if !found {
		t.Error("no source's bounding box contains the blob centre")
	}
}

func TestRunRejectsNonPositiveThreshold(t *testing.T) {
	c, _ := cube.New(cube.F32, 2, 2, 2)
	params := Params{
		SCFind: SCFindParams{KernelsXY: []float64{0}, KernelsZ: []int{0}, Threshold: 0},
		Linker: LinkerParams{RadiusX: 1, RadiusY: 1, RadiusZ: 1, MinSizeX: 1, MinSizeY: 1, MinSizeZ: 1},
	}
	if _, _, err := Run(c, nil, params, nil); err == nil {
		t.Fatal("Run() with threshold=0 should fail")
	}
}

type fakeLogger struct {
	warnings, infos []string
}

func (f *fakeLogger) Warnf(format string, args ...any) { f.warnings = append(f.warnings, format) }
func (f *fakeLogger) Infof(format string, args ...any) { f.infos = append(f.infos, format) }

func TestRunLogsNoSourcesWarning(t *testing.T) {
	c, _ := cube.New(cube.F32, 4, 4, 4)
	params := Params{
		SCFind: SCFindParams{KernelsXY: []float64{0}, KernelsZ: []int{0}, Threshold: 3.5},
		Linker: LinkerParams{RadiusX: 1, RadiusY: 1, RadiusZ: 1, MinSizeX: 1, MinSizeY: 1, MinSizeZ: 1},
	}
	logger := &fakeLogger{}
	if _, _, err := Run(c, nil, params, logger); !errors.Is(err, ErrNoSources) {
		t.Fatalf("Run() error = %v, want ErrNoSources", err)
	}
	if len(logger.warnings) != 1 {
		t.Errorf("warnings = %v, want exactly one", logger.warnings)
	}
}
