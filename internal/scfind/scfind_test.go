package scfind

import (
	"testing"

	"github.com/mrjoshuak/go-scfind/internal/cube"
	"github.com/mrjoshuak/go-scfind/internal/kernel"
)

func TestRunRejectsNonPositiveThreshold(t *testing.T) {
	c, err := cube.New(cube.F32, 4, 4, 4)
	if err != nil {
		t.Fatalf("cube.New: %v", err)
	}
	if _, err := Run(c, Params{Threshold: 0}); err == nil {
		t.Fatal("Run() with threshold=0 should fail")
	}
}

func TestRunRejectsEvenSpectralKernel(t *testing.T) {
	c, _ := cube.New(cube.F32, 4, 4, 4)
	p := Params{Threshold: 3, KernelsXY: []float64{0}, KernelsZ: []int{2}}
	if _, err := Run(c, p); err == nil {
		t.Fatal("Run() with an even spectral kernel width should fail")
	}
}

func TestRunAllZerosYieldsEmptyMask(t *testing.T) {
	c, _ := cube.New(cube.F32, 4, 4, 4)
	p := Params{Threshold: 3.5, KernelsXY: []float64{0}, KernelsZ: []int{0}}
	mask, err := Run(c, p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i := 0; i < mask.Len(); i++ {
		if mask.FlatInt(i) != 0 {
			t.Fatalf("mask[%d] = %d, want 0", i, mask.FlatInt(i))
		}
	}
}

func TestRunDetectsBrightPixel(t *testing.T) {
	c, _ := cube.New(cube.F32, 8, 8, 8)
	if err := c.SetFlt(4, 4, 4, 50); err != nil {
		t.Fatalf("SetFlt: %v", err)
	}
	p := Params{Threshold: 3, KernelsXY: []float64{0}, KernelsZ: []int{0}, Statistic: StatMAD}
	mask, err := Run(c, p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	v, err := mask.GetInt(4, 4, 4)
	if err != nil {
		t.Fatalf("GetInt: %v", err)
	}
	if v != 1 {
		t.Errorf("mask(4,4,4) = %d, want 1", v)
	}
}

func TestRunSkipsZeroKernelGridCell(t *testing.T) {
	c, _ := cube.New(cube.F32, 6, 6, 6)
	if err := c.SetFlt(3, 3, 3, 50); err != nil {
		t.Fatalf("SetFlt: %v", err)
	}
	// A grid with only the (0,0) cell must behave identically to the
	// single-pass seed mask, since (0,0) is always skipped.
	p := Params{Threshold: 3, KernelsXY: []float64{0}, KernelsZ: []int{0}, FluxRange: kernel.RangeFull}
	mask, err := Run(c, p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if v, _ := mask.GetInt(3, 3, 3); v != 1 {
		t.Errorf("mask(3,3,3) = %d, want 1", v)
	}
}
