package cube

import (
	"math"
	"testing"

	"github.com/mrjoshuak/go-scfind/internal/kernel"
)

func TestScaleNoiseGlobalDividesByConstant(t *testing.T) {
	c, err := New(F32, 4, 4, 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < c.Len(); i++ {
		c.SetFlatFlt(i, 2)
	}

	if err := c.ScaleNoise(ScaleNoiseParams{Mode: NoiseGlobal, Statistic: StatStd, FluxRange: kernel.RangeFull}); err != nil {
		t.Fatalf("ScaleNoise: %v", err)
	}
	for i := 0; i < c.Len(); i++ {
		if v := c.FlatFlt(i); v != 1 {
			t.Fatalf("voxel %d = %v, want 1 (every voxel was uniform, so noise == the constant itself)", i, v)
		}
	}
}

func TestScaleNoiseGlobalRejectsZeroNoise(t *testing.T) {
	c, _ := New(F32, 3, 3, 3)
	err := c.ScaleNoise(ScaleNoiseParams{Mode: NoiseGlobal, Statistic: StatStd, FluxRange: kernel.RangeFull})
	if err == nil {
		t.Fatal("ScaleNoise() over an all-zero cube should fail with a zero noise estimate")
	}
}

func TestScaleNoiseRejectsIntegerPayload(t *testing.T) {
	c, _ := New(I32, 3, 3, 3)
	if err := c.ScaleNoise(ScaleNoiseParams{Mode: NoiseGlobal}); err == nil {
		t.Fatal("ScaleNoise() on an integer cube should fail")
	}
}

func TestScaleNoiseLocalNearestYieldsFiniteValues(t *testing.T) {
	c, err := New(F64, 8, 1, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for x := 0; x < 8; x++ {
		v := 1.0
		if x >= 4 {
			v = 10.0
		}
		if err := c.SetFlt(x, 0, 0, v); err != nil {
			t.Fatalf("SetFlt: %v", err)
		}
	}

	p := ScaleNoiseParams{
		Mode:          NoiseLocal,
		Statistic:     StatStd,
		FluxRange:     kernel.RangeFull,
		WindowSpatial: 1,
		GridSpatial:   4,
		Interpolate:   false,
	}
	if err := c.ScaleNoise(p); err != nil {
		t.Fatalf("ScaleNoise: %v", err)
	}

	for x := 0; x < 8; x++ {
		v, err := c.GetFlt(x, 0, 0)
		if err != nil {
			t.Fatalf("GetFlt: %v", err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("voxel %d = %v, want a finite value", x, v)
		}
	}
}
