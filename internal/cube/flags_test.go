package cube

import (
	"math"
	"testing"

	"github.com/mrjoshuak/go-scfind/internal/region"
)

func TestApplyFlagsSetsNaN(t *testing.T) {
	c, err := New(F32, 4, 4, 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < c.Len(); i++ {
		c.SetFlatFlt(i, 1)
	}

	flags := []region.Flag{region.NewPixelFlag(1, 1), region.NewChannelFlag(3)}
	if err := c.ApplyFlags(flags); err != nil {
		t.Fatalf("ApplyFlags: %v", err)
	}

	v, _ := c.GetFlt(1, 1, 0)
	if !math.IsNaN(v) {
		t.Errorf("flagged pixel (1,1,0) = %v, want NaN", v)
	}
	v, _ = c.GetFlt(0, 0, 3)
	if !math.IsNaN(v) {
		t.Errorf("flagged channel voxel (0,0,3) = %v, want NaN", v)
	}
	v, _ = c.GetFlt(0, 0, 0)
	if math.IsNaN(v) {
		t.Errorf("unflagged voxel (0,0,0) = NaN, want 1")
	}
}

func TestApplyFlagsRejectsIntPayload(t *testing.T) {
	c, _ := New(I32, 2, 2, 2)
	if err := c.ApplyFlags([]region.Flag{region.NewPixelFlag(0, 0)}); err == nil {
		t.Error("ApplyFlags on integer payload should fail")
	}
}

func TestApplyFlagsNoopWhenEmpty(t *testing.T) {
	c, _ := New(F32, 2, 2, 2)
	if err := c.ApplyFlags(nil); err != nil {
		t.Errorf("ApplyFlags(nil) = %v, want nil", err)
	}
}
