package cube

import (
	"fmt"
	"math"

	"github.com/mrjoshuak/go-scfind/internal/region"
	"github.com/mrjoshuak/go-scfind/internal/scferr"
)

// ApplyFlags sets every voxel matched by any of flags to NaN in place,
// excluding known bad pixels/channels/regions from noise estimation and
// detection; NaN voxels drop out of every kernel statistic transparently.
// Only defined for floating-point payloads.
func (c *Cube) ApplyFlags(flags []region.Flag) error {
	if len(flags) == 0 {
		return nil
	}
	if !c.dtype.IsFloat() {
		return scferr.New(scferr.KindUserInput, "cube.ApplyFlags", fmt.Errorf("flagging requires a floating-point payload"))
	}
	for i := 0; i < c.pay.Len(); i++ {
		x, y, z := c.Coords(i)
		for _, f := range flags {
			if f.Contains(x, y, z) {
				c.SetFlatFlt(i, math.NaN())
				break
			}
		}
	}
	return nil
}
