package region

import "fmt"

// FlagShape distinguishes the shape kinds a Flag entry can describe.
type FlagShape int

const (
	// FlagPixel flags a spatial pixel: 2 ints (x,y); z ranges over the
	// whole spectral axis.
	FlagPixel FlagShape = iota
	// FlagChannel flags an entire spectral channel: 1 int (z).
	FlagChannel
	// FlagRegion flags an axis-aligned box: 6 ints, the same layout as
	// Bounds.
	FlagRegion
	// FlagCircle flags a circular spatial region applied across every
	// channel: 3 floats (xc, yc, radius).
	FlagCircle
)

// Flag is a tagged variant over the four flaggable shape kinds, with a
// concrete field set per shape.
type Flag struct {
	Shape FlagShape

	// Populated for FlagPixel and FlagChannel/FlagRegion (ints).
	X, Y, Z          int
	XMax, YMax, ZMax int
	// Populated for FlagCircle (floats).
	CX, CY, Radius float64
}

// NewPixelFlag builds a FlagPixel entry.
func NewPixelFlag(x, y int) Flag {
	return Flag{Shape: FlagPixel, X: x, Y: y}
}

// NewChannelFlag builds a FlagChannel entry.
func NewChannelFlag(z int) Flag {
	return Flag{Shape: FlagChannel, Z: z}
}

// NewRegionFlag builds a FlagRegion entry from a Bounds.
func NewRegionFlag(b Bounds) Flag {
	return Flag{Shape: FlagRegion, X: b.XMin, XMax: b.XMax, Y: b.YMin, YMax: b.YMax, Z: b.ZMin, ZMax: b.ZMax}
}

// NewCircleFlag builds a FlagCircle entry.
func NewCircleFlag(cx, cy, radius float64) Flag {
	return Flag{Shape: FlagCircle, CX: cx, CY: cy, Radius: radius}
}

// Contains reports whether voxel (x,y,z) falls inside the flagged region.
func (f Flag) Contains(x, y, z int) bool {
	switch f.Shape {
	case FlagPixel:
		return x == f.X && y == f.Y
	case FlagChannel:
		return z == f.Z
	case FlagRegion:
		return x >= f.X && x <= f.XMax && y >= f.Y && y <= f.YMax && z >= f.Z && z <= f.ZMax
	case FlagCircle:
		dx, dy := float64(x)-f.CX, float64(y)-f.CY
		return dx*dx+dy*dy <= f.Radius*f.Radius
	default:
		return false
	}
}

func (f Flag) String() string {
	switch f.Shape {
	case FlagPixel:
		return fmt.Sprintf("pixel(%d,%d)", f.X, f.Y)
	case FlagChannel:
		return fmt.Sprintf("channel(%d)", f.Z)
	case FlagRegion:
		return fmt.Sprintf("region(%d,%d,%d,%d,%d,%d)", f.X, f.XMax, f.Y, f.YMax, f.Z, f.ZMax)
	case FlagCircle:
		return fmt.Sprintf("circle(%.3f,%.3f,%.3f)", f.CX, f.CY, f.Radius)
	default:
		return "unknown"
	}
}
