package cube

import (
	"fmt"
	"math"

	"github.com/mrjoshuak/go-scfind/internal/header"
	"github.com/mrjoshuak/go-scfind/internal/kernel"
	"github.com/mrjoshuak/go-scfind/internal/scferr"
)

// Cube is a data cube: a header plus a contiguous, dtype-polymorphic
// payload of Nx*Ny*Nz elements, Nx fastest-varying.
type Cube struct {
	Hdr *header.Header

	dtype      DType
	nx, ny, nz int
	dimension  int
	pay        payload
}

// New returns a zero-filled cube of the given dtype and dimensions. dims may
// have length 1, 2 or 3; missing trailing axes default to size 1.
func New(dtype DType, dims ...int) (*Cube, error) {
	if len(dims) < 1 || len(dims) > 3 {
		return nil, scferr.New(scferr.KindUserInput, "cube.New", fmt.Errorf("dims must have length 1..3, got %d", len(dims)))
	}
	nx, ny, nz := 1, 1, 1
	for i, d := range dims {
		if d < 1 {
			return nil, scferr.New(scferr.KindUserInput, "cube.New", fmt.Errorf("axis %d size %d must be >= 1", i, d))
		}
		switch i {
		case 0:
			nx = d
		case 1:
			ny = d
		case 2:
			nz = d
		}
	}
	c := &Cube{
		Hdr:       header.New(),
		dtype:     dtype,
		nx:        nx,
		ny:        ny,
		nz:        nz,
		dimension: len(dims),
		pay:       newPayload(dtype, nx*ny*nz),
	}
	c.Hdr.PutInt("BITPIX", int64(dtype.Bitpix()))
	c.Hdr.PutInt("NAXIS", int64(len(dims)))
	c.Hdr.PutInt("NAXIS1", int64(nx))
	if len(dims) >= 2 {
		c.Hdr.PutInt("NAXIS2", int64(ny))
	}
	if len(dims) >= 3 {
		c.Hdr.PutInt("NAXIS3", int64(nz))
	}
	return c, nil
}

// DType returns the cube's on-disk numeric element type.
func (c *Cube) DType() DType { return c.dtype }

// Dims returns (Nx, Ny, Nz).
func (c *Cube) Dims() (int, int, int) { return c.nx, c.ny, c.nz }

// Dimension returns the number of non-degenerate axes (1, 2 or 3).
func (c *Cube) Dimension() int { return c.dimension }

// Len returns Nx*Ny*Nz, the total voxel count.
func (c *Cube) Len() int { return c.pay.Len() }

// FlatFlt returns the pixel at flat payload index i widened to float64,
// bypassing per-axis bounds checks; used by callers that
// already iterate the payload in its natural flat order (the S+C finder's
// strided noise sampling).
func (c *Cube) FlatFlt(i int) float64 { return c.pay.GetFlt(i) }

// SetFlatFlt writes v at flat payload index i.
func (c *Cube) SetFlatFlt(i int, v float64) { c.pay.SetFlt(i, v) }

// FlatInt returns the pixel at flat payload index i widened to int64.
func (c *Cube) FlatInt(i int) int64 { return c.pay.GetInt(i) }

// SetFlatInt writes v at flat payload index i.
func (c *Cube) SetFlatInt(i int, v int64) { c.pay.SetInt(i, v) }

// Coords inverts idx, returning the (x,y,z) coordinates of flat payload
// index i.
func (c *Cube) Coords(i int) (x, y, z int) {
	x = i % c.nx
	rest := i / c.nx
	y = rest % c.ny
	z = rest / c.ny
	return x, y, z
}

// idx maps (x,y,z) to the flat payload index x + Nx*(y + Ny*z).
func (c *Cube) idx(x, y, z int) (int, error) {
	if x < 0 || x >= c.nx || y < 0 || y >= c.ny || z < 0 || z >= c.nz {
		return 0, scferr.New(scferr.KindIndexRange, "cube.idx", fmt.Errorf("(%d,%d,%d) out of bounds for (%d,%d,%d)", x, y, z, c.nx, c.ny, c.nz))
	}
	return x + c.nx*(y+c.ny*z), nil
}

// GetFlt returns the pixel at (x,y,z) widened to float64 from the native
// element type.
func (c *Cube) GetFlt(x, y, z int) (float64, error) {
	i, err := c.idx(x, y, z)
	if err != nil {
		return 0, err
	}
	return c.pay.GetFlt(i), nil
}

// SetFlt writes v at (x,y,z), truncating via Go's float-to-integer
// conversion when the payload is an integer dtype.
func (c *Cube) SetFlt(x, y, z int, v float64) error {
	i, err := c.idx(x, y, z)
	if err != nil {
		return err
	}
	c.pay.SetFlt(i, v)
	return nil
}

// GetInt returns the pixel at (x,y,z) widened to int64.
func (c *Cube) GetInt(x, y, z int) (int64, error) {
	i, err := c.idx(x, y, z)
	if err != nil {
		return 0, err
	}
	return c.pay.GetInt(i), nil
}

// SetInt writes v at (x,y,z).
func (c *Cube) SetInt(x, y, z int, v int64) error {
	i, err := c.idx(x, y, z)
	if err != nil {
		return err
	}
	c.pay.SetInt(i, v)
	return nil
}

// Copy returns a deep, independently owned copy of c, used by the S+C
// finder for its one smoothed working copy per grid cell.
func (c *Cube) Copy() *Cube {
	return &Cube{
		Hdr:       header.MustParse(append([]byte(nil), c.Hdr.Bytes()...)),
		dtype:     c.dtype,
		nx:        c.nx,
		ny:        c.ny,
		nz:        c.nz,
		dimension: c.dimension,
		pay:       c.pay.clone(),
	}
}

// Boxcar applies a spectral (z-axis) boxcar of half-width radius to every
// (x,y) column in place. Only defined for floating-point payloads.
func (c *Cube) Boxcar(radius int) error {
	if radius <= 0 {
		return nil
	}
	if f32, ok := c.pay.F32(); ok {
		col := make([]float32, c.nz)
		out := make([]float32, c.nz)
		scratch := make([]float32, c.nz+2*radius)
		for y := 0; y < c.ny; y++ {
			for x := 0; x < c.nx; x++ {
				base := x + c.nx*y
				for z := 0; z < c.nz; z++ {
					col[z] = f32[base+c.nx*c.ny*z]
				}
				kernel.Boxcar1D(out, col, radius, scratch)
				for z := 0; z < c.nz; z++ {
					f32[base+c.nx*c.ny*z] = out[z]
				}
			}
		}
		return nil
	}
	if f64, ok := c.pay.F64(); ok {
		col := make([]float64, c.nz)
		out := make([]float64, c.nz)
		scratch := make([]float64, c.nz+2*radius)
		for y := 0; y < c.ny; y++ {
			for x := 0; x < c.nx; x++ {
				base := x + c.nx*y
				for z := 0; z < c.nz; z++ {
					col[z] = f64[base+c.nx*c.ny*z]
				}
				kernel.Boxcar1D(out, col, radius, scratch)
				for z := 0; z < c.nz; z++ {
					f64[base+c.nx*c.ny*z] = out[z]
				}
			}
		}
		return nil
	}
	return scferr.New(scferr.KindUserInput, "cube.Boxcar", fmt.Errorf("boxcar requires a floating-point payload"))
}

// Gaussian applies a 2-D separable Gaussian of standard deviation sigma to
// every x-y plane in place, independent of z. Only defined for
// floating-point payloads.
func (c *Cube) Gaussian(sigma float64) error {
	planeLen := c.nx * c.ny
	rowLen, colLen := kernel.GaussianScratchSizes(sigma, c.nx, c.ny)

	if f32, ok := c.pay.F32(); ok {
		rowScratch := make([]float32, rowLen)
		colScratch := make([]float32, colLen)
		for z := 0; z < c.nz; z++ {
			plane := f32[z*planeLen : (z+1)*planeLen]
			kernel.Gaussian2D(plane, c.nx, c.ny, sigma, rowScratch, colScratch)
		}
		return nil
	}
	if f64, ok := c.pay.F64(); ok {
		rowScratch := make([]float64, rowLen)
		colScratch := make([]float64, colLen)
		for z := 0; z < c.nz; z++ {
			plane := f64[z*planeLen : (z+1)*planeLen]
			kernel.Gaussian2D(plane, c.nx, c.ny, sigma, rowScratch, colScratch)
		}
		return nil
	}
	return scferr.New(scferr.KindUserInput, "cube.Gaussian", fmt.Errorf("gaussian requires a floating-point payload"))
}

// Mask sets maskCube[i] = 1 (leaving it unchanged otherwise) wherever
// |c[i]| > threshold. maskCube is never cleared by Mask, so repeated calls
// accumulate a union mask, which is what the S+C finder's grid loop relies
// on to OR each smoothing scale's detections together.
func (c *Cube) Mask(maskCube *Cube, threshold float64) error {
	if maskCube.Len() != c.Len() {
		return scferr.New(scferr.KindUserInput, "cube.Mask", fmt.Errorf("mask cube has %d voxels, want %d", maskCube.Len(), c.Len()))
	}
	for i := 0; i < c.pay.Len(); i++ {
		v := c.pay.GetFlt(i)
		if v < 0 {
			v = -v
		}
		if v > threshold {
			maskCube.pay.SetInt(i, 1)
		}
	}
	return nil
}

// SetMasked replaces c[i] with copysign(value, c[i]) wherever maskCube[i]
// is non-zero.
func (c *Cube) SetMasked(maskCube *Cube, value float64) error {
	if maskCube.Len() != c.Len() {
		return scferr.New(scferr.KindUserInput, "cube.SetMasked", fmt.Errorf("mask cube has %d voxels, want %d", maskCube.Len(), c.Len()))
	}
	for i := 0; i < c.pay.Len(); i++ {
		if maskCube.pay.GetInt(i) == 0 {
			continue
		}
		c.pay.SetFlt(i, math.Copysign(value, c.pay.GetFlt(i)))
	}
	return nil
}

// DivideByWeights divides every pixel of c by the corresponding pixel of
// weights in place, setting it to NaN wherever the weight is zero so the
// undefined pixel drops out of every later statistic.
func (c *Cube) DivideByWeights(weights *Cube) error {
	if weights.Len() != c.Len() {
		return scferr.New(scferr.KindUserInput, "cube.DivideByWeights", fmt.Errorf("weights cube has %d voxels, want %d", weights.Len(), c.Len()))
	}
	for i := 0; i < c.pay.Len(); i++ {
		w := weights.pay.GetFlt(i)
		if w == 0 {
			c.pay.SetFlt(i, math.NaN())
			continue
		}
		c.pay.SetFlt(i, c.pay.GetFlt(i)/w)
	}
	return nil
}
