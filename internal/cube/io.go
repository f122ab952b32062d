package cube

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/mrjoshuak/go-scfind/internal/header"
	"github.com/mrjoshuak/go-scfind/internal/region"
	"github.com/mrjoshuak/go-scfind/internal/scferr"
)

// Load reads a cube from path. If reg is non-nil, only the requested
// sub-region is read (clipped to the cube's axes), and the loaded cube's
// NAXIS* and CRPIX* headers are rewritten relative to the new origin.
func Load(path string, reg *region.Bounds) (*Cube, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, scferr.New(scferr.KindFileAccess, "cube.Load", err)
	}
	defer f.Close()

	hdr, err := readHeader(f)
	if err != nil {
		return nil, err
	}

	bitpix, err := hdr.GetInt("BITPIX")
	if err != nil {
		return nil, scferr.New(scferr.KindFormat, "cube.Load", fmt.Errorf("missing BITPIX: %w", err))
	}
	dtype, err := DTypeFromBitpix(bitpix)
	if err != nil {
		return nil, err
	}
	if hdr.Check("SIMPLE") == 0 {
		return nil, scferr.New(scferr.KindFormat, "cube.Load", fmt.Errorf("missing SIMPLE keyword"))
	}

	naxis, err := hdr.GetInt("NAXIS")
	if err != nil {
		return nil, scferr.New(scferr.KindFormat, "cube.Load", fmt.Errorf("missing NAXIS: %w", err))
	}
	if naxis < 1 || naxis > 4 {
		return nil, scferr.New(scferr.KindFormat, "cube.Load", fmt.Errorf("NAXIS=%d out of range", naxis))
	}

	axisSize := [4]int64{1, 1, 1, 1}
	for i := int64(0); i < naxis; i++ {
		v, err := hdr.GetInt(fmt.Sprintf("NAXIS%d", i+1))
		if err != nil {
			return nil, scferr.New(scferr.KindFormat, "cube.Load", fmt.Errorf("missing NAXIS%d: %w", i+1, err))
		}
		axisSize[i] = v
	}
	if naxis == 4 && axisSize[3] > 1 {
		return nil, scferr.New(scferr.KindFormat, "cube.Load", fmt.Errorf("NAXIS4=%d > 1", axisSize[3]))
	}

	if err := checkTrivialScale(hdr); err != nil {
		return nil, err
	}

	dimension := int(naxis)
	if dimension > 3 {
		dimension = 3
	}
	nx, ny, nz := int(axisSize[0]), int(axisSize[1]), int(axisSize[2])

	c := &Cube{Hdr: hdr, dtype: dtype, nx: nx, ny: ny, nz: nz, dimension: dimension}

	if reg == nil {
		c.pay = newPayload(dtype, nx*ny*nz)
		if err := c.pay.readFrom(f); err != nil {
			return nil, scferr.New(scferr.KindFormat, "cube.Load", fmt.Errorf("truncated payload: %w", err))
		}
		return c, nil
	}

	clipped := reg.Clip(nx, ny, nz)
	rnx, rny, rnz := clipped.Size()
	c.pay = newPayload(dtype, rnx*rny*rnz)
	word := dtype.WordSize()

	payloadStart, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, scferr.New(scferr.KindFileAccess, "cube.Load", err)
	}

	rowBuf := make([]byte, rnx*word)
	dst := 0
	for z := clipped.ZMin; z <= clipped.ZMax; z++ {
		for y := clipped.YMin; y <= clipped.YMax; y++ {
			off := payloadStart + int64(x0(nx, ny, clipped.XMin, y, z))*int64(word)
			if _, err := f.Seek(off, io.SeekStart); err != nil {
				return nil, scferr.New(scferr.KindFileAccess, "cube.Load", err)
			}
			if _, err := io.ReadFull(f, rowBuf); err != nil {
				return nil, scferr.New(scferr.KindFormat, "cube.Load", fmt.Errorf("truncated region row: %w", err))
			}
			if err := c.pay.readRangeFrom(bytes.NewReader(rowBuf), dst, dst+rnx); err != nil {
				return nil, scferr.New(scferr.KindFormat, "cube.Load", err)
			}
			dst += rnx
		}
	}

	c.nx, c.ny, c.nz = rnx, rny, rnz
	rewriteRegionHeader(hdr, clipped, int(naxis))
	return c, nil
}

// x0 computes the flat payload index of (x,y,z) in the *original* cube
// geometry (nx,ny fixed), used to seek each region row.
func x0(nx, ny, x, y, z int) int {
	return x + nx*(y+ny*z)
}

// readHeader reads whole 2880-byte blocks from r until one contains the END
// record, then parses them.
func readHeader(r io.Reader) (*header.Header, error) {
	var buf []byte
	block := make([]byte, header.BlockSize)
	for {
		if _, err := io.ReadFull(r, block); err != nil {
			return nil, scferr.New(scferr.KindFormat, "cube.readHeader", fmt.Errorf("truncated header: %w", err))
		}
		buf = append(buf, block...)
		h, err := header.Parse(buf)
		if err == nil {
			return h, nil
		}
	}
}

func checkTrivialScale(hdr *header.Header) error {
	if v, err := hdr.GetFlt("BSCALE"); err == nil && v != 1 {
		return scferr.New(scferr.KindFormat, "cube.checkTrivialScale", fmt.Errorf("non-trivial BSCALE=%v", v))
	}
	if v, err := hdr.GetFlt("BZERO"); err == nil && v != 0 {
		return scferr.New(scferr.KindFormat, "cube.checkTrivialScale", fmt.Errorf("non-trivial BZERO=%v", v))
	}
	return nil
}

// rewriteRegionHeader updates NAXIS* to the clipped region's size and shifts
// CRPIXn (when present) by the region's minimum offset along each axis, so
// pixel coordinates after a region load remain relative to the new origin.
func rewriteRegionHeader(hdr *header.Header, b region.Bounds, naxis int) {
	nx, ny, nz := b.Size()
	hdr.PutInt("NAXIS1", int64(nx))
	if naxis >= 2 {
		hdr.PutInt("NAXIS2", int64(ny))
	}
	if naxis >= 3 {
		hdr.PutInt("NAXIS3", int64(nz))
	}
	shiftCRPIX(hdr, "CRPIX1", float64(b.XMin))
	shiftCRPIX(hdr, "CRPIX2", float64(b.YMin))
	shiftCRPIX(hdr, "CRPIX3", float64(b.ZMin))
}

func shiftCRPIX(hdr *header.Header, key string, offset float64) {
	v, err := hdr.GetFlt(key)
	if err != nil {
		return
	}
	hdr.PutFlt(key, v-offset)
}

// Save writes c to path, refusing to overwrite an existing file unless
// overwrite is true. The payload is padded with zero bytes up to the next
// block boundary.
func (c *Cube) Save(path string, overwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return scferr.New(scferr.KindFileAccess, "cube.Save", err)
	}
	defer f.Close()

	if _, err := f.Write(c.Hdr.Bytes()); err != nil {
		return scferr.New(scferr.KindFileAccess, "cube.Save", err)
	}
	if err := c.pay.writeTo(f); err != nil {
		return scferr.New(scferr.KindFileAccess, "cube.Save", err)
	}

	written := int64(len(c.Hdr.Bytes()) + c.pay.Len()*c.dtype.WordSize())
	pad := (header.BlockSize - written%header.BlockSize) % header.BlockSize
	if pad > 0 {
		if _, err := f.Write(make([]byte, pad)); err != nil {
			return scferr.New(scferr.KindFileAccess, "cube.Save", err)
		}
	}
	return nil
}
