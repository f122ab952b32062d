package cube

import (
	"encoding/binary"
	"io"
)

// numeric is the set of element types a payload slice may hold.
type numeric interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

func getFlt[T numeric](s []T, i int) float64    { return float64(s[i]) }
func setFlt[T numeric](s []T, i int, v float64) { s[i] = T(v) }
func getInt[T numeric](s []T, i int) int64      { return int64(s[i]) }
func setInt[T numeric](s []T, i int, v int64)   { s[i] = T(v) }

// payload is the tagged variant over the six on-disk element types: only
// the slice matching dtype is non-nil. Parallel typed slices keep the hot
// access paths free of the type assertion a single interface-boxed slice
// would need per element.
type payload struct {
	dtype DType
	i8    []int8
	i16   []int16
	i32   []int32
	i64   []int64
	f32   []float32
	f64   []float64
}

func newPayload(dtype DType, n int) payload {
	p := payload{dtype: dtype}
	switch dtype {
	case I8:
		p.i8 = make([]int8, n)
	case I16:
		p.i16 = make([]int16, n)
	case I32:
		p.i32 = make([]int32, n)
	case I64:
		p.i64 = make([]int64, n)
	case F32:
		p.f32 = make([]float32, n)
	case F64:
		p.f64 = make([]float64, n)
	}
	return p
}

func (p payload) Len() int {
	switch p.dtype {
	case I8:
		return len(p.i8)
	case I16:
		return len(p.i16)
	case I32:
		return len(p.i32)
	case I64:
		return len(p.i64)
	case F32:
		return len(p.f32)
	default:
		return len(p.f64)
	}
}

func (p payload) GetFlt(i int) float64 {
	switch p.dtype {
	case I8:
		return getFlt(p.i8, i)
	case I16:
		return getFlt(p.i16, i)
	case I32:
		return getFlt(p.i32, i)
	case I64:
		return getFlt(p.i64, i)
	case F32:
		return getFlt(p.f32, i)
	default:
		return getFlt(p.f64, i)
	}
}

func (p payload) SetFlt(i int, v float64) {
	switch p.dtype {
	case I8:
		setFlt(p.i8, i, v)
	case I16:
		setFlt(p.i16, i, v)
	case I32:
		setFlt(p.i32, i, v)
	case I64:
		setFlt(p.i64, i, v)
	case F32:
		setFlt(p.f32, i, v)
	default:
		setFlt(p.f64, i, v)
	}
}

func (p payload) GetInt(i int) int64 {
	switch p.dtype {
	case I8:
		return getInt(p.i8, i)
	case I16:
		return getInt(p.i16, i)
	case I32:
		return getInt(p.i32, i)
	case I64:
		return getInt(p.i64, i)
	case F32:
		return getInt(p.f32, i)
	default:
		return getInt(p.f64, i)
	}
}

func (p payload) SetInt(i int, v int64) {
	switch p.dtype {
	case I8:
		setInt(p.i8, i, v)
	case I16:
		setInt(p.i16, i, v)
	case I32:
		setInt(p.i32, i, v)
	case I64:
		setInt(p.i64, i, v)
	case F32:
		setInt(p.f32, i, v)
	default:
		setInt(p.f64, i, v)
	}
}

// F32 returns the underlying float32 slice and true iff the payload's dtype
// is F32. Used by the filter and noise-scaling operations, which are only
// defined for floating-point payloads.
func (p payload) F32() ([]float32, bool) {
	if p.dtype != F32 {
		return nil, false
	}
	return p.f32, true
}

// F64 returns the underlying float64 slice and true iff the payload's dtype
// is F64.
func (p payload) F64() ([]float64, bool) {
	if p.dtype != F64 {
		return nil, false
	}
	return p.f64, true
}

func (p payload) clone() payload {
	q := payload{dtype: p.dtype}
	q.i8 = append([]int8(nil), p.i8...)
	q.i16 = append([]int16(nil), p.i16...)
	q.i32 = append([]int32(nil), p.i32...)
	q.i64 = append([]int64(nil), p.i64...)
	q.f32 = append([]float32(nil), p.f32...)
	q.f64 = append([]float64(nil), p.f64...)
	return q
}

// readFrom decodes the payload's elements from r in big-endian order.
// binary.Read performs the on-disk-big-endian to host-native conversion
// element by element, so no separate swap buffer is needed.
func (p payload) readFrom(r io.Reader) error {
	switch p.dtype {
	case I8:
		return binary.Read(r, binary.BigEndian, p.i8)
	case I16:
		return binary.Read(r, binary.BigEndian, p.i16)
	case I32:
		return binary.Read(r, binary.BigEndian, p.i32)
	case I64:
		return binary.Read(r, binary.BigEndian, p.i64)
	case F32:
		return binary.Read(r, binary.BigEndian, p.f32)
	default:
		return binary.Read(r, binary.BigEndian, p.f64)
	}
}

// readRangeFrom decodes hi-lo big-endian elements from r into the payload's
// backing slice at [lo:hi), used by region loading to fill one row at a
// time instead of the whole payload at once.
func (p payload) readRangeFrom(r io.Reader, lo, hi int) error {
	switch p.dtype {
	case I8:
		return binary.Read(r, binary.BigEndian, p.i8[lo:hi])
	case I16:
		return binary.Read(r, binary.BigEndian, p.i16[lo:hi])
	case I32:
		return binary.Read(r, binary.BigEndian, p.i32[lo:hi])
	case I64:
		return binary.Read(r, binary.BigEndian, p.i64[lo:hi])
	case F32:
		return binary.Read(r, binary.BigEndian, p.f32[lo:hi])
	default:
		return binary.Read(r, binary.BigEndian, p.f64[lo:hi])
	}
}

// writeTo encodes the payload's elements to w in big-endian order.
func (p payload) writeTo(w io.Writer) error {
	switch p.dtype {
	case I8:
		return binary.Write(w, binary.BigEndian, p.i8)
	case I16:
		return binary.Write(w, binary.BigEndian, p.i16)
	case I32:
		return binary.Write(w, binary.BigEndian, p.i32)
	case I64:
		return binary.Write(w, binary.BigEndian, p.i64)
	case F32:
		return binary.Write(w, binary.BigEndian, p.f32)
	default:
		return binary.Write(w, binary.BigEndian, p.f64)
	}
}
