// Package header implements the FITS-subset header store: an ordered
// sequence of fixed-width 80-byte records kept as a flat byte buffer
// (rather than a parsed map) so that round-tripping preserves unknown
// keywords byte for byte.
package header

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mrjoshuak/go-scfind/internal/scferr"
)

const (
	// BlockSize is the FITS block size in bytes (36 records of 80 bytes).
	BlockSize = 2880
	// RecordSize is the fixed width of one header record in bytes.
	RecordSize = 80
	// RecordsPerBlock is the number of records in one block.
	RecordsPerBlock = BlockSize / RecordSize
)

// Header is an ordered sequence of fixed-width 80-byte records, always a
// multiple of BlockSize bytes and terminated by an END record.
type Header struct {
	buf []byte // raw record bytes, len(buf) % BlockSize == 0
}

// New returns a minimal header containing SIMPLE, BITPIX, NAXIS and END.
func New() *Header {
	h := &Header{buf: make([]byte, BlockSize)}
	for i := range h.buf {
		h.buf[i] = ' '
	}
	h.setRecord(0, formatBoolRecord("SIMPLE", true))
	h.setRecord(1, formatIntRecord("BITPIX", 8))
	h.setRecord(2, formatIntRecord("NAXIS", 0))
	h.setRecord(3, formatEndRecord())
	return h
}

// Parse wraps raw header bytes (already validated to be a multiple of
// BlockSize and END-terminated) into a Header.
func Parse(buf []byte) (*Header, error) {
	if len(buf)%BlockSize != 0 || len(buf) == 0 {
		return nil, scferr.New(scferr.KindFormat, "header.Parse", fmt.Errorf("length %d is not a positive multiple of %d", len(buf), BlockSize))
	}
	h := &Header{buf: append([]byte(nil), buf...)}
	if h.endLine() < 0 {
		return nil, scferr.New(scferr.KindFormat, "header.Parse", fmt.Errorf("no END record found"))
	}
	return h, nil
}

// MustParse is Parse for buffers already known to be well-formed (e.g. a
// cube's own header bytes being copied); it panics on error instead of
// returning one, the same MustCompile idiom regexp uses for literals whose
// validity is a compile-time guarantee rather than a runtime possibility.
func MustParse(buf []byte) *Header {
	h, err := Parse(buf)
	if err != nil {
		panic(err)
	}
	return h
}

// Bytes returns the raw header buffer (a copy's worth of bytes are not
// made; callers must not mutate the result).
func (h *Header) Bytes() []byte { return h.buf }

// NumRecords returns the number of 80-byte records in the header.
func (h *Header) NumRecords() int { return len(h.buf) / RecordSize }

func (h *Header) record(i int) []byte {
	return h.buf[i*RecordSize : (i+1)*RecordSize]
}

func (h *Header) setRecord(i int, rec []byte) {
	copy(h.record(i), rec)
}

// endLine returns the 0-based index of the END record, or -1 if absent.
func (h *Header) endLine() int {
	for i := 0; i < h.NumRecords(); i++ {
		r := h.record(i)
		if strings.TrimRight(string(r[:8]), " ") == "END" && (r[8] == ' ' || r[8] == 0) {
			return i
		}
	}
	return -1
}

// keywordAt returns record i's keyword, ignoring records whose byte 8 is
// neither space nor '=' (comment and continuation lines).
func (h *Header) keywordAt(i int) (string, bool) {
	r := h.record(i)
	if r[8] != ' ' && r[8] != '=' {
		return "", false
	}
	return strings.TrimRight(string(r[:8]), " "), true
}

// Check returns the 1-based position of the first record whose keyword
// matches key, or 0 if none match.
func (h *Header) Check(key string) int {
	key = strings.ToUpper(strings.TrimSpace(key))
	for i := 0; i < h.NumRecords(); i++ {
		kw, ok := h.keywordAt(i)
		if !ok {
			continue
		}
		if kw == key {
			return i + 1
		}
	}
	return 0
}

func (h *Header) valueField(line int) string {
	r := h.record(line - 1)
	if len(r) < 10 {
		return ""
	}
	v := string(r[10:])
	if j := strings.Index(v, "/"); j != -1 {
		v = v[:j]
	}
	return strings.TrimSpace(v)
}

// GetInt parses the integer value of key, returning 0 and a KindKeyMissing
// error if key is not present.
func (h *Header) GetInt(key string) (int64, error) {
	line := h.Check(key)
	if line == 0 {
		return 0, scferr.New(scferr.KindKeyMissing, "header.GetInt", fmt.Errorf("key %q not found", key))
	}
	v := h.valueField(line)
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, scferr.New(scferr.KindFormat, "header.GetInt", err)
	}
	return n, nil
}

// GetFlt parses the float value of key, returning NaN if key is not
// present.
func (h *Header) GetFlt(key string) (float64, error) {
	line := h.Check(key)
	if line == 0 {
		return math.NaN(), scferr.New(scferr.KindKeyMissing, "header.GetFlt", fmt.Errorf("key %q not found", key))
	}
	v := strings.Replace(h.valueField(line), "D", "E", 1)
	x, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return math.NaN(), scferr.New(scferr.KindFormat, "header.GetFlt", err)
	}
	return x, nil
}

// GetBool parses the boolean value of key, returning false and a
// KindKeyMissing error if key is not present. The parse is deliberately lenient: any non-space
// character at column 30 (0-based 29) other than 'F' is taken as true, so
// headers from sloppy writers still read correctly.
func (h *Header) GetBool(key string) (bool, error) {
	line := h.Check(key)
	if line == 0 {
		return false, scferr.New(scferr.KindKeyMissing, "header.GetBool", fmt.Errorf("key %q not found", key))
	}
	r := h.record(line - 1)
	if len(r) <= 29 {
		return false, scferr.New(scferr.KindFormat, "header.GetBool", fmt.Errorf("record too short"))
	}
	c := r[29]
	if c == ' ' {
		return false, scferr.New(scferr.KindFormat, "header.GetBool", fmt.Errorf("no boolean at column 30"))
	}
	return c != 'F', nil
}

// GetStr parses the string value of key, returning ("", false) when the
// key is absent or its value field is not a quoted string.
func (h *Header) GetStr(key string) (string, bool) {
	line := h.Check(key)
	if line == 0 {
		return "", false
	}
	r := h.record(line - 1)
	v := string(r[10:])
	v = strings.TrimRight(v, " ")
	if len(v) < 2 || v[0] != '\'' {
		return "", false
	}
	inner := v[1:]
	if j := strings.LastIndexByte(inner, '\''); j >= 0 {
		inner = inner[:j]
	}
	inner = strings.ReplaceAll(inner, "''", "'")
	return strings.TrimRight(inner, " "), true
}
