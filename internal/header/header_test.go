package header

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/mrjoshuak/go-scfind/internal/scferr"
)

func TestNewHasMandatoryKeys(t *testing.T) {
	h := New()
	for _, key := range []string{"SIMPLE", "BITPIX", "NAXIS"} {
		if h.Check(key) == 0 {
			t.Errorf("New() missing mandatory key %q", key)
		}
	}
	if h.endLine() < 0 {
		t.Error("New() has no END record")
	}
}

func TestPutGetInt(t *testing.T) {
	h := New()
	isNew, err := h.PutInt("NAXIS1", 512)
	if err != nil {
		t.Fatalf("PutInt: %v", err)
	}
	if !isNew {
		t.Error("PutInt should report a new insertion")
	}
	got, err := h.GetInt("NAXIS1")
	if err != nil {
		t.Fatalf("GetInt: %v", err)
	}
	if got != 512 {
		t.Errorf("GetInt() = %d, want 512", got)
	}

	// overwrite in place
	isNew, err = h.PutInt("NAXIS1", 1024)
	if err != nil {
		t.Fatalf("PutInt overwrite: %v", err)
	}
	if isNew {
		t.Error("PutInt overwrite should report isNew=false")
	}
	got, _ = h.GetInt("NAXIS1")
	if got != 1024 {
		t.Errorf("GetInt() after overwrite = %d, want 1024", got)
	}
}

func TestPutGetFlt(t *testing.T) {
	h := New()
	if _, err := h.PutFlt("CRVAL1", 3.14159265); err != nil {
		t.Fatalf("PutFlt: %v", err)
	}
	got, err := h.GetFlt("CRVAL1")
	if err != nil {
		t.Fatalf("GetFlt: %v", err)
	}
	if math.Abs(got-3.14159265) > 1e-6 {
		t.Errorf("GetFlt() = %v, want ~3.14159265", got)
	}
}

func TestPutGetBool(t *testing.T) {
	h := New()
	if _, err := h.PutBool("LATPOLE", true); err != nil {
		t.Fatalf("PutBool: %v", err)
	}
	got, err := h.GetBool("LATPOLE")
	if err != nil || !got {
		t.Errorf("GetBool() = %v, %v, want true, nil", got, err)
	}
}

func TestPutGetStr(t *testing.T) {
	h := New()
	if _, err := h.PutStr("BUNIT", "Jy/beam"); err != nil {
		t.Fatalf("PutStr: %v", err)
	}
	got, ok := h.GetStr("BUNIT")
	if !ok || got != "Jy/beam" {
		t.Errorf("GetStr() = %q, %v, want %q, true", got, ok, "Jy/beam")
	}
}

func TestPutStrEscapesQuote(t *testing.T) {
	h := New()
	if _, err := h.PutStr("OBJECT", "O'Brien's field"); err != nil {
		t.Fatalf("PutStr: %v", err)
	}
	got, ok := h.GetStr("OBJECT")
	if !ok || got != "O'Brien's field" {
		t.Errorf("GetStr() = %q, %v, want %q, true", got, ok, "O'Brien's field")
	}
}

func TestDelThenGetFails(t *testing.T) {
	h := New()
	h.PutInt("NAXIS1", 10)
	h.Del("NAXIS1")
	_, err := h.GetInt("NAXIS1")
	if err == nil {
		t.Fatal("GetInt after Del should fail")
	}
	var kerr *scferr.Error
	if !errors.As(err, &kerr) || kerr.Kind != scferr.KindKeyMissing {
		t.Errorf("expected KindKeyMissing, got %v", err)
	}
}

func TestGetMissingKeyDefaults(t *testing.T) {
	h := New()
	if n, err := h.GetInt("NOPE"); n != 0 || err == nil {
		t.Errorf("GetInt(missing) = %d, %v, want 0, error", n, err)
	}
	if f, err := h.GetFlt("NOPE"); !math.IsNaN(f) || err == nil {
		t.Errorf("GetFlt(missing) = %v, %v, want NaN, error", f, err)
	}
	if b, err := h.GetBool("NOPE"); b != false || err == nil {
		t.Errorf("GetBool(missing) = %v, %v, want false, error", b, err)
	}
	if _, ok := h.GetStr("NOPE"); ok {
		t.Error("GetStr(missing) should return ok=false")
	}
}

func TestHeaderGrowsByWholeBlocks(t *testing.T) {
	h := New()
	initialBlocks := len(h.Bytes()) / BlockSize
	// RecordsPerBlock-4 distinct keys exhaust the remaining free slots in
	// the first block (4 are already used by SIMPLE/BITPIX/NAXIS/END), so
	// inserting RecordsPerBlock distinct keys must start a second block.
	for i := 0; i < RecordsPerBlock; i++ {
		h.PutInt(fmt.Sprintf("KEY%02d", i), int64(i))
	}
	grown := len(h.Bytes()) / BlockSize
	if grown <= initialBlocks {
		t.Errorf("expected header to grow past %d blocks, got %d", initialBlocks, grown)
	}
	if len(h.Bytes())%BlockSize != 0 {
		t.Errorf("header length %d not a multiple of block size", len(h.Bytes()))
	}
}

func TestHeaderShrinksAfterDel(t *testing.T) {
	h := New()
	for i := 0; i < RecordsPerBlock; i++ {
		h.PutInt(fmt.Sprintf("KEY%02d", i), int64(i))
	}
	grown := len(h.Bytes())
	for i := 0; i < RecordsPerBlock; i++ {
		h.Del(fmt.Sprintf("KEY%02d", i))
	}
	shrunk := len(h.Bytes())
	if shrunk >= grown {
		t.Errorf("expected header to shrink after deleting inserted keys: grown=%d shrunk=%d", grown, shrunk)
	}
}
