package header

import (
	"errors"
	"strings"

	"github.com/mrjoshuak/go-scfind/internal/scferr"
)

// putRecord overwrites the existing record for key if present, else inserts
// a new record immediately before END, growing the header by one block when
// the insertion would cross a block boundary. Returns whether the record
// was newly inserted.
func (h *Header) putRecord(key string, rec []byte) (bool, error) {
	line := h.Check(key)
	if line != 0 {
		h.setRecord(line-1, rec)
		return false, nil
	}

	end := h.endLine()
	if end < 0 {
		return false, scferr.New(scferr.KindFormat, "header.put", errors.New("no END record"))
	}

	// Blank records already present after END in the final block give us
	// room to insert without growing; otherwise END sits at the very last
	// record slot and the insertion must extend the header by one block.
	if end == h.NumRecords()-1 {
		h.buf = append(h.buf, make([]byte, BlockSize)...)
		newBlock := h.buf[len(h.buf)-BlockSize:]
		for i := range newBlock {
			newBlock[i] = ' '
		}
	}

	// Shift everything from `end` onward (including END) down by one
	// record into the now-available trailing slot, then write the new
	// record into the freed slot at `end`.
	copy(h.buf[(end+1)*RecordSize:], h.buf[end*RecordSize:(h.NumRecords()-1)*RecordSize])
	h.setRecord(end, rec)
	return true, nil
}

// PutInt sets key to an integer value, inserting before END if absent.
func (h *Header) PutInt(key string, v int64) (bool, error) {
	key = strings.ToUpper(key)
	return h.putRecord(key, formatIntRecord(key, v))
}

// PutFlt sets key to a float value, inserting before END if absent.
func (h *Header) PutFlt(key string, v float64) (bool, error) {
	key = strings.ToUpper(key)
	return h.putRecord(key, formatFltRecord(key, v))
}

// PutBool sets key to a boolean value, inserting before END if absent.
func (h *Header) PutBool(key string, v bool) (bool, error) {
	key = strings.ToUpper(key)
	return h.putRecord(key, formatBoolRecord(key, v))
}

// PutStr sets key to a string value, inserting before END if absent.
func (h *Header) PutStr(key, v string) (bool, error) {
	key = strings.ToUpper(key)
	return h.putRecord(key, formatStrRecord(key, v))
}

// Del removes every record whose keyword matches key, shifting subsequent
// records up and space-filling the tail; shrinks the header by whole empty
// blocks that precede END.
func (h *Header) Del(key string) {
	key = strings.ToUpper(strings.TrimSpace(key))
	n := h.NumRecords()
	out := make([]byte, 0, len(h.buf))
	for i := 0; i < n; i++ {
		if kw, ok := h.keywordAt(i); ok && kw == key {
			continue
		}
		out = append(out, h.record(i)...)
	}
	for len(out)%RecordSize != 0 {
		out = append(out, ' ')
	}
	for len(out) < len(h.buf) {
		out = append(out, formatBlankRecord()...)
	}
	h.buf = out
	h.shrinkTrailingEmptyBlocks()
}

// shrinkTrailingEmptyBlocks drops whole blank blocks that sit between END
// and the header's current end, so Del releases space it no longer needs.
func (h *Header) shrinkTrailingEmptyBlocks() {
	end := h.endLine()
	if end < 0 {
		return
	}
	endBlock := end / RecordsPerBlock
	lastBlock := h.NumRecords()/RecordsPerBlock - 1
	for lastBlock > endBlock && h.blockIsBlank(lastBlock) {
		h.buf = h.buf[:len(h.buf)-BlockSize]
		lastBlock--
	}
}

func (h *Header) blockIsBlank(block int) bool {
	start := block * BlockSize
	for _, b := range h.buf[start : start+BlockSize] {
		if b != ' ' {
			return false
		}
	}
	return true
}
