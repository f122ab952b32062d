package header

import "fmt"

// formatIntRecord builds an 80-byte record with an integer value,
// right-justified in a width-20 field.
func formatIntRecord(key string, v int64) []byte {
	return formatRecord(key, fmt.Sprintf("%20d", v))
}

// formatFltRecord builds an 80-byte record with a float value formatted
// as %20.11E.
func formatFltRecord(key string, v float64) []byte {
	return formatRecord(key, fmt.Sprintf("%20.11E", v))
}

// formatBoolRecord builds an 80-byte record with T/F at column 30.
func formatBoolRecord(key string, v bool) []byte {
	c := byte('F')
	if v {
		c = 'T'
	}
	value := make([]byte, 20)
	for i := range value {
		value[i] = ' '
	}
	value[19] = c
	return formatRecord(key, string(value))
}

// formatStrRecord builds an 80-byte record with a quoted string value
// starting at column 11, doubling any embedded single quote.
func formatStrRecord(key, v string) []byte {
	if len(v) > 68 {
		v = v[:68]
	}
	escaped := ""
	for _, r := range v {
		if r == '\'' {
			escaped += "''"
		} else {
			escaped += string(r)
		}
	}
	return formatRecord(key, "'"+escaped+"'")
}

// formatRecord lays out an 80-byte record: 8-byte keyword, "= ", then the
// pre-formatted value field, space-padded to fill the record.
func formatRecord(key, value string) []byte {
	rec := make([]byte, RecordSize)
	for i := range rec {
		rec[i] = ' '
	}
	kb := []byte(key)
	if len(kb) > 8 {
		kb = kb[:8]
	}
	copy(rec[0:8], kb)
	copy(rec[8:10], "= ")
	vb := []byte(value)
	if len(vb) > RecordSize-10 {
		vb = vb[:RecordSize-10]
	}
	copy(rec[10:10+len(vb)], vb)
	return rec
}

// formatEndRecord builds the END sentinel record.
func formatEndRecord() []byte {
	rec := make([]byte, RecordSize)
	for i := range rec {
		rec[i] = ' '
	}
	copy(rec[0:3], "END")
	return rec
}

// formatBlankRecord builds an all-space record; keywordAt reads its
// keyword as empty, so Check never matches it during lookup.
func formatBlankRecord() []byte {
	rec := make([]byte, RecordSize)
	for i := range rec {
		rec[i] = ' '
	}
	return rec
}
