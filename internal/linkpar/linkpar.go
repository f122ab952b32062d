// Package linkpar implements the linker parameter table: an append-only
// set of per-provisional-label records (pixel count, 3-D bounding box, and
// a final remap label) that the linker feeds during connected-component
// labelling and consumes during its size filter / relabel pass.
package linkpar

import "github.com/mrjoshuak/go-scfind/internal/scferr"

// initialBlock is the starting capacity; the table grows by doubling so a
// labelling pass over a crowded field stays amortised-constant per label.
const initialBlock = 1024

// row is one record: pixel count, bounding box (kept as int for
// arithmetic; every accepted label's box must fit in 16 bits, checked at
// linker entry), and final remap label.
type row struct {
	n                                  int
	xmin, xmax, ymin, ymax, zmin, zmax int
	label                              int
}

// Table is the append-only LinkerPar table. Labels 0 and 1 are reserved
// (background, candidate); valid provisional labels start at 2. Table
// stores two sentinel rows at indices 0 and 1 so provisional label ℓ maps
// directly to rows[ℓ] without an offset.
type Table struct {
	rows []row
}

// New returns an empty table with its two sentinel rows.
func New() *Table {
	return &Table{rows: make([]row, 2, initialBlock)}
}

// grow appends empty rows until index i is valid.
func (t *Table) grow(i int) {
	for i >= len(t.rows) {
		if len(t.rows) == cap(t.rows) {
			newCap := cap(t.rows) * 2
			if newCap == 0 {
				newCap = initialBlock
			}
			grown := make([]row, len(t.rows), newCap)
			copy(grown, t.rows)
			t.rows = grown
		}
		t.rows = append(t.rows, row{})
	}
}

// Push appends a new row for the next provisional label with pixel count 1
// and a degenerate bounding box at (x,y,z), returning that label.
func (t *Table) Push(x, y, z int) int {
	label := len(t.rows)
	t.grow(label)
	t.rows[label] = row{n: 1, xmin: x, xmax: x, ymin: y, ymax: y, zmin: z, zmax: z}
	return label
}

// Update increments the pixel count for label and widens its bounding box
// to include (x,y,z).
func (t *Table) Update(label, x, y, z int) {
	r := &t.rows[label]
	r.n++
	if x < r.xmin {
		r.xmin = x
	}
	if x > r.xmax {
		r.xmax = x
	}
	if y < r.ymin {
		r.ymin = y
	}
	if y > r.ymax {
		r.ymax = y
	}
	if z < r.zmin {
		r.zmin = z
	}
	if z > r.zmax {
		r.zmax = z
	}
}

// Axis selects one of the three spatial/spectral axes for GetSize/Bounds.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// GetSize returns bbmax-bbmin+1 along the requested axis for label.
func (t *Table) GetSize(label int, axis Axis) int {
	r := t.rows[label]
	switch axis {
	case AxisX:
		return r.xmax - r.xmin + 1
	case AxisY:
		return r.ymax - r.ymin + 1
	default:
		return r.zmax - r.zmin + 1
	}
}

// Bounds returns the full bounding box of label.
func (t *Table) Bounds(label int) (xmin, xmax, ymin, ymax, zmin, zmax int) {
	r := t.rows[label]
	return r.xmin, r.xmax, r.ymin, r.ymax, r.zmin, r.zmax
}

// N returns the pixel count recorded for label.
func (t *Table) N(label int) int {
	return t.rows[label].n
}

// SetLabel sets the final remap label for a provisional label.
func (t *Table) SetLabel(provisional, final int) {
	t.rows[provisional].label = final
}

// GetLabel returns the final remap label for a provisional label (0 means
// not yet assigned).
func (t *Table) GetLabel(provisional int) int {
	return t.rows[provisional].label
}

// Len returns the number of provisional labels currently allocated,
// including the two reserved sentinel rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Count returns the number of surviving sources after Reduce.
func (t *Table) Count() int {
	if len(t.rows) == 0 {
		return 0
	}
	return len(t.rows) - 1
}

// CheckBounds16 verifies every row's bounding box fits in 16 bits,
// complementing the linker's cube-dimension check at entry.
func (t *Table) CheckBounds16() error {
	const max16 = 1<<16 - 1
	for label := 2; label < len(t.rows); label++ {
		r := t.rows[label]
		for _, v := range []int{r.xmin, r.xmax, r.ymin, r.ymax, r.zmin, r.zmax} {
			if v < 0 || v > max16 {
				return scferr.New(scferr.KindIndexRange, "linkpar.CheckBounds16", nil)
			}
		}
	}
	return nil
}

// Reduce compacts the table, discarding rows whose final label is 0 (not
// assigned a surviving label). After Reduce, the table is reindexed by
// final label: Table.N(k)/Bounds(k)/GetLabel(k) for k=1..K describe the
// k-th surviving source directly (index 0 is an unused sentinel so final
// labels, which start at 1, need no offset).
func (t *Table) Reduce() {
	var survivors []row
	for label := 2; label < len(t.rows); label++ {
		r := t.rows[label]
		if r.label == 0 {
			continue
		}
		survivors = append(survivors, r)
	}
	rows := make([]row, len(survivors)+1) // index 0 sentinel
	for _, r := range survivors {
		rows[r.label] = r
	}
	t.rows = rows
}
