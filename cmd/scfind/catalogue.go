package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/mrjoshuak/go-scfind/internal/linkpar"
)

// writeCatalogue emits the per-source geometry table as a plain CSV, one
// row per final label: id, bounding box on each axis, and pixel count.
func writeCatalogue(path string, table *linkpar.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating catalogue %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "id,xmin,xmax,ymin,ymax,zmin,zmax,npix")
	for id := 1; id <= table.Count(); id++ {
		xmin, xmax, ymin, ymax, zmin, zmax := table.Bounds(id)
		fmt.Fprintf(w, "%d,%d,%d,%d,%d,%d,%d,%d\n", id, xmin, xmax, ymin, ymax, zmin, zmax, table.N(id))
	}
	return w.Flush()
}
