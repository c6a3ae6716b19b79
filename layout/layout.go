// Package layout tiles an output canvas into one chart region per channel.
package layout

import (
	"fmt"
	"image"

	"github.com/Noofbiz/seqvis"
)

// MaxColumns caps the width of the grid.
const MaxColumns = 3

// Grid is a rows x cols tiling.
type Grid struct {
	Rows int
	Cols int
}

// Tile is the region of the canvas owned by one channel. Tiles returned by
// the same call never overlap, so each one can be drawn independently.
type Tile struct {
	Index int // channel index
	Row   int
	Col   int
	Rect  image.Rectangle
}

// Plan returns the grid for c channels: min(3, c) columns and as many rows
// as needed to fit every channel.
func Plan(channels int) (Grid, error) {
	if channels <= 0 {
		return Grid{}, fmt.Errorf("%w: channel count must be >= 1, got %d", seqvis.ErrInvalidInput, channels)
	}
	cols := min(MaxColumns, channels)
	rows := (channels + cols - 1) / cols
	return Grid{Rows: rows, Cols: cols}, nil
}

// Cells is rows * cols.
func (g Grid) Cells() int { return g.Rows * g.Cols }

// Tiles splits bounds into g.Rows x g.Cols equal regions and returns the
// first n of them in row-major order. Cells past n are left out; nothing is
// ever drawn there. Region edges sit at Min + i*size/count, so regions differ
// in size by at most one pixel and together cover bounds exactly.
func (g Grid) Tiles(n int, bounds image.Rectangle) ([]Tile, error) {
	if g.Rows <= 0 || g.Cols <= 0 {
		return nil, fmt.Errorf("%w: empty grid %dx%d", seqvis.ErrInvalidInput, g.Rows, g.Cols)
	}
	if n <= 0 || n > g.Cells() {
		return nil, fmt.Errorf("%w: %d tiles do not fit a %dx%d grid", seqvis.ErrInvalidInput, n, g.Rows, g.Cols)
	}
	w, h := bounds.Dx(), bounds.Dy()
	if w < g.Cols || h < g.Rows {
		return nil, fmt.Errorf("%w: canvas %dx%d too small for a %dx%d grid", seqvis.ErrInvalidInput, w, h, g.Rows, g.Cols)
	}

	tiles := make([]Tile, 0, n)
	for i := 0; i < n; i++ {
		r, c := i/g.Cols, i%g.Cols
		tiles = append(tiles, Tile{
			Index: i,
			Row:   r,
			Col:   c,
			Rect: image.Rect(
				bounds.Min.X+c*w/g.Cols,
				bounds.Min.Y+r*h/g.Rows,
				bounds.Min.X+(c+1)*w/g.Cols,
				bounds.Min.Y+(r+1)*h/g.Rows,
			),
		})
	}
	return tiles, nil
}
