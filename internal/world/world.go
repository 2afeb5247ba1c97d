// Package world provides the tile grid and its neighbor cache.
package world

import (
	"errors"
	"fmt"

	"github.com/samdwyer/tileworld/internal/tile"
)

// ErrOutOfBounds is wrapped by every OutOfBoundsError.
var ErrOutOfBounds = errors.New("out of bounds")

// OutOfBoundsError reports access to a cell outside the grid.
type OutOfBoundsError struct {
	X, Y int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("the tile at (%d, %d) is out of bounds", e.X, e.Y)
}

func (e *OutOfBoundsError) Unwrap() error {
	return ErrOutOfBounds
}

// World is a width x height grid of tiles. y grows downward.
type World struct {
	width  int
	height int
	tiles  []tile.Tile // row-major
}

// New creates a world filled with Nothing tiles.
func New(width, height int) *World {
	width, height = max(width, 0), max(height, 0)
	return &World{
		width:  width,
		height: height,
		tiles:  make([]tile.Tile, width*height),
	}
}

// Width returns the number of columns.
func (w *World) Width() int {
	return w.width
}

// Height returns the number of rows.
func (w *World) Height() int {
	return w.height
}

// Bounds returns the whole grid as a region.
func (w *World) Bounds() Region {
	return Region{Width: w.width, Height: w.height}
}

// InBounds reports whether (x, y) is a cell of the grid.
func (w *World) InBounds(x, y int) bool {
	return w.Bounds().Contains(x, y)
}

func (w *World) index(x, y int) (int, error) {
	if !w.InBounds(x, y) {
		return 0, &OutOfBoundsError{X: x, Y: y}
	}
	return y*w.width + x, nil
}

// Tile returns the tile at (x, y) for reading or mutation.
func (w *World) Tile(x, y int) (*tile.Tile, error) {
	i, err := w.index(x, y)
	if err != nil {
		return nil, err
	}
	return &w.tiles[i], nil
}

// TileAt returns a copy of the tile at (x, y), or the zero tile when out
// of bounds.
func (w *World) TileAt(x, y int) tile.Tile {
	i, err := w.index(x, y)
	if err != nil {
		return tile.Tile{}
	}
	return w.tiles[i]
}

// KindAt returns the kind at (x, y), or Nothing when out of bounds.
func (w *World) KindAt(x, y int) tile.Kind {
	return w.TileAt(x, y).Kind()
}

// NeighborsOf returns the four neighbors of (x, y) in West, South, East,
// North order. Cells beyond the edge are reported as tile.Edge().
func (w *World) NeighborsOf(x, y int) (tile.Neighbors, error) {
	var ns tile.Neighbors
	if !w.InBounds(x, y) {
		return ns, &OutOfBoundsError{X: x, Y: y}
	}
	for _, d := range tile.Directions {
		dx, dy := d.Offset()
		nx, ny := x+dx, y+dy
		if !w.InBounds(nx, ny) {
			ns[d] = tile.Edge()
			continue
		}
		ns[d] = tile.Of(w.tiles[ny*w.width+nx].Kind())
	}
	return ns, nil
}

// UpdateCachedNeighbors refreshes every tile's neighbor cache and mask.
// Call it after a batch of kind edits and before the next render.
func (w *World) UpdateCachedNeighbors() {
	for y := 0; y < w.height; y++ {
		for x := 0; x < w.width; x++ {
			w.refresh(x, y)
		}
	}
}

func (w *World) refresh(x, y int) {
	ns, err := w.NeighborsOf(x, y)
	if err != nil {
		return
	}
	w.tiles[y*w.width+x].SetNeighbors(ns)
}

// SetKind changes one tile and refreshes the caches of the tile and its
// four neighbors, so no full recache is needed.
func (w *World) SetKind(x, y int, k tile.Kind) error {
	t, err := w.Tile(x, y)
	if err != nil {
		return err
	}
	t.SetKind(k)
	w.refresh(x, y)
	for _, d := range tile.Directions {
		dx, dy := d.Offset()
		if w.InBounds(x+dx, y+dy) {
			w.refresh(x+dx, y+dy)
		}
	}
	return nil
}

// Each calls fn for every cell in row-major order.
func (w *World) Each(fn func(x, y int, t *tile.Tile)) {
	for y := 0; y < w.height; y++ {
		for x := 0; x < w.width; x++ {
			fn(x, y, &w.tiles[y*w.width+x])
		}
	}
}
