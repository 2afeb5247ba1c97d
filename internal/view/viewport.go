// Package view maps world tiles to screen rectangles.
package view

import (
	"errors"
	"fmt"
	"math"

	"github.com/samdwyer/tileworld/internal/gfx"
	"github.com/samdwyer/tileworld/internal/tile"
	"github.com/samdwyer/tileworld/internal/world"
)

// ErrZoom is returned for a non-positive zoom factor.
var ErrZoom = errors.New("view: zoom must be positive")

// Viewport is a world-to-screen transform. Center is in tile coordinates,
// Output in output pixels, and one world pixel spans Zoom output pixels.
type Viewport struct {
	center gfx.Point
	output gfx.Size
	zoom   float64
}

// New returns a viewport. zoom must be positive.
func New(center gfx.Point, output gfx.Size, zoom float64) (*Viewport, error) {
	v := &Viewport{center: center, output: output, zoom: 1}
	if err := v.SetZoom(zoom); err != nil {
		return nil, err
	}
	return v, nil
}

// Center returns the tile the viewport is centered on.
func (v *Viewport) Center() gfx.Point {
	return v.center
}

// SetCenter moves the viewport.
func (v *Viewport) SetCenter(p gfx.Point) {
	v.center = p
}

// Pan moves the center by (dx, dy) tiles.
func (v *Viewport) Pan(dx, dy int) {
	v.center.X += dx
	v.center.Y += dy
}

// Output returns the output size in pixels.
func (v *Viewport) Output() gfx.Size {
	return v.output
}

// SetOutput changes the output size, e.g. after a window resize.
func (v *Viewport) SetOutput(s gfx.Size) {
	v.output = s
}

// Zoom returns the zoom factor.
func (v *Viewport) Zoom() float64 {
	return v.zoom
}

// SetZoom changes the zoom factor.
func (v *Viewport) SetZoom(z float64) error {
	if z <= 0 || math.IsNaN(z) || math.IsInf(z, 0) {
		return fmt.Errorf("%w: %v", ErrZoom, z)
	}
	v.zoom = z
	return nil
}

// tileSpan is the edge of one tile in output pixels, before truncation.
func (v *Viewport) tileSpan() float64 {
	return tile.Size * v.zoom
}

// TileBounds returns the visible rectangle in tile units. A tile that is
// only partly visible at the right or bottom edge is included.
func (v *Viewport) TileBounds() gfx.Rect {
	span := v.tileSpan()
	w := int(math.Ceil(float64(v.output.W) / span))
	h := int(math.Ceil(float64(v.output.H) / span))
	ox := v.center.X - int(float64(v.output.W)/2/v.zoom/tile.Size)
	oy := v.center.Y - int(float64(v.output.H)/2/v.zoom/tile.Size)
	return gfx.R(ox, oy, max(w, 0), max(h, 0))
}

// DestRect returns the output rectangle of tile (i, j).
func (v *Viewport) DestRect(i, j int) gfx.Rect {
	b := v.TileBounds()
	return v.destRect(b, i, j)
}

func (v *Viewport) destRect(b gfx.Rect, i, j int) gfx.Rect {
	span := v.tileSpan()
	size := int(span)
	return gfx.R(
		int(float64(i)*span-float64(b.X)*span),
		int(float64(j)*span-float64(b.Y)*span),
		size, size,
	)
}

// ScreenToTile returns the tile under output pixel (px, py).
func (v *Viewport) ScreenToTile(px, py int) (int, int) {
	b := v.TileBounds()
	span := v.tileSpan()
	return b.X + int(math.Floor(float64(px)/span)), b.Y + int(math.Floor(float64(py)/span))
}

// Each calls fn for every visible tile coordinate that lies inside w,
// row by row.
func (v *Viewport) Each(w *world.World, fn func(i, j int, dest gfx.Rect)) {
	b := v.TileBounds()
	for j := b.Y; j < b.Y+b.H; j++ {
		if j < 0 || j >= w.Height() {
			continue
		}
		for i := b.X; i < b.X+b.W; i++ {
			if i < 0 || i >= w.Width() {
				continue
			}
			fn(i, j, v.destRect(b, i, j))
		}
	}
}

// RenderStats summarizes one render pass.
type RenderStats struct {
	Visible int   // in-world tiles inside the viewport
	Drawn   int   // tiles whose blit succeeded, Nothing included
	Failed  int   // tiles whose blit returned an error
	Err     error // first blit error
}

// Render draws every visible tile of w. Tiles cut by the output edge are
// drawn whole; the canvas clips them. A failed blit is counted and the
// pass continues.
func (v *Viewport) Render(c gfx.Canvas, w *world.World, atlas *tile.Atlas) RenderStats {
	var stats RenderStats
	v.Each(w, func(i, j int, dest gfx.Rect) {
		stats.Visible++
		t, err := w.Tile(i, j)
		if err == nil {
			err = t.Render(atlas, c, dest)
		}
		if err != nil {
			stats.Failed++
			if stats.Err == nil {
				stats.Err = fmt.Errorf("tile (%d, %d): %w", i, j, err)
			}
			return
		}
		stats.Drawn++
	})
	return stats
}
