package world

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/tileworld/internal/telemetry"
	"github.com/samdwyer/tileworld/internal/tile"
)

// Fill sets every tile to kind k. Neighbor caches are not refreshed.
func (w *World) Fill(k tile.Kind) {
	w.FillRegion(w.Bounds(), k)
}

// FillRegion sets every in-bounds tile of r to kind k. Neighbor caches are
// not refreshed.
func (w *World) FillRegion(r Region, k tile.Kind) {
	r = r.Clip(w.width, w.height)
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			w.tiles[y*w.width+x].SetKind(k)
		}
	}
}

// Layered fills row groundRow with Grass, every row below it with Dirt and
// everything above with Nothing, then recaches the neighbors.
func (w *World) Layered(ctx context.Context, groundRow int) {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "world.fill")
	defer span.End()

	startTime := time.Now()

	w.Fill(tile.Nothing)
	w.FillRegion(Region{X: 0, Y: groundRow, Width: w.width, Height: 1}, tile.Grass)
	w.FillRegion(Region{X: 0, Y: groundRow + 1, Width: w.width, Height: w.height - groundRow - 1}, tile.Dirt)
	w.UpdateCachedNeighbors()

	span.SetAttributes(
		attribute.Int("world.width", w.width),
		attribute.Int("world.height", w.height),
		attribute.Int("world.ground_row", groundRow),
		attribute.Int64("world.fill_us", time.Since(startTime).Microseconds()),
	)
}

// Stats counts the tiles of each kind.
func (w *World) Stats() map[tile.Kind]int {
	counts := make(map[tile.Kind]int)
	for i := range w.tiles {
		counts[w.tiles[i].Kind()]++
	}
	return counts
}
