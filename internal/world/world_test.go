package world

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/tileworld/internal/tile"
)

func TestNewWorldIsEmpty(t *testing.T) {
	w := New(4, 3)
	if w.Width() != 4 || w.Height() != 3 {
		t.Fatalf("size = %dx%d, want 4x3", w.Width(), w.Height())
	}
	w.Each(func(x, y int, tl *tile.Tile) {
		if tl.Kind() != tile.Nothing {
			t.Errorf("tile (%d,%d) kind = %v, want Nothing", x, y, tl.Kind())
		}
		if tl.NeighborMask() != 0 {
			t.Errorf("tile (%d,%d) mask = %d, want 0", x, y, tl.NeighborMask())
		}
	})
}

func TestTileBounds(t *testing.T) {
	w := New(10, 10)

	_, err := w.Tile(10, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
	var oob *OutOfBoundsError
	require.True(t, errors.As(err, &oob))
	assert.Equal(t, 10, oob.X)
	assert.Equal(t, 0, oob.Y)
	assert.Equal(t, "the tile at (10, 0) is out of bounds", err.Error())

	_, err = w.Tile(9, 9)
	assert.NoError(t, err)

	_, err = w.Tile(-1, 3)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestTileAccessSucceedsIffInBounds(t *testing.T) {
	for _, dims := range [][2]int{{1, 1}, {3, 5}, {7, 2}} {
		w := New(dims[0], dims[1])
		for y := -1; y <= dims[1]+1; y++ {
			for x := -1; x <= dims[0]+1; x++ {
				_, err := w.Tile(x, y)
				want := x >= 0 && x < dims[0] && y >= 0 && y < dims[1]
				if (err == nil) != want {
					t.Errorf("%dx%d: Tile(%d,%d) err = %v, want success %v", dims[0], dims[1], x, y, err, want)
				}
			}
		}
	}
}

func TestNeighborsOfEdges(t *testing.T) {
	w := New(3, 3)
	w.Fill(tile.Stone)

	tests := []struct {
		name string
		x, y int
		edge [4]bool // indexed by tile.Direction
	}{
		{"north-west corner", 0, 0, [4]bool{true, false, false, true}},
		{"north edge", 1, 0, [4]bool{false, false, false, true}},
		{"center", 1, 1, [4]bool{false, false, false, false}},
		{"east edge", 2, 1, [4]bool{false, false, true, false}},
		{"south-east corner", 2, 2, [4]bool{false, true, true, false}},
		{"west edge", 0, 1, [4]bool{true, false, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns, err := w.NeighborsOf(tt.x, tt.y)
			require.NoError(t, err)
			for i, n := range ns {
				if n.Present == tt.edge[i] {
					t.Errorf("neighbor %v present = %v, want edge %v", tile.Direction(i), n.Present, tt.edge[i])
				}
				if n.Present && n.Kind != tile.Stone {
					t.Errorf("neighbor %v kind = %v, want Stone", tile.Direction(i), n.Kind)
				}
			}
		})
	}

	_, err := w.NeighborsOf(3, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestSingleCellWorld(t *testing.T) {
	w := New(1, 1)
	w.UpdateCachedNeighbors()

	tl, err := w.Tile(0, 0)
	require.NoError(t, err)
	assert.Equal(t, tile.Neighbors{tile.Edge(), tile.Edge(), tile.Edge(), tile.Edge()}, tl.Neighbors())
	assert.Equal(t, uint32(15), tl.NeighborMask())
}

func TestLayeredFill(t *testing.T) {
	// 800x600 output at tile.Size 8.
	w := New(100, 75)
	w.Layered(context.Background(), 3)

	tests := []struct {
		x, y int
		kind tile.Kind
		mask uint32
	}{
		// west edge, south Dirt, east Grass count; north is air.
		{0, 3, tile.Grass, 1 | 2 | 4},
		{5, 3, tile.Grass, 1 | 2 | 4},
		// only the Grass below counts.
		{5, 2, tile.Nothing, 2},
		// top row: north is the world edge.
		{5, 0, tile.Nothing, 8},
		{0, 0, tile.Nothing, 1 | 8},
		{5, 4, tile.Dirt, 15},
		{99, 74, tile.Dirt, 15},
	}
	for _, tt := range tests {
		tl := w.TileAt(tt.x, tt.y)
		if tl.Kind() != tt.kind {
			t.Errorf("(%d,%d) kind = %v, want %v", tt.x, tt.y, tl.Kind(), tt.kind)
		}
		if tl.NeighborMask() != tt.mask {
			t.Errorf("(%d,%d) mask = %d, want %d", tt.x, tt.y, tl.NeighborMask(), tt.mask)
		}
	}

	stats := w.Stats()
	assert.Equal(t, 100, stats[tile.Grass])
	assert.Equal(t, 100*71, stats[tile.Dirt])
	assert.Equal(t, 100*3, stats[tile.Nothing])
}

func TestIsolatedTileHasNoNeighbors(t *testing.T) {
	w := New(5, 5)
	tl, err := w.Tile(2, 2)
	require.NoError(t, err)
	tl.SetKind(tile.Dirt)
	w.UpdateCachedNeighbors()

	assert.Equal(t, uint32(0), w.TileAt(2, 2).NeighborMask())

	// Each neighbor sees only the Dirt tile on its side facing (2,2).
	assert.Equal(t, uint32(1<<tile.East), w.TileAt(1, 2).NeighborMask())
	assert.Equal(t, uint32(1<<tile.West), w.TileAt(3, 2).NeighborMask())
	assert.Equal(t, uint32(1<<tile.South), w.TileAt(2, 1).NeighborMask())
	assert.Equal(t, uint32(1<<tile.North), w.TileAt(2, 3).NeighborMask())
}

func TestSolidWorldIsAllFifteen(t *testing.T) {
	w := New(3, 3)
	w.Fill(tile.Stone)
	w.UpdateCachedNeighbors()

	w.Each(func(x, y int, tl *tile.Tile) {
		if tl.NeighborMask() != 15 {
			t.Errorf("(%d,%d) mask = %d, want 15", x, y, tl.NeighborMask())
		}
	})
}

func TestCacheMatchesNeighborsOf(t *testing.T) {
	w := New(6, 4)
	w.FillRegion(Region{X: 1, Y: 1, Width: 3, Height: 2}, tile.Stone)
	w.FillRegion(Region{X: 4, Y: 0, Width: 2, Height: 4}, tile.Grass)
	w.UpdateCachedNeighbors()

	w.Each(func(x, y int, tl *tile.Tile) {
		ns, err := w.NeighborsOf(x, y)
		require.NoError(t, err)
		assert.Equal(t, ns, tl.Neighbors(), "(%d,%d)", x, y)
		assert.Equal(t, ns.Mask(), tl.NeighborMask(), "(%d,%d)", x, y)
	})
}

func TestUpdateCachedNeighborsIsFixedPoint(t *testing.T) {
	w := New(8, 8)
	w.Layered(context.Background(), 2)

	before := append([]tile.Tile(nil), w.tiles...)
	w.UpdateCachedNeighbors()
	if len(before) != len(w.tiles) {
		t.Fatalf("tile count changed: %d != %d", len(before), len(w.tiles))
	}
	for i := range before {
		if before[i] != w.tiles[i] {
			t.Errorf("tile %d changed: %+v != %+v", i, before[i], w.tiles[i])
		}
	}
}

func TestSetKindMatchesFullRecache(t *testing.T) {
	incremental := New(5, 4)
	full := New(5, 4)

	edits := []struct {
		x, y int
		k    tile.Kind
	}{
		{0, 0, tile.Dirt},
		{1, 0, tile.Stone},
		{2, 2, tile.Grass},
		{4, 3, tile.Dirt},
		{1, 0, tile.Nothing},
	}
	for _, e := range edits {
		require.NoError(t, incremental.SetKind(e.x, e.y, e.k))
		tl, err := full.Tile(e.x, e.y)
		require.NoError(t, err)
		tl.SetKind(e.k)
	}
	// SetKind leaves untouched cells with a zero cache; seed both the same way.
	incremental.UpdateCachedNeighbors()
	full.UpdateCachedNeighbors()
	assert.Equal(t, full.tiles, incremental.tiles)

	require.NoError(t, incremental.SetKind(3, 1, tile.Stone))
	tl, _ := full.Tile(3, 1)
	tl.SetKind(tile.Stone)
	full.UpdateCachedNeighbors()
	assert.Equal(t, full.tiles, incremental.tiles)

	assert.ErrorIs(t, incremental.SetKind(5, 0, tile.Dirt), ErrOutOfBounds)
}

func TestRegionClip(t *testing.T) {
	tests := []struct {
		in, want Region
	}{
		{Region{X: -2, Y: -1, Width: 4, Height: 4}, Region{X: 0, Y: 0, Width: 2, Height: 3}},
		{Region{X: 8, Y: 8, Width: 5, Height: 5}, Region{X: 8, Y: 8, Width: 2, Height: 2}},
		{Region{X: 12, Y: 0, Width: 2, Height: 2}, Region{X: 12, Y: 0}},
	}
	for _, tt := range tests {
		if got := tt.in.Clip(10, 10); got != tt.want {
			t.Errorf("%+v.Clip(10,10) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
