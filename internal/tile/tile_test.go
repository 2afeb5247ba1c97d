package tile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samdwyer/tileworld/internal/gfx"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Nothing, "Nothing"},
		{Dirt, "Dirt"},
		{Stone, "Stone"},
		{Grass, "Grass"},
		{Kind(42), "Kind(42)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	got, err := ParseKind("grass")
	assert.NoError(t, err)
	assert.Equal(t, Grass, got)

	_, err = ParseKind("lava")
	assert.Error(t, err)
}

func TestKindsIncludesNothing(t *testing.T) {
	assert.Equal(t, []Kind{Nothing, Dirt, Stone, Grass}, Kinds())
}

func TestNeighborCounts(t *testing.T) {
	assert.True(t, Edge().Counts(), "world edge counts as solid")
	assert.False(t, Of(Nothing).Counts(), "air does not count")
	for _, k := range []Kind{Dirt, Stone, Grass} {
		assert.True(t, Of(k).Counts(), "%v counts", k)
	}
}

// TestMaskAllNeighborhoods checks every combination of the three neighbor
// states in all four slots against the bit definition.
func TestMaskAllNeighborhoods(t *testing.T) {
	states := []Neighbor{Edge(), Of(Nothing), Of(Dirt), Of(Grass)}
	var tl Tile

	for a := range states {
		for b := range states {
			for c := range states {
				for d := range states {
					ns := Neighbors{states[a], states[b], states[c], states[d]}
					tl.SetNeighbors(ns)

					var want uint32
					for i, n := range ns {
						if !n.Present || n.Kind != Nothing {
							want += 1 << uint(i)
						}
					}
					if tl.NeighborMask() != want {
						t.Fatalf("mask(%v) = %d, want %d", ns, tl.NeighborMask(), want)
					}
					if tl.NeighborMask() > 15 {
						t.Fatalf("mask(%v) = %d out of range", ns, tl.NeighborMask())
					}
					if tl.Neighbors() != ns {
						t.Fatalf("neighbors not stored: %v != %v", tl.Neighbors(), ns)
					}
				}
			}
		}
	}
}

func TestDirectionOrder(t *testing.T) {
	tests := []struct {
		d      Direction
		dx, dy int
	}{
		{West, -1, 0},
		{South, 0, 1},
		{East, 1, 0},
		{North, 0, -1},
	}
	for i, tt := range tests {
		if int(tt.d) != i {
			t.Errorf("%v index = %d, want %d", tt.d, tt.d, i)
		}
		dx, dy := tt.d.Offset()
		if dx != tt.dx || dy != tt.dy {
			t.Errorf("%v.Offset() = (%d,%d), want (%d,%d)", tt.d, dx, dy, tt.dx, tt.dy)
		}
	}
}

func TestTileSetters(t *testing.T) {
	tl := New(Stone)
	assert.Equal(t, Stone, tl.Kind())
	assert.Equal(t, uint32(0), tl.NeighborMask())

	tl.SetKind(Dirt)
	tl.SetFrame(3)
	tl.SetSolid(true)
	assert.Equal(t, Dirt, tl.Kind())
	assert.Equal(t, uint32(3), tl.Frame())
	assert.True(t, tl.Solid())

	tl.SetNeighbors(Neighbors{Edge(), Of(Nothing), Of(Stone), Of(Nothing)})
	assert.Equal(t, uint32(5), tl.NeighborMask())
	assert.Equal(t, gfx.R(24, 40, Size, Size), tl.SourceRect())
}

func TestTileAccessorsOnCopies(t *testing.T) {
	// Accessors work on values returned by functions, as World.TileAt does.
	assert.Equal(t, Grass, New(Grass).Kind())
	assert.Equal(t, uint32(0), New(Grass).NeighborMask())
	assert.Equal(t, uint32(0), New(Grass).Frame())
	assert.False(t, New(Grass).Solid())
	assert.Equal(t, Neighbors{}, New(Grass).Neighbors())
	assert.Equal(t, gfx.R(0, 0, Size, Size), New(Grass).SourceRect())
}

// recordingCanvas captures copies without drawing.
type recordingCanvas struct {
	copies []copyCall
}

type copyCall struct {
	tex gfx.Texture
	src *gfx.Rect
	dst gfx.Rect
}

func (c *recordingCanvas) SetDrawColor(gfx.Color) {}
func (c *recordingCanvas) Clear() error           { return nil }
func (c *recordingCanvas) OutputSize() gfx.Size   { return gfx.Size{W: 800, H: 600} }
func (c *recordingCanvas) WithTarget(_ gfx.Texture, fn func(gfx.Canvas)) error {
	fn(c)
	return nil
}
func (c *recordingCanvas) Copy(tex gfx.Texture, src *gfx.Rect, dst gfx.Rect) error {
	c.copies = append(c.copies, copyCall{tex: tex, src: src, dst: dst})
	return nil
}
