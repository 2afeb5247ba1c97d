// Package tile provides world cells, their neighbor masks and the atlas
// that maps tile kinds to sprite sheets.
package tile

import (
	"fmt"
	"strings"

	"github.com/samdwyer/tileworld/internal/gfx"
)

// Size is the edge length of one tile cell in pixels.
const Size = 8

// Kind is the terrain kind of a tile.
type Kind uint8

const (
	// Nothing is empty air. It is never drawn and never blends.
	Nothing Kind = iota
	// Dirt is packed earth.
	Dirt
	// Stone is solid rock.
	Stone
	// Grass is the surface layer.
	Grass

	kindCount
)

// Kinds returns every kind in declaration order, Nothing included.
func Kinds() []Kind {
	kinds := make([]Kind, kindCount)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// String returns the kind name used in asset file names.
func (k Kind) String() string {
	switch k {
	case Nothing:
		return "Nothing"
	case Dirt:
		return "Dirt"
	case Stone:
		return "Stone"
	case Grass:
		return "Grass"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Valid reports whether k is a declared kind.
func (k Kind) Valid() bool {
	return k < kindCount
}

// ParseKind returns the kind with the given name, ignoring case.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds() {
		if strings.EqualFold(k.String(), name) {
			return k, nil
		}
	}
	return Nothing, fmt.Errorf("unknown tile kind %q", name)
}

// Direction indexes the neighbor array.
type Direction int

const (
	West Direction = iota
	South
	East
	North
)

// Directions lists the neighbor slots in mask bit order.
var Directions = [4]Direction{West, South, East, North}

// Offset returns the grid step toward the neighbor. y grows downward.
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case West:
		return -1, 0
	case South:
		return 0, 1
	case East:
		return 1, 0
	case North:
		return 0, -1
	default:
		return 0, 0
	}
}

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case West:
		return "west"
	case South:
		return "south"
	case East:
		return "east"
	case North:
		return "north"
	default:
		return "unknown"
	}
}

// Neighbor is the cached state of one adjacent cell.
// Present is false when the cell lies off the world edge.
type Neighbor struct {
	Kind    Kind
	Present bool
}

// Edge returns a neighbor beyond the world border.
func Edge() Neighbor {
	return Neighbor{}
}

// Of returns an in-world neighbor of kind k.
func Of(k Kind) Neighbor {
	return Neighbor{Kind: k, Present: true}
}

// Counts reports whether the neighbor sets its mask bit. The world edge
// counts as solid; in-world Nothing does not.
func (n Neighbor) Counts() bool {
	return !n.Present || n.Kind != Nothing
}

// String returns "edge" or the kind name.
func (n Neighbor) String() string {
	if !n.Present {
		return "edge"
	}
	return n.Kind.String()
}

// Neighbors holds the four orthogonal neighbors indexed by Direction.
type Neighbors [4]Neighbor

// Mask returns the 4-bit neighbor mask, bit i set when slot i counts.
func (ns Neighbors) Mask() uint32 {
	var mask uint32
	for i, n := range ns {
		if n.Counts() {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// Tile is one world cell.
type Tile struct {
	kind      Kind
	neighbors Neighbors
	frame     uint32
	solid     bool
	mask      uint32
}

// New returns a tile of kind k with a zero mask and empty neighbor cache.
func New(k Kind) Tile {
	return Tile{kind: k}
}

// Kind returns the tile kind.
func (t Tile) Kind() Kind {
	return t.kind
}

// SetKind changes the kind. The neighbor caches of adjacent tiles are not
// touched; the world must be recached before the next render.
func (t *Tile) SetKind(k Kind) {
	t.kind = k
}

// Frame returns the animation column.
func (t Tile) Frame() uint32 {
	return t.frame
}

// SetFrame sets the animation column.
func (t *Tile) SetFrame(frame uint32) {
	t.frame = frame
}

// Solid reports the collision flag.
func (t Tile) Solid() bool {
	return t.solid
}

// SetSolid sets the collision flag. The renderer ignores it.
func (t *Tile) SetSolid(solid bool) {
	t.solid = solid
}

// Neighbors returns the cached neighbor snapshot.
func (t Tile) Neighbors() Neighbors {
	return t.neighbors
}

// SetNeighbors stores the neighbor snapshot and recomputes the mask.
func (t *Tile) SetNeighbors(ns Neighbors) {
	t.neighbors = ns
	t.mask = ns.Mask()
}

// NeighborMask returns the cached neighbor mask in [0, 15].
func (t Tile) NeighborMask() uint32 {
	return t.mask
}

// SourceRect returns the atlas cell for the tile's frame and mask.
func (t Tile) SourceRect() gfx.Rect {
	return gfx.R(int(t.frame)*Size, int(t.mask)*Size, Size, Size)
}

// Render blits the tile's atlas cell scaled into dest. Nothing tiles draw
// nothing.
func (t *Tile) Render(atlas *Atlas, c gfx.Canvas, dest gfx.Rect) error {
	if t.kind == Nothing || atlas == nil {
		return nil
	}
	clip := t.SourceRect()
	size := dest.Size()
	return atlas.Sprite(t.kind).Render(c, dest.X, dest.Y, &size, &clip)
}
