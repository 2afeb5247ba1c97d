package sprite

import (
	"fmt"

	"github.com/samdwyer/tileworld/internal/gfx"
)

// Frame addresses a cell of a sprite sheet by column and row.
type Frame struct {
	Col, Row int
}

// AnimatedSprite is a sheet split into a cols x rows grid of equal frames.
type AnimatedSprite struct {
	sheet       gfx.Texture
	frameWidth  int
	frameHeight int
	cols, rows  int
	sequence    []Frame
}

// NewAnimated returns an empty animated sprite with no frame grid.
func NewAnimated() *AnimatedSprite {
	return &AnimatedSprite{}
}

// SetNumFrames sets the frame grid. It must be called before LoadFromFile.
func (a *AnimatedSprite) SetNumFrames(cols, rows int) {
	a.cols, a.rows = cols, rows
}

// NumFrames returns the frame grid dimensions.
func (a *AnimatedSprite) NumFrames() (cols, rows int) {
	return a.cols, a.rows
}

// FrameWidth returns the width of one frame in pixels.
func (a *AnimatedSprite) FrameWidth() int {
	return a.frameWidth
}

// FrameHeight returns the height of one frame in pixels.
func (a *AnimatedSprite) FrameHeight() int {
	return a.frameHeight
}

// Loaded reports whether the sheet texture is present.
func (a *AnimatedSprite) Loaded() bool {
	return a.sheet != nil
}

// SetCustomFrameSequence installs a reorder table: frame index i renders
// seq[i]. A nil sequence restores direct addressing.
func (a *AnimatedSprite) SetCustomFrameSequence(seq []Frame) {
	if seq == nil {
		a.sequence = nil
		return
	}
	a.sequence = append([]Frame(nil), seq...)
}

// LoadFromFile decodes and uploads the sheet and derives the frame size.
// It panics if the frame grid has not been set.
func (a *AnimatedSprite) LoadFromFile(ctx gfx.Context, path string, colorKey *gfx.Color) error {
	if a.cols <= 0 || a.rows <= 0 {
		panic(fmt.Sprintf("sprite: cannot load an AnimatedSprite with %d horizontal frames and %d vertical frames", a.cols, a.rows))
	}
	a.Release()

	tex, size, err := upload(ctx, path, colorKey)
	if err != nil {
		return err
	}
	a.sheet = tex
	a.frameWidth = size.W / a.cols
	a.frameHeight = size.H / a.rows
	return nil
}

// resolve maps a frame through the custom sequence, if any.
func (a *AnimatedSprite) resolve(f Frame) Frame {
	if a.sequence == nil {
		return f
	}
	if f.Col < 0 || f.Col >= len(a.sequence) {
		panic(fmt.Sprintf("sprite: frame index %d out of range [0, %d)", f.Col, len(a.sequence)))
	}
	return a.sequence[f.Col]
}

// SourceRect returns the sheet rectangle for frame. With a custom sequence
// installed, frame.Col indexes the sequence and frame.Row is ignored.
func (a *AnimatedSprite) SourceRect(f Frame) gfx.Rect {
	cell := a.resolve(f)
	if cell.Col < 0 || cell.Row < 0 || (a.cols > 0 && cell.Col >= a.cols) || (a.rows > 0 && cell.Row >= a.rows) {
		panic(fmt.Sprintf("sprite: frame (%d, %d) outside %dx%d sheet", cell.Col, cell.Row, a.cols, a.rows))
	}
	return gfx.R(cell.Col*a.frameWidth, cell.Row*a.frameHeight, a.frameWidth, a.frameHeight)
}

// Len returns the number of addressable frames.
func (a *AnimatedSprite) Len() int {
	if a.sequence != nil {
		return len(a.sequence)
	}
	return a.cols * a.rows
}

// FrameAt maps a running tick index onto a frame, row-major over the grid
// or in sequence order.
func (a *AnimatedSprite) FrameAt(i int) Frame {
	n := a.Len()
	if n == 0 {
		return Frame{}
	}
	i %= n
	if i < 0 {
		i += n
	}
	if a.sequence != nil {
		return Frame{Col: i}
	}
	return Frame{Col: i % a.cols, Row: i / a.cols}
}

// Render draws frame at (x, y), scaled to size when set.
func (a *AnimatedSprite) Render(c gfx.Canvas, x, y int, size *gfx.Size, f Frame) error {
	clip := a.SourceRect(f)
	dest := gfx.R(x, y, a.frameWidth, a.frameHeight)
	if size != nil {
		dest.W, dest.H = size.W, size.H
	}
	if a.sheet == nil {
		return nil
	}
	return c.Copy(a.sheet, &clip, dest)
}

// Release frees the sheet texture.
func (a *AnimatedSprite) Release() {
	if a.sheet != nil {
		a.sheet.Release()
	}
	a.sheet = nil
}
