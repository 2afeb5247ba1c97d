package sprite

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/tileworld/internal/gfx"
	"github.com/samdwyer/tileworld/internal/gfx/soft"
)

func loadSheet(t *testing.T, w, h, cols, rows int) *AnimatedSprite {
	t.Helper()
	a := NewAnimated()
	a.SetNumFrames(cols, rows)
	require.NoError(t, a.LoadFromFile(soft.NewContext(), writePNG(t, w, h, color.NRGBA{G: 255, A: 255}), &gfx.Magenta))
	return a
}

func TestAnimatedFrameSize(t *testing.T) {
	a := loadSheet(t, 64, 16, 8, 2)
	assert.Equal(t, 8, a.FrameWidth())
	assert.Equal(t, 8, a.FrameHeight())
	assert.Equal(t, gfx.R(24, 8, 8, 8), a.SourceRect(Frame{Col: 3, Row: 1}))

	c := &fakeCanvas{}
	require.NoError(t, a.Render(c, 4, 5, nil, Frame{Col: 3, Row: 1}))
	require.Len(t, c.copies, 1)
	assert.Equal(t, gfx.R(24, 8, 8, 8), *c.copies[0].src)
	assert.Equal(t, gfx.R(4, 5, 8, 8), c.copies[0].dst)
}

func TestAnimatedIntegerDivision(t *testing.T) {
	a := loadSheet(t, 50, 21, 4, 2)
	assert.Equal(t, 12, a.FrameWidth())
	assert.Equal(t, 10, a.FrameHeight())
}

func TestAnimatedCustomSequence(t *testing.T) {
	a := loadSheet(t, 64, 16, 8, 2)
	a.SetCustomFrameSequence([]Frame{{2, 0}, {5, 1}, {0, 0}})
	fw, fh := a.FrameWidth(), a.FrameHeight()

	for _, row := range []int{0, 1, 7} {
		assert.Equal(t, gfx.R(5*fw, 1*fh, fw, fh), a.SourceRect(Frame{Col: 1, Row: row}), "row %d is ignored", row)
	}

	c := &fakeCanvas{}
	size := gfx.Size{W: 16, H: 16}
	require.NoError(t, a.Render(c, 0, 0, &size, Frame{Col: 1}))
	assert.Equal(t, gfx.R(5*fw, fh, fw, fh), *c.copies[0].src)
	assert.Equal(t, gfx.R(0, 0, 16, 16), c.copies[0].dst)

	a.SetCustomFrameSequence(nil)
	assert.Equal(t, gfx.R(fw, 0, fw, fh), a.SourceRect(Frame{Col: 1}))
}

func TestAnimatedBadFrameGridPanics(t *testing.T) {
	for _, dims := range [][2]int{{0, 0}, {0, 2}, {3, 0}, {-8, 2}, {8, -1}} {
		a := NewAnimated()
		a.SetNumFrames(dims[0], dims[1])
		assert.Panics(t, func() {
			_ = a.LoadFromFile(soft.NewContext(), "unused.png", nil)
		}, "%v", dims)
	}
}

func TestAnimatedOutOfRangePanics(t *testing.T) {
	a := loadSheet(t, 64, 16, 8, 2)
	assert.Panics(t, func() { a.SourceRect(Frame{Col: 8}) })
	assert.Panics(t, func() { a.SourceRect(Frame{Row: 2}) })

	a.SetCustomFrameSequence([]Frame{{1, 1}})
	assert.Panics(t, func() { a.SourceRect(Frame{Col: 1}) })
}

func TestAnimatedFrameAt(t *testing.T) {
	a := loadSheet(t, 64, 16, 8, 2)
	assert.Equal(t, 16, a.Len())
	assert.Equal(t, Frame{Col: 0, Row: 0}, a.FrameAt(0))
	assert.Equal(t, Frame{Col: 1, Row: 1}, a.FrameAt(9))
	assert.Equal(t, Frame{Col: 0, Row: 0}, a.FrameAt(16))

	a.SetCustomFrameSequence([]Frame{{2, 0}, {5, 1}, {0, 0}})
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, Frame{Col: 1}, a.FrameAt(4))
	assert.Equal(t, gfx.R(40, 8, 8, 8), a.SourceRect(a.FrameAt(4)))
}

func TestAnimatedUnloadedRenderIsNoop(t *testing.T) {
	a := NewAnimated()
	a.SetNumFrames(2, 2)
	c := &fakeCanvas{}
	require.NoError(t, a.Render(c, 0, 0, nil, Frame{Col: 1, Row: 1}))
	assert.Empty(t, c.copies)
}
