package term

import (
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"
)

// upperHalf draws the top pixel of a cell in the foreground color and the
// bottom pixel in the background color.
const upperHalf = '▀'

// DrawHalfBlocks writes img into the screen buffer, two pixel rows per
// cell row. It does not call Show.
func (s *Screen) DrawHalfBlocks(img *image.NRGBA) {
	b := img.Rect
	cols, rows := s.Size()
	for cy := 0; cy < rows; cy++ {
		top := b.Min.Y + cy*2
		if top >= b.Max.Y {
			break
		}
		for cx := 0; cx < cols && b.Min.X+cx < b.Max.X; cx++ {
			x := b.Min.X + cx
			fg := rgb(img.NRGBAAt(x, top))
			bg := tcell.ColorBlack
			if top+1 < b.Max.Y {
				bg = rgb(img.NRGBAAt(x, top+1))
			}
			s.SetContent(cx, cy, upperHalf, tcell.StyleDefault.Foreground(fg).Background(bg))
		}
	}
}

// DrawText writes a line of text starting at cell (x, y).
func (s *Screen) DrawText(x, y int, text string, style tcell.Style) {
	for i, ch := range []rune(text) {
		s.SetContent(x+i, y, ch, style)
	}
}

// rgb drops alpha; the canvas is cleared to an opaque color each frame.
func rgb(c color.NRGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
