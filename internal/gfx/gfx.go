// Package gfx describes the graphics capability the renderer draws through.
//
// A Context creates textures, a Canvas copies textured rectangles onto the
// current render target. Backends live in subpackages: soft renders into
// memory, ebitengfx renders on the GPU through ebiten.
package gfx

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrReleased is returned when a released texture is used.
var ErrReleased = errors.New("gfx: texture has been released")

// Point is a position in pixels.
type Point struct {
	X, Y int
}

// Size is a width and height in pixels.
type Size struct {
	W, H int
}

// Rect is an axis-aligned rectangle with its origin at the top-left.
type Rect struct {
	X, Y int
	W, H int
}

// R is shorthand for a Rect literal.
func R(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size {
	return Size{W: r.W, H: r.H}
}

// Image converts the rectangle to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Intersect returns the largest rectangle contained by both r and o.
func (r Rect) Intersect(o Rect) Rect {
	ir := r.Image().Intersect(o.Image())
	return Rect{X: ir.Min.X, Y: ir.Min.Y, W: ir.Dx(), H: ir.Dy()}
}

// String returns "(x, y, w, h)".
func (r Rect) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", r.X, r.Y, r.W, r.H)
}

// Color is an 8-bit RGBA color, not premultiplied.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xff}
}

var (
	// White is the default background color.
	White = RGB(255, 255, 255)
	// Black clears render targets.
	Black = RGB(0, 0, 0)
	// Magenta is the color key of the tile sheets.
	Magenta = RGB(255, 0, 255)
)

// NRGBA converts c to the standard library color type.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// BlendMode selects how a copied texture combines with the target.
type BlendMode int

const (
	// BlendNone overwrites the destination.
	BlendNone BlendMode = iota
	// BlendAlpha is source-over alpha blending.
	BlendAlpha
	// BlendAdd adds the source color weighted by alpha.
	BlendAdd
	// BlendMod multiplies the destination by the source color.
	BlendMod
)

// String returns the blend mode name.
func (m BlendMode) String() string {
	switch m {
	case BlendNone:
		return "none"
	case BlendAlpha:
		return "blend"
	case BlendAdd:
		return "add"
	case BlendMod:
		return "mod"
	default:
		return "unknown"
	}
}

// Texture is an image owned by a graphics context.
//
// A texture must be released before the context that created it is torn
// down.
type Texture interface {
	Size() Size
	SetColorMod(r, g, b uint8)
	SetBlendMode(mode BlendMode)
	SetAlphaMod(a uint8)
	Release()
}

// Canvas draws onto the window surface or onto a bound render target.
type Canvas interface {
	// SetDrawColor sets the color used by Clear.
	SetDrawColor(c Color)
	// Clear fills the current target with the draw color.
	Clear() error
	// Copy blits src (or the whole texture when src is nil) of tex into dst,
	// scaling as needed. Pixels outside the target are clipped.
	Copy(tex Texture, src *Rect, dst Rect) error
	// WithTarget binds tex as the render target for the duration of fn.
	WithTarget(tex Texture, fn func(Canvas)) error
	// OutputSize returns the size of the current target.
	OutputSize() Size
}

// Context is the root of all textures.
type Context interface {
	// LoadSurface decodes an image file into a CPU-side surface.
	LoadSurface(path string) (*Surface, error)
	// CreateTextureFromSurface uploads a surface into a new texture.
	CreateTextureFromSurface(s *Surface) (Texture, error)
	// CreateRenderTarget allocates an empty texture usable with WithTarget.
	CreateRenderTarget(size Size) (Texture, error)
}
