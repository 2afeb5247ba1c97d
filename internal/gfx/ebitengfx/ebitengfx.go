// Package ebitengfx implements the graphics capability on ebiten images,
// drawn by the GPU.
package ebitengfx

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/samdwyer/tileworld/internal/gfx"
)

// blendMultiply computes dst * src.
var blendMultiply = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorZero,
	BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
	BlendFactorDestinationRGB:   ebiten.BlendFactorSourceColor,
	BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

func blendOf(m gfx.BlendMode) ebiten.Blend {
	switch m {
	case gfx.BlendNone:
		return ebiten.BlendCopy
	case gfx.BlendAdd:
		return ebiten.BlendLighter
	case gfx.BlendMod:
		return blendMultiply
	default:
		return ebiten.BlendSourceOver
	}
}

// Texture is a GPU image.
type Texture struct {
	img      *ebiten.Image
	target   bool
	released bool

	modR, modG, modB uint8
	alpha            uint8
	blend            gfx.BlendMode
}

func newTexture(img *ebiten.Image, target bool) *Texture {
	t := &Texture{img: img, target: target, modR: 0xff, modG: 0xff, modB: 0xff, alpha: 0xff, blend: gfx.BlendAlpha}
	if target {
		t.blend = gfx.BlendNone
	}
	return t
}

// Size returns the texture dimensions.
func (t *Texture) Size() gfx.Size {
	if t.released {
		return gfx.Size{}
	}
	b := t.img.Bounds()
	return gfx.Size{W: b.Dx(), H: b.Dy()}
}

// SetColorMod sets the color multiplied into every copied pixel.
func (t *Texture) SetColorMod(r, g, b uint8) {
	t.modR, t.modG, t.modB = r, g, b
}

// SetBlendMode sets how the texture combines with the target.
func (t *Texture) SetBlendMode(mode gfx.BlendMode) {
	t.blend = mode
}

// SetAlphaMod sets the alpha multiplied into every copied pixel.
func (t *Texture) SetAlphaMod(a uint8) {
	t.alpha = a
}

// Release frees the GPU image.
func (t *Texture) Release() {
	if t.released {
		return
	}
	t.released = true
	t.img.Deallocate()
}

// Image returns the underlying ebiten image.
func (t *Texture) Image() *ebiten.Image {
	return t.img
}

func (t *Texture) colorScale() ebiten.ColorScale {
	var cs ebiten.ColorScale
	cs.Scale(float32(t.modR)/0xff, float32(t.modG)/0xff, float32(t.modB)/0xff, 1)
	cs.ScaleAlpha(float32(t.alpha) / 0xff)
	return cs
}

// Context creates ebiten textures. Images may be created before the game
// loop starts.
type Context struct{}

// NewContext returns an ebiten graphics context.
func NewContext() *Context {
	return &Context{}
}

// LoadSurface decodes the image file at path.
func (c *Context) LoadSurface(path string) (*gfx.Surface, error) {
	return gfx.LoadSurface(path)
}

// CreateTextureFromSurface uploads the surface pixels.
func (c *Context) CreateTextureFromSurface(s *gfx.Surface) (gfx.Texture, error) {
	if s == nil {
		return nil, errors.New("ebitengfx: nil surface")
	}
	if sz := s.Size(); sz.W <= 0 || sz.H <= 0 {
		return nil, fmt.Errorf("ebitengfx: empty surface %dx%d", sz.W, sz.H)
	}
	return newTexture(ebiten.NewImageFromImage(s.Image()), false), nil
}

// CreateRenderTarget allocates a transparent image of the given size.
func (c *Context) CreateRenderTarget(size gfx.Size) (gfx.Texture, error) {
	if size.W <= 0 || size.H <= 0 {
		return nil, fmt.Errorf("ebitengfx: invalid render target size %dx%d", size.W, size.H)
	}
	return newTexture(ebiten.NewImage(size.W, size.H), true), nil
}

// Canvas draws onto the frame's screen image or a bound render target.
type Canvas struct {
	screen *ebiten.Image
	target *ebiten.Image
	size   gfx.Size
	draw   gfx.Color
}

// NewCanvas returns a canvas that reports size until a screen is bound.
func NewCanvas(size gfx.Size) *Canvas {
	return &Canvas{size: size, draw: gfx.Black}
}

// Bind makes screen the window target for the current frame.
func (c *Canvas) Bind(screen *ebiten.Image) {
	c.screen = screen
	c.target = screen
	if screen != nil {
		b := screen.Bounds()
		c.size = gfx.Size{W: b.Dx(), H: b.Dy()}
	}
}

// Resize records the window size for frames drawn before the next Bind.
func (c *Canvas) Resize(size gfx.Size) {
	if c.screen == nil {
		c.size = size
	}
}

// SetDrawColor sets the clear color.
func (c *Canvas) SetDrawColor(col gfx.Color) {
	c.draw = col
}

// OutputSize returns the size of the current target.
func (c *Canvas) OutputSize() gfx.Size {
	if c.target == nil {
		return c.size
	}
	b := c.target.Bounds()
	return gfx.Size{W: b.Dx(), H: b.Dy()}
}

// Clear fills the current target with the draw color.
func (c *Canvas) Clear() error {
	if c.target == nil {
		return errors.New("ebitengfx: no target bound")
	}
	c.target.Fill(c.draw.NRGBA())
	return nil
}

// WithTarget redirects drawing into tex while fn runs.
func (c *Canvas) WithTarget(tex gfx.Texture, fn func(gfx.Canvas)) error {
	t, ok := tex.(*Texture)
	if !ok {
		return fmt.Errorf("ebitengfx: foreign texture %T", tex)
	}
	if t.released {
		return gfx.ErrReleased
	}
	if !t.target {
		return errors.New("ebitengfx: texture is not a render target")
	}
	prev := c.target
	c.target = t.img
	defer func() { c.target = prev }()
	fn(c)
	return nil
}

// Copy draws src of tex into dst with nearest-neighbor filtering.
func (c *Canvas) Copy(tex gfx.Texture, src *gfx.Rect, dst gfx.Rect) error {
	t, ok := tex.(*Texture)
	if !ok {
		return fmt.Errorf("ebitengfx: foreign texture %T", tex)
	}
	if t.released {
		return gfx.ErrReleased
	}
	if c.target == nil {
		return errors.New("ebitengfx: no target bound")
	}
	if t.img == c.target {
		return errors.New("ebitengfx: cannot copy a texture onto itself")
	}

	img := t.img
	s := gfx.R(0, 0, t.Size().W, t.Size().H)
	if src != nil {
		s = src.Intersect(s)
		if s.Empty() {
			return nil
		}
		img = t.img.SubImage(s.Image()).(*ebiten.Image)
	}
	if s.Empty() || dst.Empty() {
		return nil
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(dst.W)/float64(s.W), float64(dst.H)/float64(s.H))
	op.GeoM.Translate(float64(dst.X), float64(dst.Y))
	op.ColorScale = t.colorScale()
	op.Blend = blendOf(t.blend)
	op.Filter = ebiten.FilterNearest
	c.target.DrawImage(img, op)
	return nil
}
