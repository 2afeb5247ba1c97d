// Package soft is an in-memory gfx backend.
//
// Textures are NRGBA images and copies are nearest-neighbor scaled blits.
// The terminal presenter reads the window image directly; tests use it to
// inspect rendered pixels.
package soft

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/samdwyer/tileworld/internal/gfx"
)

// Texture is a CPU-side texture.
type Texture struct {
	img      *image.NRGBA
	target   bool
	released bool

	modR, modG, modB uint8
	alpha            uint8
	blend            gfx.BlendMode
}

func newTexture(img *image.NRGBA, target bool) *Texture {
	t := &Texture{
		img:    img,
		target: target,
		modR:   0xff,
		modG:   0xff,
		modB:   0xff,
		alpha:  0xff,
		blend:  gfx.BlendAlpha,
	}
	if target {
		t.blend = gfx.BlendNone
	}
	return t
}

// Size returns the texture dimensions.
func (t *Texture) Size() gfx.Size {
	return gfx.Size{W: t.img.Rect.Dx(), H: t.img.Rect.Dy()}
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

// Release drops the pixels; later copies fail with gfx.ErrReleased.
func (t *Texture) Release() {
	t.released = true
	t.img = image.NewNRGBA(image.Rectangle{})
}

// Image returns the texture pixels.
func (t *Texture) Image() *image.NRGBA {
	return t.img
}

// Context creates soft textures.
type Context struct{}

// NewContext returns a software graphics context.
func NewContext() *Context {
	return &Context{}
}

// LoadSurface decodes the image file at path.
func (c *Context) LoadSurface(path string) (*gfx.Surface, error) {
	return gfx.LoadSurface(path)
}

// CreateTextureFromSurface copies the surface pixels into a new texture.
func (c *Context) CreateTextureFromSurface(s *gfx.Surface) (gfx.Texture, error) {
	if s == nil {
		return nil, errors.New("soft: nil surface")
	}
	src := s.Image()
	img := image.NewNRGBA(src.Rect)
	copy(img.Pix, src.Pix)
	return newTexture(img, false), nil
}

// CreateRenderTarget allocates a transparent texture of the given size.
func (c *Context) CreateRenderTarget(size gfx.Size) (gfx.Texture, error) {
	if size.W <= 0 || size.H <= 0 {
		return nil, fmt.Errorf("soft: invalid render target size %dx%d", size.W, size.H)
	}
	return newTexture(image.NewNRGBA(image.Rect(0, 0, size.W, size.H)), true), nil
}

// Canvas draws into an NRGBA window image or a bound render target.
type Canvas struct {
	window *image.NRGBA
	target *image.NRGBA
	draw   gfx.Color
}

// NewCanvas returns a canvas with a window image of the given size.
func NewCanvas(size gfx.Size) *Canvas {
	img := image.NewNRGBA(image.Rect(0, 0, max(size.W, 0), max(size.H, 0)))
	return &Canvas{window: img, target: img, draw: gfx.Black}
}

// Resize replaces the window image. The contents are discarded.
func (c *Canvas) Resize(size gfx.Size) {
	bound := c.target == c.window
	c.window = image.NewNRGBA(image.Rect(0, 0, max(size.W, 0), max(size.H, 0)))
	if bound {
		c.target = c.window
	}
}

// Image returns the window image.
func (c *Canvas) Image() *image.NRGBA {
	return c.window
}

// SetDrawColor sets the clear color.
func (c *Canvas) SetDrawColor(col gfx.Color) {
	c.draw = col
}

// OutputSize returns the size of the current target.
func (c *Canvas) OutputSize() gfx.Size {
	return gfx.Size{W: c.target.Rect.Dx(), H: c.target.Rect.Dy()}
}

// Clear fills the current target with the draw color.
func (c *Canvas) Clear() error {
	p := c.draw
	pix := c.target.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = p.R, p.G, p.B, p.A
	}
	return nil
}

// WithTarget redirects drawing into tex while fn runs.
func (c *Canvas) WithTarget(tex gfx.Texture, fn func(gfx.Canvas)) error {
	t, ok := tex.(*Texture)
	if !ok {
		return fmt.Errorf("soft: foreign texture %T", tex)
	}
	if t.released {
		return gfx.ErrReleased
	}
	if !t.target {
		return errors.New("soft: texture is not a render target")
	}
	prev := c.target
	c.target = t.img
	defer func() { c.target = prev }()
	fn(c)
	return nil
}

// Copy blits src of tex into dst with nearest-neighbor scaling.
func (c *Canvas) Copy(tex gfx.Texture, src *gfx.Rect, dst gfx.Rect) error {
	t, ok := tex.(*Texture)
	if !ok {
		return fmt.Errorf("soft: foreign texture %T", tex)
	}
	if t.released {
		return gfx.ErrReleased
	}
	if t.img == c.target {
		return errors.New("soft: cannot copy a texture onto itself")
	}

	full := gfx.R(0, 0, t.img.Rect.Dx(), t.img.Rect.Dy())
	s := full
	if src != nil {
		s = *src
	}
	if s.Empty() || dst.Empty() {
		return nil
	}

	bounds := gfx.R(0, 0, c.target.Rect.Dx(), c.target.Rect.Dy())
	vis := dst.Intersect(bounds)
	for dy := vis.Y; dy < vis.Y+vis.H; dy++ {
		sy := s.Y + (dy-dst.Y)*s.H/dst.H
		if sy < 0 || sy >= full.H {
			continue
		}
		for dx := vis.X; dx < vis.X+vis.W; dx++ {
			sx := s.X + (dx-dst.X)*s.W/dst.W
			if sx < 0 || sx >= full.W {
				continue
			}
			c.blend(t, t.img.NRGBAAt(sx, sy), dx, dy)
		}
	}
	return nil
}

func (c *Canvas) blend(t *Texture, p color.NRGBA, x, y int) {
	r := mul8(p.R, t.modR)
	g := mul8(p.G, t.modG)
	b := mul8(p.B, t.modB)
	a := mul8(p.A, t.alpha)

	if t.blend == gfx.BlendNone {
		c.target.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: a})
		return
	}
	if a == 0 && t.blend != gfx.BlendMod {
		return
	}

	d := c.target.NRGBAAt(x, y)
	switch t.blend {
	case gfx.BlendAlpha:
		inv := 0xff - a
		d.R = mul8(r, a) + mul8(d.R, inv)
		d.G = mul8(g, a) + mul8(d.G, inv)
		d.B = mul8(b, a) + mul8(d.B, inv)
		d.A = a + mul8(d.A, inv)
	case gfx.BlendAdd:
		d.R = add8(d.R, mul8(r, a))
		d.G = add8(d.G, mul8(g, a))
		d.B = add8(d.B, mul8(b, a))
	case gfx.BlendMod:
		d.R = mul8(d.R, r)
		d.G = mul8(d.G, g)
		d.B = mul8(d.B, b)
	}
	c.target.SetNRGBA(x, y, d)
}

func mul8(a, b uint8) uint8 {
	return uint8((uint16(a)*uint16(b) + 127) / 255)
}

func add8(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 0xff {
		return 0xff
	}
	return uint8(s)
}
