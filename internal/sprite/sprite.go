// Package sprite provides textured images and frame-addressed sprite sheets.
package sprite

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/samdwyer/tileworld/internal/gfx"
)

// Sprite is a single loaded image.
//
// The zero value is an empty sprite: it has no texture and renders nothing.
type Sprite struct {
	texture gfx.Texture
	width   int
	height  int
}

// New returns an empty sprite.
func New() *Sprite {
	return &Sprite{}
}

// Width returns the image width in pixels.
func (s *Sprite) Width() int {
	return s.width
}

// Height returns the image height in pixels.
func (s *Sprite) Height() int {
	return s.height
}

// Loaded reports whether the sprite holds a texture.
func (s *Sprite) Loaded() bool {
	return s.texture != nil
}

// Texture returns the underlying texture, or nil.
func (s *Sprite) Texture() gfx.Texture {
	return s.texture
}

// LoadFromFile decodes the image at path and uploads it. When colorKey is
// set, pixels of that color become transparent.
func (s *Sprite) LoadFromFile(ctx gfx.Context, path string, colorKey *gfx.Color) error {
	s.Release()

	tex, size, err := upload(ctx, path, colorKey)
	if err != nil {
		return err
	}
	s.texture = tex
	s.width, s.height = size.W, size.H
	return nil
}

// upload is shared by Sprite and AnimatedSprite.
func upload(ctx gfx.Context, path string, colorKey *gfx.Color) (gfx.Texture, gfx.Size, error) {
	surface, err := ctx.LoadSurface(path)
	if err != nil {
		return nil, gfx.Size{}, err
	}
	if colorKey != nil {
		surface.SetColorKey(*colorKey)
	}
	tex, err := ctx.CreateTextureFromSurface(surface)
	if err != nil {
		return nil, gfx.Size{}, fmt.Errorf("upload %s: %w", path, err)
	}
	return tex, surface.Size(), nil
}

// SetColorMod tints the texture.
func (s *Sprite) SetColorMod(c gfx.Color) {
	if s.texture != nil {
		s.texture.SetColorMod(c.R, c.G, c.B)
	}
}

// SetBlendMode sets the texture blend mode.
func (s *Sprite) SetBlendMode(mode gfx.BlendMode) {
	if s.texture != nil {
		s.texture.SetBlendMode(mode)
	}
}

// SetAlpha sets the texture alpha modulation.
func (s *Sprite) SetAlpha(alpha uint8) {
	if s.texture != nil {
		s.texture.SetAlphaMod(alpha)
	}
}

// DestRect returns the rectangle Render would draw into.
// Clip dimensions override the image size, size overrides both.
func (s *Sprite) DestRect(x, y int, size *gfx.Size, clip *gfx.Rect) gfx.Rect {
	dest := gfx.R(x, y, s.width, s.height)
	if clip != nil {
		dest.W, dest.H = clip.W, clip.H
	}
	if size != nil {
		dest.W, dest.H = size.W, size.H
	}
	return dest
}

// Render copies clip (or the whole image) to (x, y).
func (s *Sprite) Render(c gfx.Canvas, x, y int, size *gfx.Size, clip *gfx.Rect) error {
	if s.texture == nil {
		return nil
	}
	return c.Copy(s.texture, clip, s.DestRect(x, y, size, clip))
}

// RenderToTexture draws the sprite into a new render target of the given
// size, or of the clip (or image) size when size is nil.
//
// Binding or clearing the target fails the call. A failed copy is only
// logged; the caller still gets the (possibly blank) texture.
func (s *Sprite) RenderToTexture(c gfx.Canvas, ctx gfx.Context, size *gfx.Size, clip *gfx.Rect, logger *log.Logger) (gfx.Texture, error) {
	if logger == nil {
		logger = log.Default()
	}

	quad := s.DestRect(0, 0, nil, clip)
	out := quad.Size()
	if size != nil {
		out = *size
	}

	tex, err := ctx.CreateRenderTarget(out)
	if err != nil {
		return nil, fmt.Errorf("create render target: %w", err)
	}

	var clearErr error
	err = c.WithTarget(tex, func(tc gfx.Canvas) {
		tc.SetDrawColor(gfx.Color{})
		if clearErr = tc.Clear(); clearErr != nil {
			return
		}
		if s.texture == nil {
			return
		}
		if err := tc.Copy(s.texture, clip, gfx.R(0, 0, out.W, out.H)); err != nil {
			logger.Error("could not copy texture", "error", err)
		}
	})
	if err == nil {
		err = clearErr
	}
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("draw to new texture: %w", err)
	}
	return tex, nil
}

// Release frees the texture and resets the sprite to empty.
func (s *Sprite) Release() {
	if s.texture != nil {
		s.texture.Release()
	}
	s.texture = nil
	s.width, s.height = 0, 0
}
