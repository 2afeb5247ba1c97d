package gfx

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/png" // sprite sheets are PNG
	"io"
	"os"
)

// Surface is a decoded image held in memory before upload.
type Surface struct {
	img *image.NRGBA
}

// NewSurface copies src into a new NRGBA image. Later edits to the surface
// never reach src.
func NewSurface(src image.Image) *Surface {
	b := src.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), src, b.Min, draw.Src)
	return &Surface{img: img}
}

// DecodeSurface decodes an image from r.
func DecodeSurface(r io.Reader) (*Surface, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return NewSurface(img), nil
}

// LoadSurface opens and decodes the image file at path.
func LoadSurface(path string) (*Surface, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	s, err := DecodeSurface(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return s, nil
}

// Size returns the surface dimensions.
func (s *Surface) Size() Size {
	return Size{W: s.img.Rect.Dx(), H: s.img.Rect.Dy()}
}

// Image returns the backing pixels.
func (s *Surface) Image() *image.NRGBA {
	return s.img
}

// SetColorKey makes every pixel whose RGB equals key fully transparent.
// It returns the number of pixels keyed out.
func (s *Surface) SetColorKey(key Color) int {
	n := 0
	pix := s.img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		if pix[i] == key.R && pix[i+1] == key.G && pix[i+2] == key.B {
			pix[i+3] = 0
			n++
		}
	}
	return n
}
