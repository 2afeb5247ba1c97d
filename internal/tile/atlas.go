package tile

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/tileworld/internal/gfx"
	"github.com/samdwyer/tileworld/internal/sprite"
	"github.com/samdwyer/tileworld/internal/telemetry"
)

// MaskRows is the number of neighbor-mask rows in a tile sheet.
const MaskRows = 16

// Atlas maps every kind to its sprite sheet. Nothing maps to an empty
// sprite. The atlas is read-only once loaded.
type Atlas struct {
	sprites [kindCount]*sprite.Sprite
}

// NewAtlas returns an atlas of empty sprites.
func NewAtlas() *Atlas {
	a := &Atlas{}
	for i := range a.sprites {
		a.sprites[i] = sprite.New()
	}
	return a
}

// AssetPath returns the sheet path for kind k under dir.
func AssetPath(dir string, k Kind) string {
	return filepath.Join(dir, fmt.Sprintf("Tile_%s.png", k))
}

// LoadAtlas loads Tile_<Kind>.png for every kind except Nothing, keying out
// magenta. Unreadable sheets are logged and leave the kind empty.
func LoadAtlas(ctx context.Context, gctx gfx.Context, dir string, logger *log.Logger) (*Atlas, error) {
	if gctx == nil {
		return nil, fmt.Errorf("load atlas: nil graphics context")
	}
	if logger == nil {
		logger = log.Default()
	}

	tracer := telemetry.Tracer("tile")
	_, span := tracer.Start(ctx, "atlas.load")
	defer span.End()

	a := NewAtlas()
	key := gfx.Magenta
	loaded, missing := 0, 0
	for _, k := range Kinds() {
		if k == Nothing {
			continue
		}
		path := AssetPath(dir, k)
		if err := a.sprites[k].LoadFromFile(gctx, path, &key); err != nil {
			logger.Warn("tile sheet not loaded", "kind", k, "path", path, "error", err)
			missing++
			continue
		}
		s := a.sprites[k]
		if s.Height() < MaskRows*Size {
			logger.Warn("tile sheet is missing mask rows", "kind", k, "height", s.Height(), "want", MaskRows*Size)
		}
		loaded++
	}

	span.SetAttributes(
		attribute.String("atlas.dir", dir),
		attribute.Int("atlas.loaded", loaded),
		attribute.Int("atlas.missing", missing),
	)
	return a, nil
}

// Sprite returns the sheet for kind k.
func (a *Atlas) Sprite(k Kind) *sprite.Sprite {
	if !k.Valid() {
		return a.sprites[Nothing]
	}
	return a.sprites[k]
}

// Set replaces the sheet for kind k, releasing the old one.
func (a *Atlas) Set(k Kind, s *sprite.Sprite) {
	if !k.Valid() {
		return
	}
	if old := a.sprites[k]; old != nil && old != s {
		old.Release()
	}
	if s == nil {
		s = sprite.New()
	}
	a.sprites[k] = s
}

// Each calls fn for every kind, Nothing included.
func (a *Atlas) Each(fn func(Kind, *sprite.Sprite)) {
	for i, s := range a.sprites {
		fn(Kind(i), s)
	}
}

// Frames returns the number of animation columns in the sheet for k.
func (a *Atlas) Frames(k Kind) int {
	return a.Sprite(k).Width() / Size
}

// Release frees every sheet. Call it before the graphics context goes away.
func (a *Atlas) Release() {
	for _, s := range a.sprites {
		s.Release()
	}
}
