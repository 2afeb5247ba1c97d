package game

import (
	"github.com/samdwyer/tileworld/internal/config"
	"github.com/samdwyer/tileworld/internal/gfx"
)

// Options holds everything New needs besides the backend.
type Options struct {
	WorldWidth  int
	WorldHeight int
	GroundRow   int

	// Center is in tiles.
	Center gfx.Point
	Zoom   float64
	Mode   Mode

	Background   gfx.Color
	FallbackFPS  int
	AnimateEvery int
	TraceFrames  bool

	// Sprites is the directory holding Tile_<Kind>.png sheets.
	Sprites string
}

// OptionsFromConfig derives Options from a validated configuration.
func OptionsFromConfig(cfg config.Config) (Options, error) {
	mode, err := ParseMode(cfg.Render.Mode)
	if err != nil {
		return Options{}, err
	}
	w, h := cfg.WorldSize()
	return Options{
		WorldWidth:   w,
		WorldHeight:  h,
		GroundRow:    cfg.World.GroundRow,
		Center:       cfg.Center(w, h),
		Zoom:         cfg.Viewport.Zoom,
		Mode:         mode,
		Background:   cfg.BackgroundColor(),
		FallbackFPS:  cfg.Render.FallbackFPS,
		AnimateEvery: cfg.Render.AnimateEvery,
		TraceFrames:  cfg.Render.TraceFrames,
		Sprites:      cfg.Assets.Sprites,
	}, nil
}
