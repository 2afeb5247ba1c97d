// Package config provides YAML configuration loading for tileworld.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samdwyer/tileworld/internal/gfx"
	"github.com/samdwyer/tileworld/internal/tile"
)

// Backend names.
const (
	BackendWindow   = "window"
	BackendTerminal = "terminal"
)

// Render modes.
const (
	ModeViewport = "viewport"
	ModeDirect   = "direct"
)

// Config is the full application configuration.
type Config struct {
	Backend  string         `yaml:"backend"`
	LogLevel string         `yaml:"log_level"`
	LogFile  string         `yaml:"log_file"`
	Window   WindowConfig   `yaml:"window"`
	Render   RenderConfig   `yaml:"render"`
	Viewport ViewportConfig `yaml:"viewport"`
	World    WorldConfig    `yaml:"world"`
	Assets   AssetsConfig   `yaml:"assets"`
	Storage  StorageConfig  `yaml:"storage"`
}

// WindowConfig defines the output window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// RenderConfig defines the frame loop.
type RenderConfig struct {
	Mode         string `yaml:"mode"`
	Background   string `yaml:"background"`    // hex color
	FallbackFPS  int    `yaml:"fallback_fps"`  // used when the display rate is unknown
	AnimateEvery int    `yaml:"animate_every"` // frames between tile frame steps, 0 = off
	TraceFrames  bool   `yaml:"trace_frames"`
}

// ViewportConfig defines the camera.
type ViewportConfig struct {
	Zoom    float64 `yaml:"zoom"`
	CenterX int     `yaml:"center_x"` // negative = world center
	CenterY int     `yaml:"center_y"`
}

// WorldConfig defines the grid and its fill.
type WorldConfig struct {
	Width     int `yaml:"width"`  // 0 = window width / tile size
	Height    int `yaml:"height"` // 0 = window height / tile size
	GroundRow int `yaml:"ground_row"`
}

// AssetsConfig locates the tile sheets.
type AssetsConfig struct {
	Sprites string `yaml:"sprites"`
}

// StorageConfig locates the run statistics database.
type StorageConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// WorldSize returns the configured grid size, deriving zero dimensions
// from the window size.
func (c Config) WorldSize() (int, int) {
	w, h := c.World.Width, c.World.Height
	if w <= 0 {
		w = c.Window.Width / tile.Size
	}
	if h <= 0 {
		h = c.Window.Height / tile.Size
	}
	return w, h
}

// Center returns the viewport center in tiles for a world of the given
// size.
func (c Config) Center(worldW, worldH int) gfx.Point {
	p := gfx.Point{X: c.Viewport.CenterX, Y: c.Viewport.CenterY}
	if p.X < 0 {
		p.X = worldW / 2
	}
	if p.Y < 0 {
		p.Y = worldH / 2
	}
	return p
}

// BackgroundColor parses Render.Background, falling back to white.
func (c Config) BackgroundColor() gfx.Color {
	col, err := ParseHexColor(c.Render.Background)
	if err != nil {
		return gfx.White
	}
	return col
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	switch c.Backend {
	case BackendWindow, BackendTerminal:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendWindow, BackendTerminal))
	}
	switch c.Render.Mode {
	case ModeViewport, ModeDirect:
	default:
		errs = append(errs, fmt.Errorf("unknown render mode %q", c.Render.Mode))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Viewport.Zoom <= 0 {
		errs = append(errs, fmt.Errorf("zoom %v must be positive", c.Viewport.Zoom))
	}
	if c.Render.FallbackFPS <= 0 {
		errs = append(errs, fmt.Errorf("fallback_fps %d must be positive", c.Render.FallbackFPS))
	}
	if c.Render.AnimateEvery < 0 {
		errs = append(errs, fmt.Errorf("animate_every %d must not be negative", c.Render.AnimateEvery))
	}
	if _, err := ParseHexColor(c.Render.Background); err != nil {
		errs = append(errs, err)
	}
	if w, h := c.WorldSize(); w <= 0 || h <= 0 {
		errs = append(errs, fmt.Errorf("world size %dx%d must be positive", w, h))
	}
	if strings.TrimSpace(c.Assets.Sprites) == "" {
		errs = append(errs, errors.New("assets.sprites must be set"))
	}
	return errors.Join(errs...)
}
