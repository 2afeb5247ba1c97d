package game

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/tileworld/internal/gfx"
	"github.com/samdwyer/tileworld/internal/platform"
	"github.com/samdwyer/tileworld/internal/telemetry"
	"github.com/samdwyer/tileworld/internal/tile"
	"github.com/samdwyer/tileworld/internal/view"
	"github.com/samdwyer/tileworld/internal/world"
)

// Backend is a window plus the graphics context that draws into it.
type Backend interface {
	Name() string
	Context() gfx.Context
	Canvas() gfx.Canvas
	Events() platform.EventSource
	Display() platform.Display
	Presenter() Presenter
	// Run drives loop until it quits or ctx is done.
	Run(ctx context.Context, loop *Loop) (Stats, error)
	Close() error
}

// Game holds the world, its atlas and the loop that draws them.
type Game struct {
	backend Backend
	world   *world.World
	atlas   *tile.Atlas
	loop    *Loop
	logger  *log.Logger
}

// New builds the world, loads the atlas through the backend's context and
// prepares the loop.
func New(ctx context.Context, b Backend, opts Options, logger *log.Logger) (*Game, error) {
	if logger == nil {
		logger = log.Default()
	}
	tracer := telemetry.Tracer("game")

	// Initialize game (traced)
	ctx, initSpan := tracer.Start(ctx, "game.init")
	defer initSpan.End()

	if opts.WorldWidth <= 0 || opts.WorldHeight <= 0 {
		return nil, fmt.Errorf("world size %dx%d must be positive", opts.WorldWidth, opts.WorldHeight)
	}
	w := world.New(opts.WorldWidth, opts.WorldHeight)
	w.Layered(ctx, opts.GroundRow)

	atlas, err := tile.LoadAtlas(ctx, b.Context(), opts.Sprites, logger)
	if err != nil {
		return nil, fmt.Errorf("load atlas: %w", err)
	}

	vp, err := view.New(opts.Center, b.Canvas().OutputSize(), opts.Zoom)
	if err != nil {
		atlas.Release()
		return nil, err
	}

	fps := TargetFPS(b.Display(), opts.FallbackFPS)
	initSpan.SetAttributes(
		attribute.String("backend", b.Name()),
		attribute.Int("world.width", w.Width()),
		attribute.Int("world.height", w.Height()),
		attribute.Int("fps.target", fps),
	)

	g := &Game{
		backend: b,
		world:   w,
		atlas:   atlas,
		logger:  logger,
	}
	g.loop = &Loop{
		Events:       b.Events(),
		Canvas:       b.Canvas(),
		Presenter:    b.Presenter(),
		World:        w,
		Atlas:        atlas,
		Viewport:     vp,
		Mode:         opts.Mode,
		Background:   opts.Background,
		TargetFPS:    fps,
		AnimateEvery: opts.AnimateEvery,
		Logger:       logger,
		Tracer:       tracer,
		TraceFrames:  opts.TraceFrames,
	}
	return g, nil
}

// World returns the grid being drawn.
func (g *Game) World() *world.World {
	return g.world
}

// Loop returns the frame driver.
func (g *Game) Loop() *Loop {
	return g.loop
}

// Run hands the loop to the backend.
func (g *Game) Run(ctx context.Context) (Stats, error) {
	return g.backend.Run(ctx, g.loop)
}

// Close releases the atlas textures, then the backend that created them.
func (g *Game) Close() error {
	if g.atlas != nil {
		g.atlas.Release()
		g.atlas = nil
	}
	return g.backend.Close()
}
