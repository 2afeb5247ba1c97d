package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/tileworld/internal/gfx"
	"github.com/samdwyer/tileworld/internal/platform"
	"github.com/samdwyer/tileworld/internal/telemetry"
	"github.com/samdwyer/tileworld/internal/tile"
	"github.com/samdwyer/tileworld/internal/view"
	"github.com/samdwyer/tileworld/internal/world"
)

// Presenter shows the finished frame.
type Presenter interface {
	Present() error
}

// PresentFunc adapts a function to Presenter.
type PresentFunc func() error

// Present calls f.
func (f PresentFunc) Present() error {
	return f()
}

// resizer is implemented by canvases that own their pixel buffer.
type resizer interface {
	Resize(gfx.Size)
}

// Loop is the per-frame driver. It is single-threaded: Frame, Step and
// Run must be called from one goroutine, and the only suspension point is
// the pacer sleep.
type Loop struct {
	Events    platform.EventSource
	Canvas    gfx.Canvas
	Presenter Presenter
	Pacer     Pacer
	Now       func() time.Time

	World    *world.World
	Atlas    *tile.Atlas
	Viewport *view.Viewport
	Mode     Mode

	Background   gfx.Color
	TargetFPS    int
	AnimateEvery int // advance tile frames every N frames, 0 disables

	Logger      *log.Logger
	Tracer      trace.Tracer
	TraceFrames bool

	stats    Stats
	quit     bool
	started  time.Time
	runSpan  trace.Span
	frameNum int
}

// Stats returns the statistics accumulated so far.
func (l *Loop) Stats() Stats {
	s := l.stats
	s.TargetFPS = l.TargetFPS
	return s
}

// Frame renders one frame: drain events, clear to the background color,
// draw the tiles, present. It reports quit without drawing when a Quit
// event was pending. Clear and present errors are returned after the
// frame has been completed as far as possible.
func (l *Loop) Frame(ctx context.Context) (quit bool, err error) {
	if l.TraceFrames {
		var span trace.Span
		_, span = l.tracer().Start(ctx, "game.frame", trace.WithAttributes(attribute.Int("frame", l.frameNum)))
		defer span.End()
	}

	l.handleEvents()
	if l.quit {
		return true, nil
	}

	l.frameNum++
	l.animate()

	var errs []error
	l.Canvas.SetDrawColor(l.Background)
	if err := l.Canvas.Clear(); err != nil {
		errs = append(errs, fmt.Errorf("clear: %w", err))
	}

	rs := l.draw()
	if rs.Failed > 0 {
		l.stats.BlitFailures += rs.Failed
		l.logger().Debug("tiles not drawn", "failed", rs.Failed, "drawn", rs.Drawn, "error", rs.Err)
	}

	if l.Presenter != nil {
		if err := l.Presenter.Present(); err != nil {
			errs = append(errs, fmt.Errorf("present: %w", err))
		}
	}
	return false, errors.Join(errs...)
}

// Step runs one Frame, then paces and accounts it. It reports whether the
// loop should stop.
func (l *Loop) Step(ctx context.Context) bool {
	start := l.now()
	quit, err := l.Frame(ctx)
	if err != nil {
		l.logger().Error("frame failed", "error", err)
	}
	if quit {
		return true
	}

	elapsed := l.now().Sub(start)
	budget := l.Stats().IdealFrameTime()
	if elapsed < budget {
		if err := l.pacer().Sleep(ctx, budget-elapsed); err != nil {
			return true
		}
	} else if budget > 0 {
		l.stats.Overruns++
		l.logger().Warn("frame overran its budget", "elapsed", elapsed, "budget", budget)
	}

	l.stats.Frames++
	l.stats.TotalFrameTime += elapsed
	return false
}

// Start marks the beginning of a run and opens the run span. Backends that
// own their event loop call Start, then Step once per frame, then Finish.
func (l *Loop) Start(ctx context.Context) context.Context {
	ctx, l.runSpan = l.tracer().Start(ctx, "game.run")
	l.runSpan.SetAttributes(
		attribute.String("render.mode", l.Mode.String()),
		attribute.Int("fps.target", l.TargetFPS),
	)
	l.started = l.now()
	l.logger().Info("render loop started", "mode", l.Mode, "fps", l.TargetFPS)
	return ctx
}

// Finish closes the run span and logs the run averages.
func (l *Loop) Finish() Stats {
	l.stats.Wall = l.now().Sub(l.started)
	s := l.Stats()

	l.logger().Info(fmt.Sprintf("average frame time %v (ideal upper bound %v)", s.AverageFrameTime(), s.IdealFrameTime()))
	l.logger().Info(fmt.Sprintf("average frame rate %.2f (ideal %d)", s.AverageFPS(), s.TargetFPS))

	if l.runSpan != nil {
		l.runSpan.SetAttributes(s.attributes()...)
		l.runSpan.End()
		l.runSpan = nil
	}
	return s
}

// Run steps until a Quit event arrives or ctx is done. A cancelled context
// is reported as its error alongside the stats.
func (l *Loop) Run(ctx context.Context) (Stats, error) {
	ctx = l.Start(ctx)
	for ctx.Err() == nil {
		if l.Step(ctx) {
			break
		}
	}
	return l.Finish(), ctx.Err()
}

func (l *Loop) handleEvents() {
	if l.Events == nil {
		return
	}
	for _, ev := range l.Events.Poll() {
		switch e := ev.(type) {
		case platform.Quit:
			l.quit = true
		case platform.Resize:
			if r, ok := l.Canvas.(resizer); ok {
				r.Resize(e.Size)
			}
			if l.Viewport != nil {
				l.Viewport.SetOutput(e.Size)
			}
		case platform.Pan:
			if l.Viewport != nil {
				l.Viewport.Pan(e.DX, e.DY)
			}
		case platform.Zoom:
			if l.Viewport != nil {
				if err := l.Viewport.SetZoom(l.Viewport.Zoom() * e.Factor); err != nil {
					l.logger().Warn("zoom ignored", "error", err)
				}
			}
		}
	}
}

// animate advances every tile one column through its sheet.
func (l *Loop) animate() {
	if l.AnimateEvery <= 0 || l.Atlas == nil || l.World == nil || l.frameNum%l.AnimateEvery != 0 {
		return
	}
	l.World.Each(func(_, _ int, t *tile.Tile) {
		if n := l.Atlas.Frames(t.Kind()); n > 0 {
			t.SetFrame((t.Frame() + 1) % uint32(n))
		}
	})
}

func (l *Loop) draw() view.RenderStats {
	if l.World == nil {
		return view.RenderStats{}
	}
	if l.Mode == ModeDirect || l.Viewport == nil {
		return drawDirect(l.Canvas, l.World, l.Atlas)
	}
	return l.Viewport.Render(l.Canvas, l.World, l.Atlas)
}

// drawDirect draws every cell at its unscaled position.
func drawDirect(c gfx.Canvas, w *world.World, atlas *tile.Atlas) view.RenderStats {
	var stats view.RenderStats
	w.Each(func(i, j int, t *tile.Tile) {
		stats.Visible++
		dest := gfx.R(i*tile.Size, j*tile.Size, tile.Size, tile.Size)
		if err := t.Render(atlas, c, dest); err != nil {
			stats.Failed++
			if stats.Err == nil {
				stats.Err = fmt.Errorf("tile (%d, %d): %w", i, j, err)
			}
			return
		}
		stats.Drawn++
	})
	return stats
}

func (l *Loop) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l *Loop) pacer() Pacer {
	if l.Pacer != nil {
		return l.Pacer
	}
	return SleepPacer{}
}

func (l *Loop) logger() *log.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return log.Default()
}

func (l *Loop) tracer() trace.Tracer {
	if l.Tracer != nil {
		return l.Tracer
	}
	return telemetry.NoopTracer()
}
