// Package window runs the render loop in a desktop window driven by
// ebiten. Ebiten owns the OS event loop; each Draw call is one loop step.
package window

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/samdwyer/tileworld/internal/game"
	"github.com/samdwyer/tileworld/internal/gfx"
	"github.com/samdwyer/tileworld/internal/gfx/ebitengfx"
	"github.com/samdwyer/tileworld/internal/platform"
)

// Window is a resizable ebiten window. It implements game.Backend and
// ebiten.Game.
type Window struct {
	title  string
	size   gfx.Size
	ctx    *ebitengfx.Context
	canvas *ebitengfx.Canvas
	events platform.Queue

	loop    *game.Loop
	runCtx  context.Context
	stopped bool
}

// New returns a window of the given size in pixels. Nothing is shown until
// Run.
func New(title string, size gfx.Size) *Window {
	return &Window{
		title:  title,
		size:   size,
		ctx:    ebitengfx.NewContext(),
		canvas: ebitengfx.NewCanvas(size),
	}
}

// Name returns "window".
func (w *Window) Name() string { return "window" }

// Context returns the GPU graphics context.
func (w *Window) Context() gfx.Context { return w.ctx }

// Canvas returns the canvas bound to the screen on every Draw.
func (w *Window) Canvas() gfx.Canvas { return w.canvas }

// Events returns the queue fed from Update and Layout.
func (w *Window) Events() platform.EventSource { return &w.events }

// Display reports an unknown refresh rate; ebiten does not expose one.
func (w *Window) Display() platform.Display { return platform.FixedDisplay(0) }

// Presenter returns nil: ebiten presents the screen after Draw returns.
func (w *Window) Presenter() game.Presenter { return nil }

// Run opens the window and blocks until the loop quits, the window is
// closed or ctx is done. Frame pacing is left to ebiten's tick rate.
func (w *Window) Run(ctx context.Context, loop *game.Loop) (game.Stats, error) {
	w.loop = loop
	loop.Pacer = game.NopPacer{}

	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowSize(w.size.W, w.size.H)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(loop.TargetFPS)

	w.runCtx = loop.Start(ctx)
	err := ebiten.RunGame(w)
	stats := loop.Finish()
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}
	if err == nil {
		err = ctx.Err()
	}
	return stats, err
}

// Close is a no-op; ebiten tears the window down when RunGame returns.
func (w *Window) Close() error {
	return nil
}

// Update collects input. It ends the game once a step has seen Quit.
func (w *Window) Update() error {
	if w.stopped || w.runCtx.Err() != nil {
		return ebiten.Termination
	}
	if ebiten.IsWindowBeingClosed() || inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		w.events.Push(platform.Quit{})
	}
	for _, k := range []struct {
		key ebiten.Key
		ev  platform.Event
	}{
		{ebiten.KeyArrowLeft, platform.Pan{DX: -1}},
		{ebiten.KeyArrowRight, platform.Pan{DX: 1}},
		{ebiten.KeyArrowUp, platform.Pan{DY: -1}},
		{ebiten.KeyArrowDown, platform.Pan{DY: 1}},
		{ebiten.KeyEqual, platform.Zoom{Factor: 2}},
		{ebiten.KeyMinus, platform.Zoom{Factor: 0.5}},
	} {
		if inpututil.IsKeyJustPressed(k.key) {
			w.events.Push(k.ev)
		}
	}
	return nil
}

// Draw runs one loop step against screen.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.stopped {
		return
	}
	w.canvas.Bind(screen)
	if w.loop.Step(w.runCtx) {
		w.stopped = true
	}
}

// Layout keeps one screen pixel per window pixel and reports size changes
// as Resize events.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := gfx.Size{W: outsideWidth, H: outsideHeight}
	if size != w.size {
		w.size = size
		w.events.Push(platform.Resize{Size: size})
	}
	return outsideWidth, outsideHeight
}
