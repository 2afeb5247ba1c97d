package term

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/tileworld/internal/game"
	"github.com/samdwyer/tileworld/internal/gfx"
	"github.com/samdwyer/tileworld/internal/gfx/soft"
	"github.com/samdwyer/tileworld/internal/platform"
)

// Backend renders into a software canvas and presents it on a Screen.
type Backend struct {
	screen *Screen
	ctx    *soft.Context
	canvas *soft.Canvas
	loop   *game.Loop

	// ShowHUD overlays the camera state on the top row.
	ShowHUD bool
}

// New returns a backend whose canvas matches the screen's pixel size.
func New(screen *Screen) *Backend {
	return &Backend{
		screen: screen,
		ctx:    soft.NewContext(),
		canvas: soft.NewCanvas(screen.PixelSize()),
	}
}

// Name returns "terminal".
func (b *Backend) Name() string { return "terminal" }

// Context returns the software graphics context.
func (b *Backend) Context() gfx.Context { return b.ctx }

// Canvas returns the software canvas.
func (b *Backend) Canvas() gfx.Canvas { return b.canvas }

// Events returns the screen's event source.
func (b *Backend) Events() platform.EventSource { return b.screen }

// Display returns the screen, which reports no refresh rate.
func (b *Backend) Display() platform.Display { return b.screen }

// Presenter converts the canvas to half-blocks and shows it.
func (b *Backend) Presenter() game.Presenter {
	return game.PresentFunc(b.present)
}

// Run drives loop on the calling goroutine.
func (b *Backend) Run(ctx context.Context, loop *game.Loop) (game.Stats, error) {
	b.loop = loop
	return loop.Run(ctx)
}

// Close restores the terminal.
func (b *Backend) Close() error {
	b.screen.Close()
	return nil
}

func (b *Backend) present() error {
	b.screen.DrawHalfBlocks(b.canvas.Image())
	if b.ShowHUD {
		b.drawHUD()
	}
	b.screen.Show()
	return nil
}

func (b *Backend) drawHUD() {
	if b.loop == nil || b.loop.Viewport == nil || b.loop.World == nil {
		return
	}
	vp := b.loop.Viewport
	out := vp.Output()
	tx, ty := vp.ScreenToTile(out.W/2, out.H/2)
	c := vp.Center()
	text := fmt.Sprintf(" center %d,%d  zoom %.2g  under %s ", c.X, c.Y, vp.Zoom(), b.loop.World.KindAt(tx, ty))
	if t, err := b.loop.World.Tile(tx, ty); err == nil {
		text += fmt.Sprintf("mask %d ", t.NeighborMask())
	}
	b.screen.DrawText(0, 0, text, tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
}
