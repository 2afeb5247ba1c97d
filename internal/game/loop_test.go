package game

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/tileworld/internal/gfx"
	"github.com/samdwyer/tileworld/internal/gfx/soft"
	"github.com/samdwyer/tileworld/internal/platform"
	"github.com/samdwyer/tileworld/internal/tile"
	"github.com/samdwyer/tileworld/internal/view"
	"github.com/samdwyer/tileworld/internal/world"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	green = color.NRGBA{G: 200, A: 255}
	brown = color.NRGBA{R: 120, G: 80, A: 255}
	grey  = color.NRGBA{R: 90, G: 90, B: 90, A: 255}
)

func kindColor(k tile.Kind) color.NRGBA {
	switch k {
	case tile.Grass:
		return green
	case tile.Dirt:
		return brown
	default:
		return grey
	}
}

// writeSolidSheets writes a single-color sheet with the given number of
// frame columns for every drawable kind.
func writeSolidSheets(t *testing.T, frames int) string {
	t.Helper()
	dir := t.TempDir()
	for _, k := range tile.Kinds() {
		if k == tile.Nothing {
			continue
		}
		img := image.NewNRGBA(image.Rect(0, 0, frames*tile.Size, tile.MaskRows*tile.Size))
		for y := 0; y < img.Rect.Dy(); y++ {
			for x := 0; x < img.Rect.Dx(); x++ {
				img.SetNRGBA(x, y, kindColor(k))
			}
		}
		f, err := os.Create(tile.AssetPath(dir, k))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, img))
		require.NoError(t, f.Close())
	}
	return dir
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// fakeClock advances only when told to.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// recordingPacer advances the clock instead of sleeping.
type recordingPacer struct {
	clock  *fakeClock
	sleeps []time.Duration
}

func (p *recordingPacer) Sleep(ctx context.Context, d time.Duration) error {
	p.sleeps = append(p.sleeps, d)
	p.clock.Advance(d)
	return ctx.Err()
}

type fixture struct {
	loop     *Loop
	canvas   *soft.Canvas
	events   *platform.Queue
	clock    *fakeClock
	pacer    *recordingPacer
	presents int
}

// newFixture builds a 4x3 world with grass on row 1 and dirt on row 2,
// drawn into a 32x24 software canvas.
func newFixture(t *testing.T, frames int) *fixture {
	t.Helper()
	ctx := t.Context()
	gctx := soft.NewContext()

	atlas, err := tile.LoadAtlas(ctx, gctx, writeSolidSheets(t, frames), quietLogger())
	require.NoError(t, err)
	t.Cleanup(atlas.Release)

	w := world.New(4, 3)
	w.Layered(ctx, 1)

	canvas := soft.NewCanvas(gfx.Size{W: 32, H: 24})
	vp, err := view.New(gfx.Point{X: 2, Y: 1}, canvas.OutputSize(), 1)
	require.NoError(t, err)

	f := &fixture{
		canvas: canvas,
		events: &platform.Queue{},
		clock:  &fakeClock{now: time.Unix(1000, 0)},
	}
	f.pacer = &recordingPacer{clock: f.clock}
	f.loop = &Loop{
		Events:     f.events,
		Canvas:     canvas,
		Presenter:  PresentFunc(func() error { f.presents++; return nil }),
		Pacer:      f.pacer,
		Now:        f.clock.Now,
		World:      w,
		Atlas:      atlas,
		Viewport:   vp,
		Background: gfx.White,
		TargetFPS:  50,
		Logger:     quietLogger(),
	}
	return f
}

func TestFrameDrawsLayers(t *testing.T) {
	for _, mode := range []Mode{ModeViewport, ModeDirect} {
		t.Run(mode.String(), func(t *testing.T) {
			f := newFixture(t, 1)
			f.loop.Mode = mode

			quit, err := f.loop.Frame(t.Context())
			require.NoError(t, err)
			assert.False(t, quit)
			assert.Equal(t, 1, f.presents)

			img := f.canvas.Image()
			assert.Equal(t, white, img.NRGBAAt(4, 4), "sky is the background")
			assert.Equal(t, green, img.NRGBAAt(4, 12))
			assert.Equal(t, brown, img.NRGBAAt(31, 23))
		})
	}
}

func TestFrameZoomedViewport(t *testing.T) {
	f := newFixture(t, 1)
	require.NoError(t, f.loop.Viewport.SetZoom(2))

	_, err := f.loop.Frame(t.Context())
	require.NoError(t, err)

	// Origin is tile (1, 1); each tile spans 16 pixels.
	img := f.canvas.Image()
	assert.Equal(t, green, img.NRGBAAt(0, 0))
	assert.Equal(t, green, img.NRGBAAt(15, 15))
	assert.Equal(t, brown, img.NRGBAAt(0, 16))
}

func TestFrameQuitSkipsDrawing(t *testing.T) {
	f := newFixture(t, 1)
	f.events.Push(platform.Resize{Size: gfx.Size{W: 8, H: 8}}, platform.Quit{})

	quit, err := f.loop.Frame(t.Context())
	require.NoError(t, err)
	assert.True(t, quit)
	assert.Zero(t, f.presents)
	assert.Equal(t, color.NRGBA{}, f.canvas.Image().NRGBAAt(0, 0))
}

func TestFrameHandlesCameraEvents(t *testing.T) {
	f := newFixture(t, 1)
	f.events.Push(
		platform.Resize{Size: gfx.Size{W: 64, H: 48}},
		platform.Pan{DX: 1, DY: -1},
		platform.Zoom{Factor: 2},
		platform.Zoom{Factor: 0},
	)

	_, err := f.loop.Frame(t.Context())
	require.NoError(t, err)

	assert.Equal(t, gfx.Size{W: 64, H: 48}, f.canvas.OutputSize())
	assert.Equal(t, gfx.Size{W: 64, H: 48}, f.loop.Viewport.Output())
	assert.Equal(t, gfx.Point{X: 3, Y: 0}, f.loop.Viewport.Center())
	assert.Equal(t, 2.0, f.loop.Viewport.Zoom(), "zero factor is rejected")
}

func TestFrameReportsPresentError(t *testing.T) {
	f := newFixture(t, 1)
	boom := errors.New("boom")
	f.loop.Presenter = PresentFunc(func() error { return boom })

	quit, err := f.loop.Frame(t.Context())
	assert.False(t, quit)
	assert.ErrorIs(t, err, boom)

	// A failed present does not stop the loop.
	assert.False(t, f.loop.Step(t.Context()))
	assert.Equal(t, 1, f.loop.Stats().Frames)
}

func TestFrameAnimatesTiles(t *testing.T) {
	f := newFixture(t, 2)
	f.loop.AnimateEvery = 2

	frameOf := func(x, y int) uint32 {
		tl := f.loop.World.TileAt(x, y)
		return tl.Frame()
	}

	_, err := f.loop.Frame(t.Context())
	require.NoError(t, err)
	assert.Equal(t, uint32(0), frameOf(0, 1))

	_, err = f.loop.Frame(t.Context())
	require.NoError(t, err)
	assert.Equal(t, uint32(1), frameOf(0, 1))
	assert.Equal(t, uint32(1), frameOf(0, 2))
	assert.Equal(t, uint32(0), frameOf(0, 0), "nothing has no sheet to step through")

	for range 2 {
		_, err = f.loop.Frame(t.Context())
		require.NoError(t, err)
	}
	assert.Equal(t, uint32(0), frameOf(0, 1), "frames wrap at the sheet width")
}

func TestRunPacesAndAccounts(t *testing.T) {
	f := newFixture(t, 1)
	f.loop.Presenter = PresentFunc(func() error {
		f.presents++
		f.clock.Advance(10 * time.Millisecond)
		if f.presents == 3 {
			f.events.Push(platform.Quit{})
		}
		return nil
	})

	stats, err := f.loop.Run(t.Context())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Frames)
	assert.Equal(t, 30*time.Millisecond, stats.TotalFrameTime)
	assert.Equal(t, 10*time.Millisecond, stats.AverageFrameTime())
	assert.Equal(t, 20*time.Millisecond, stats.IdealFrameTime())
	assert.Equal(t, 60*time.Millisecond, stats.Wall)
	assert.InDelta(t, 50.0, stats.AverageFPS(), 1e-9)
	assert.Zero(t, stats.Overruns)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 10 * time.Millisecond, 10 * time.Millisecond}, f.pacer.sleeps)
}

func TestRunCountsOverruns(t *testing.T) {
	f := newFixture(t, 1)
	f.loop.Presenter = PresentFunc(func() error {
		f.presents++
		f.clock.Advance(30 * time.Millisecond)
		if f.presents == 2 {
			f.events.Push(platform.Quit{})
		}
		return nil
	})

	stats, err := f.loop.Run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Frames)
	assert.Equal(t, 2, stats.Overruns)
	assert.Empty(t, f.pacer.sleeps)
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture(t, 1)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	stats, err := f.loop.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stats.Frames)
	assert.Zero(t, f.presents)
}

func TestTargetFPS(t *testing.T) {
	assert.Equal(t, 144, TargetFPS(platform.FixedDisplay(144), 60))
	assert.Equal(t, 60, TargetFPS(platform.FixedDisplay(0), 60))
	assert.Equal(t, 30, TargetFPS(nil, 30))
	assert.Equal(t, 60, TargetFPS(nil, 0))
}

func TestStatsZeroValues(t *testing.T) {
	var s Stats
	assert.Zero(t, s.AverageFrameTime())
	assert.Zero(t, s.AverageFPS())
	assert.Zero(t, s.IdealFrameTime())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"viewport", ModeViewport, true},
		{"direct", ModeDirect, true},
		{"", ModeViewport, true},
		{"iso", ModeViewport, false},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestSleepPacerHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	err := SleepPacer{}.Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, SleepPacer{}.Sleep(t.Context(), time.Microsecond))
	assert.NoError(t, NopPacer{}.Sleep(t.Context(), time.Hour))
}

func TestOptionsAssetPathIgnored(t *testing.T) {
	// Missing sheets are not fatal.
	atlas, err := tile.LoadAtlas(t.Context(), soft.NewContext(), filepath.Join(t.TempDir(), "none"), quietLogger())
	require.NoError(t, err)
	assert.False(t, atlas.Sprite(tile.Dirt).Loaded())
}
