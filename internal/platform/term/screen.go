// Package term runs the render loop in a terminal. Frames are drawn by the
// software renderer and shown as half-block cells, two pixels per cell.
package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/tileworld/internal/gfx"
	"github.com/samdwyer/tileworld/internal/platform"
)

// Screen wraps tcell.Screen with the event and display views the loop
// consumes.
type Screen struct {
	screen tcell.Screen
}

// NewScreen creates and initializes a new terminal screen.
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewScreenFrom(s)
}

// NewScreenFrom initializes s, which may be a simulation screen.
func NewScreenFrom(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	s.HideCursor()
	s.Clear()
	return &Screen{screen: s}, nil
}

// Close finalizes the screen and restores terminal state.
func (s *Screen) Close() {
	s.screen.Fini()
}

// Size returns the current terminal dimensions in cells.
func (s *Screen) Size() (width, height int) {
	return s.screen.Size()
}

// PixelSize returns the drawable size: one pixel per column, two per row.
func (s *Screen) PixelSize() gfx.Size {
	w, h := s.screen.Size()
	return gfx.Size{W: w, H: h * 2}
}

// RefreshRate reports 0; terminals do not expose one.
func (s *Screen) RefreshRate() int {
	return 0
}

// Poll drains the pending terminal events without blocking.
func (s *Screen) Poll() []platform.Event {
	var evs []platform.Event
	for s.screen.HasPendingEvent() {
		if ev := translate(s.screen.PollEvent()); ev != nil {
			evs = append(evs, ev)
		}
	}
	return evs
}

// translate maps a tcell event to a loop event, or nil.
func translate(ev tcell.Event) platform.Event {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := ev.Size()
		return platform.Resize{Size: gfx.Size{W: w, H: h * 2}}
	case *tcell.EventKey:
		return translateKey(ev)
	}
	return nil
}

func translateKey(ev *tcell.EventKey) platform.Event {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return platform.Quit{}
	case tcell.KeyUp:
		return platform.Pan{DY: -1}
	case tcell.KeyDown:
		return platform.Pan{DY: 1}
	case tcell.KeyLeft:
		return platform.Pan{DX: -1}
	case tcell.KeyRight:
		return platform.Pan{DX: 1}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return platform.Quit{}
		case '+', '=':
			return platform.Zoom{Factor: 2}
		case '-', '_':
			return platform.Zoom{Factor: 0.5}
		}
	}
	return nil
}

// Show flushes the screen buffer to the terminal.
func (s *Screen) Show() {
	s.screen.Show()
}

// Sync forces a complete redraw of the screen.
func (s *Screen) Sync() {
	s.screen.Sync()
}

// SetContent sets a single cell's content at the given position.
func (s *Screen) SetContent(x, y int, r rune, style tcell.Style) {
	s.screen.SetContent(x, y, r, nil, style)
}
