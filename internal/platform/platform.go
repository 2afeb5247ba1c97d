// Package platform describes the window events and display facts the
// render loop consumes.
package platform

import "github.com/samdwyer/tileworld/internal/gfx"

// Event is a window notification. Only the types in this package are
// produced; backends drop everything else.
type Event interface {
	isEvent()
}

// Quit asks the loop to stop at the next frame boundary.
type Quit struct{}

// Resize reports a new output size in pixels.
type Resize struct {
	Size gfx.Size
}

// Pan asks the viewport to move by (DX, DY) tiles.
type Pan struct {
	DX, DY int
}

// Zoom asks the viewport to multiply its zoom factor.
type Zoom struct {
	Factor float64
}

func (Quit) isEvent()   {}
func (Resize) isEvent() {}
func (Pan) isEvent()    {}
func (Zoom) isEvent()   {}

// EventSource yields the events that arrived since the last poll without
// blocking.
type EventSource interface {
	Poll() []Event
}

// Display reports facts about the output device.
type Display interface {
	// RefreshRate returns the refresh rate in Hz, or 0 when unknown.
	RefreshRate() int
}

// Queue is an EventSource fed by hand. Backends that receive events through
// callbacks push into it; tests script it.
type Queue struct {
	pending []Event
}

// Push appends events.
func (q *Queue) Push(evs ...Event) {
	q.pending = append(q.pending, evs...)
}

// Poll returns and clears the pending events.
func (q *Queue) Poll() []Event {
	evs := q.pending
	q.pending = nil
	return evs
}

// FixedDisplay is a Display with a known refresh rate.
type FixedDisplay int

// RefreshRate returns the fixed rate.
func (d FixedDisplay) RefreshRate() int {
	return int(d)
}
