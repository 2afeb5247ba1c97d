// Package game drives the per-frame render loop and wires a backend,
// a world and an atlas together.
package game

import "fmt"

// Mode selects how tiles are mapped to the screen.
type Mode int

const (
	// ModeViewport draws the tiles visible through the viewport, scaled by
	// its zoom.
	ModeViewport Mode = iota
	// ModeDirect draws every world cell at (i*8, j*8) with no camera.
	ModeDirect
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeViewport:
		return "viewport"
	case ModeDirect:
		return "direct"
	default:
		return "unknown"
	}
}

// ParseMode is the inverse of String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "viewport", "":
		return ModeViewport, nil
	case "direct":
		return ModeDirect, nil
	}
	return ModeViewport, fmt.Errorf("unknown render mode %q", s)
}
