package game

import (
	"context"
	"time"

	"github.com/samdwyer/tileworld/internal/platform"
)

// Pacer suspends the loop between frames.
type Pacer interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleepPacer sleeps on a timer and wakes early if ctx is done.
type SleepPacer struct{}

// Sleep waits for d or ctx.
func (SleepPacer) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NopPacer never sleeps. Backends that pace frames themselves use it.
type NopPacer struct{}

// Sleep returns immediately.
func (NopPacer) Sleep(context.Context, time.Duration) error {
	return nil
}

// TargetFPS returns the display refresh rate, or fallback when the display
// does not report one.
func TargetFPS(d platform.Display, fallback int) int {
	if d != nil {
		if hz := d.RefreshRate(); hz > 0 {
			return hz
		}
	}
	if fallback <= 0 {
		return 60
	}
	return fallback
}
