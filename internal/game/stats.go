package game

import (
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// Stats accumulates frame timing over a run.
type Stats struct {
	Frames         int
	TotalFrameTime time.Duration // sum of per-frame work, sleeps excluded
	Overruns       int           // frames that took longer than the budget
	BlitFailures   int
	Wall           time.Duration // from run start to run end
	TargetFPS      int
}

// AverageFrameTime returns TotalFrameTime / Frames.
func (s Stats) AverageFrameTime() time.Duration {
	if s.Frames == 0 {
		return 0
	}
	return s.TotalFrameTime / time.Duration(s.Frames)
}

// AverageFPS returns frames per second of wall time.
func (s Stats) AverageFPS() float64 {
	if s.Wall <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Wall.Seconds()
}

// IdealFrameTime returns the frame budget, 1/TargetFPS.
func (s Stats) IdealFrameTime() time.Duration {
	if s.TargetFPS <= 0 {
		return 0
	}
	return time.Second / time.Duration(s.TargetFPS)
}

func (s Stats) attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("frames", s.Frames),
		attribute.Int("frames.overruns", s.Overruns),
		attribute.Int("frames.blit_failures", s.BlitFailures),
		attribute.Int("fps.target", s.TargetFPS),
		attribute.Float64("fps.average", s.AverageFPS()),
		attribute.Int64("frame_time.average_us", s.AverageFrameTime().Microseconds()),
	}
}
