package loop

import (
	"context"
	"math"

	"github.com/san-kum/sparks/internal/input"
)

// Script yields the pointer state for a given frame number.
type Script func(frame uint64) input.Snapshot

// Orbit holds the pointer down while circling (cx, cy) once every period
// frames.
func Orbit(cx, cy, radius float64, period int) Script {
	return func(frame uint64) input.Snapshot {
		theta := 2 * math.Pi * float64(frame%uint64(period)) / float64(period)
		return input.Snapshot{
			Down: true,
			X:    cx + radius*math.Cos(theta),
			Y:    cy + radius*math.Sin(theta),
		}
	}
}

// Headless is a Display without a screen. Frames run only when pumped.
type Headless struct {
	Width, Height int
	Script        Script

	pending func()
	frames  uint64
}

func NewHeadless(width, height int, script Script) *Headless {
	return &Headless{Width: width, Height: height, Script: script}
}

func (h *Headless) RequestFrame(fn func()) { h.pending = fn }

func (h *Headless) Size() (int, int) { return h.Width, h.Height }

func (h *Headless) Input() input.Snapshot {
	if h.Script == nil {
		return input.Snapshot{}
	}
	return h.Script(h.frames)
}

func (h *Headless) Pending() bool  { return h.pending != nil }
func (h *Headless) Frames() uint64 { return h.frames }

// Pump runs up to n scheduled frames and returns how many ran. It stops
// early when nothing is scheduled or ctx is done.
func (h *Headless) Pump(ctx context.Context, n int) (int, error) {
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return i, ctx.Err()
		default:
		}

		fn := h.pending
		if fn == nil {
			return i, nil
		}
		h.pending = nil
		fn()
		h.frames++
	}
	return n, nil
}
