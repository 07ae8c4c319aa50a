// Package input carries pointer state from a host into the frame loop.
package input

import "sync/atomic"

// Snapshot is the pointer state read once at the start of a tick. X and Y
// are in the same pixel space as the render surface.
type Snapshot struct {
	Down bool
	X, Y float64
}

// Tracker publishes pointer updates from event handlers and hands the frame
// loop a consistent snapshot, even when events arrive on another goroutine.
type Tracker struct {
	cur atomic.Pointer[Snapshot]
}

func NewTracker() *Tracker {
	t := &Tracker{}
	t.cur.Store(&Snapshot{})
	return t
}

func (t *Tracker) Move(x, y float64) {
	for {
		old := t.cur.Load()
		next := &Snapshot{Down: old.Down, X: x, Y: y}
		if t.cur.CompareAndSwap(old, next) {
			return
		}
	}
}

func (t *Tracker) Press()   { t.setDown(true) }
func (t *Tracker) Release() { t.setDown(false) }

func (t *Tracker) setDown(down bool) {
	for {
		old := t.cur.Load()
		next := &Snapshot{Down: down, X: old.X, Y: old.Y}
		if t.cur.CompareAndSwap(old, next) {
			return
		}
	}
}

// Set replaces the whole state at once, for hosts that poll.
func (t *Tracker) Set(s Snapshot) {
	t.cur.Store(&s)
}

func (t *Tracker) Snapshot() Snapshot {
	return *t.cur.Load()
}
