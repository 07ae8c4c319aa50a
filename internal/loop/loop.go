// Package loop drives the simulate-then-render cycle from a display's
// frame callbacks.
package loop

import (
	"time"

	"github.com/san-kum/sparks/internal/input"
	"github.com/san-kum/sparks/internal/particle"
	"github.com/san-kum/sparks/internal/render"
)

// State is the loop phase: Idle until the surface has a size, then Running.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// Display is the host surface. RequestFrame schedules fn exactly once,
// before the next repaint.
type Display interface {
	RequestFrame(fn func())
	// Size reports the current surface size in pixels. Non-positive values
	// mean the surface is not available yet.
	Size() (width, height int)
	Input() input.Snapshot
}

// TickStats describes one Running tick.
type TickStats struct {
	Tick    uint64
	Width   int
	Height  int
	Live    int
	Spawned int
	Culled  int
	Dropped int
	Drawn   int
	Elapsed time.Duration
}

// Observer receives the stats of every tick.
type Observer interface {
	OnTick(s TickStats)
}

// Loop drives spawn, step, cull and render from display frame callbacks.
type Loop struct {
	store     *particle.Store
	renderer  *render.Renderer
	display   Display
	policy    particle.SpawnPolicy
	state     State
	ticks     uint64
	observers []Observer
}

func New(store *particle.Store, renderer *render.Renderer, display Display, policy particle.SpawnPolicy) *Loop {
	return &Loop{
		store:     store,
		renderer:  renderer,
		display:   display,
		policy:    policy,
		state:     Idle,
		observers: make([]Observer, 0),
	}
}

func (l *Loop) AddObserver(o Observer) { l.observers = append(l.observers, o) }

func (l *Loop) State() State  { return l.state }
func (l *Loop) Ticks() uint64 { return l.ticks }

func (l *Loop) Store() *particle.Store { return l.store }

// SetPolicy replaces the spawn policy from the next tick on.
func (l *Loop) SetPolicy(p particle.SpawnPolicy) { l.policy = p }

// Start schedules the first frame. The loop stays Idle until a frame
// callback sees a surface of known size.
func (l *Loop) Start() {
	l.display.RequestFrame(l.frame)
}

func (l *Loop) frame() {
	width, height := l.display.Size()
	if l.state == Idle {
		if width <= 0 || height <= 0 {
			l.display.RequestFrame(l.frame)
			return
		}
		l.state = Running
	}

	l.Tick(l.display.Input(), width, height)
	l.display.RequestFrame(l.frame)
}

// Tick runs one simulation and render step against an explicit input
// snapshot and surface size.
func (l *Loop) Tick(in input.Snapshot, width, height int) TickStats {
	start := time.Now()
	dropped := l.store.Dropped()

	stats := TickStats{Tick: l.ticks, Width: width, Height: height}

	if in.Down {
		stats.Spawned = l.store.Spawn(particle.Vec2{X: in.X, Y: in.Y}, l.policy.Rate, l.policy)
	}
	l.store.StepAll()
	stats.Culled = l.store.Cull(float64(width), float64(height))
	l.renderer.Render(l.store, width, height)

	stats.Live = l.store.Len()
	stats.Drawn = l.renderer.Instances
	stats.Dropped = int(l.store.Dropped() - dropped)
	stats.Elapsed = time.Since(start)
	l.ticks++

	for _, o := range l.observers {
		o.OnTick(stats)
	}
	return stats
}
