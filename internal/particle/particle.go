// Package particle owns the live particle population and the flat staging
// buffers handed to the renderer each frame.
//
// A frame runs, in order:
//
//	store.Spawn(at, policy.Rate, policy) // only while the pointer is down
//	store.StepAll()
//	store.Cull(width, height)
//	positions, scales, colors, n := store.Stage()
//
// # Thread Safety
//
// Store is NOT thread-safe. It is mutated and read within a single tick on
// one goroutine.
package particle

import "math"

// Vec2 is a screen-space coordinate in pixels, y growing downward.
type Vec2 struct {
	X, Y float64
}

// Polar is an (angle, speed) pair. Angle is in radians.
type Polar struct {
	Angle float64
	Speed float64
}

// Particle is one live point sprite. Vel and Acc are polar pairs.
type Particle struct {
	Pos Vec2
	Vel Polar
	// Acc is added component-wise to Vel every tick, so Acc.Angle turns the
	// heading and Acc.Speed changes the speed.
	Acc    Polar
	Scale  float64
	Growth float64
	Hue    float64
	Chroma float64
}

// Step advances p by one tick.
func (p *Particle) Step() {
	sin, cos := math.Sincos(p.Vel.Angle)
	p.Pos.X += cos * p.Vel.Speed
	p.Pos.Y += sin * p.Vel.Speed
	p.Vel.Angle += p.Acc.Angle
	p.Vel.Speed += p.Acc.Speed
	p.Scale += p.Growth
	p.Hue += p.Chroma
}

// Alive reports whether p lies strictly inside a width x height surface and
// still has a positive size.
func (p *Particle) Alive(width, height float64) bool {
	return p.Pos.X > 0 &&
		p.Pos.Y > 0 &&
		p.Pos.X < width &&
		p.Pos.Y < height &&
		p.Scale > 0
}
