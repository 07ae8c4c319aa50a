package particle

import (
	"math/rand"
	"time"

	"github.com/san-kum/sparks/internal/color"
)

const (
	PositionStride = 2
	ScaleStride    = 1
	ColorStride    = 3
)

// Store holds the live particles and the fixed-capacity staging buffers.
// Live particles never exceed the capacity; excess spawns are dropped.
type Store struct {
	particles []Particle
	capacity  int
	dropped   uint64

	positions []float32
	scales    []float32
	colors    []float32

	rng   *rand.Rand
	clock func() time.Time
}

// New preallocates staging buffers for capacity particles. A nil rng is
// replaced by a time-seeded one.
func New(capacity int, rng *rand.Rand) *Store {
	if capacity < 0 {
		capacity = 0
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Store{
		particles: make([]Particle, 0, min(capacity, 4096)),
		capacity:  capacity,
		positions: make([]float32, capacity*PositionStride),
		scales:    make([]float32, capacity*ScaleStride),
		colors:    make([]float32, capacity*ColorStride),
		rng:       rng,
		clock:     time.Now,
	}
}

// SetClock replaces the clock used to seed spawn hues.
func (s *Store) SetClock(clock func() time.Time) { s.clock = clock }

func (s *Store) Len() int { return len(s.particles) }
func (s *Store) Cap() int { return s.capacity }

// Dropped is the total number of spawns rejected because the store was full.
func (s *Store) Dropped() uint64 { return s.dropped }

// Particles returns the live set in iteration order. The slice aliases the
// store and is only valid until the next mutating call.
func (s *Store) Particles() []Particle { return s.particles }

func (s *Store) Reset() {
	s.particles = s.particles[:0]
	s.dropped = 0
}

// Add appends p as is. It reports false if the store is full.
func (s *Store) Add(p Particle) bool {
	if len(s.particles) >= s.capacity {
		s.dropped++
		return false
	}
	s.particles = append(s.particles, p)
	return true
}

// Spawn appends up to count particles at `at` and returns how many were
// added.
func (s *Store) Spawn(at Vec2, count int, policy SpawnPolicy) int {
	if count <= 0 {
		return 0
	}
	room := s.capacity - len(s.particles)
	n := min(count, room)
	if n < count {
		s.dropped += uint64(count - n)
	}

	now := s.clock()
	for i := 0; i < n; i++ {
		s.particles = append(s.particles, policy.New(s.rng, at, now))
	}
	return n
}

// StepAll advances every live particle by one tick. Particles do not
// interact, so the result is independent of iteration order.
func (s *Store) StepAll() {
	for i := range s.particles {
		s.particles[i].Step()
	}
}

// Cull drops every particle outside the (0, width) x (0, height) surface or
// with a non-positive scale. Survivors keep their relative order and the
// backing array is reused. It returns the number removed.
func (s *Store) Cull(width, height float64) int {
	kept := s.particles[:0]
	for _, p := range s.particles {
		if p.Alive(width, height) {
			kept = append(kept, p)
		}
	}
	removed := len(s.particles) - len(kept)
	s.particles = kept
	return removed
}

// Stage rewrites the staging buffers from the live set, slot i holding the
// i-th live particle. Only the first n slots of each buffer are meaningful;
// the tail keeps whatever an earlier frame wrote there.
func (s *Store) Stage() (positions, scales, colors []float32, n int) {
	n = len(s.particles)
	for i := range s.particles {
		p := &s.particles[i]
		s.positions[i*PositionStride] = float32(p.Pos.X)
		s.positions[i*PositionStride+1] = float32(p.Pos.Y)
		s.scales[i] = float32(p.Scale)
		r, g, b := color.HSLToRGB32(p.Hue, 100, 50)
		s.colors[i*ColorStride] = r
		s.colors[i*ColorStride+1] = g
		s.colors[i*ColorStride+2] = b
	}
	return s.positions, s.scales, s.colors, n
}
