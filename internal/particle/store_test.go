package particle_test

import (
	"math"
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sparks/internal/color"
	"github.com/san-kum/sparks/internal/particle"
)

var fixedNow = time.UnixMilli(1_700_000_000_000)

func newStore(capacity int) *particle.Store {
	s := particle.New(capacity, rand.New(rand.NewSource(42)))
	s.SetClock(func() time.Time { return fixedNow })
	return s
}

var _ = Describe("Store", func() {
	var (
		store  *particle.Store
		policy particle.SpawnPolicy
	)

	BeforeEach(func() {
		store = newStore(1000)
		policy = particle.DefaultPolicy()
	})

	Describe("Spawn", func() {
		It("adds exactly count particles at the spawn point", func() {
			Expect(store.Spawn(particle.Vec2{X: 100, Y: 100}, 100, policy)).To(Equal(100))
			Expect(store.Len()).To(Equal(100))

			for _, p := range store.Particles() {
				Expect(p.Pos).To(Equal(particle.Vec2{X: 100, Y: 100}))
				Expect(p.Scale).To(Equal(policy.Scale))
				Expect(p.Vel.Speed).To(Equal(policy.Speed))
				Expect(p.Chroma).To(Equal(policy.Chroma))
			}
		})

		It("randomizes within the policy ranges", func() {
			store.Spawn(particle.Vec2{X: 1, Y: 1}, 500, policy)

			for _, p := range store.Particles() {
				Expect(p.Vel.Angle).To(BeNumerically(">=", 0))
				Expect(p.Vel.Angle).To(BeNumerically("<", 2*math.Pi))
				Expect(p.Acc.Angle).To(BeNumerically(">=", 0))
				Expect(p.Acc.Angle).To(BeNumerically("<", 0.05))
				Expect(p.Acc.Speed).To(BeNumerically("<=", 0))
				Expect(p.Acc.Speed).To(BeNumerically(">", -0.1))
				Expect(p.Growth).To(BeNumerically(">=", -0.2))
				Expect(p.Growth).To(BeNumerically("<", -0.1))
			}
		})

		It("seeds hue from the clock", func() {
			store.Spawn(particle.Vec2{X: 1, Y: 1}, 3, policy)
			want := float64(fixedNow.UnixMilli()) * policy.HueRate
			for _, p := range store.Particles() {
				Expect(p.Hue).To(Equal(want))
			}
		})

		It("ignores non-positive counts", func() {
			Expect(store.Spawn(particle.Vec2{}, 0, policy)).To(Equal(0))
			Expect(store.Spawn(particle.Vec2{}, -5, policy)).To(Equal(0))
			Expect(store.Len()).To(BeZero())
		})

		It("rejects spawns past capacity and counts them", func() {
			small := newStore(150)
			Expect(small.Spawn(particle.Vec2{X: 5, Y: 5}, 100, policy)).To(Equal(100))
			Expect(small.Spawn(particle.Vec2{X: 5, Y: 5}, 100, policy)).To(Equal(50))
			Expect(small.Len()).To(Equal(150))
			Expect(small.Dropped()).To(Equal(uint64(50)))

			Expect(small.Add(particle.Particle{Scale: 1})).To(BeFalse())
			Expect(small.Dropped()).To(Equal(uint64(51)))
		})
	})

	Describe("StepAll", func() {
		It("moves along the heading by the speed", func() {
			store.Add(particle.Particle{
				Pos:   particle.Vec2{X: 10, Y: 20},
				Vel:   particle.Polar{Angle: 0, Speed: 5},
				Scale: 15,
				Hue:   42,
			})
			store.StepAll()

			p := store.Particles()[0]
			Expect(p.Pos).To(Equal(particle.Vec2{X: 15, Y: 20}))
			Expect(p.Scale).To(Equal(15.0))
			Expect(p.Hue).To(Equal(42.0))
		})

		It("adds acceleration to angle and speed after moving", func() {
			store.Add(particle.Particle{
				Pos: particle.Vec2{X: 50, Y: 50},
				Vel: particle.Polar{Angle: math.Pi / 2, Speed: 2},
				Acc: particle.Polar{Angle: 0.5, Speed: -0.25},
			})
			store.StepAll()

			p := store.Particles()[0]
			Expect(p.Pos.X).To(BeNumerically("~", 50, 1e-12))
			Expect(p.Pos.Y).To(BeNumerically("~", 52, 1e-12))
			Expect(p.Vel.Angle).To(BeNumerically("~", math.Pi/2+0.5, 1e-12))
			Expect(p.Vel.Speed).To(Equal(1.75))
		})

		It("applies growth and chroma exactly once per call", func() {
			store.Spawn(particle.Vec2{X: 300, Y: 300}, 50, policy)
			before := append([]particle.Particle(nil), store.Particles()...)

			store.StepAll()

			for i, p := range store.Particles() {
				Expect(p.Scale).To(Equal(before[i].Scale + before[i].Growth))
				Expect(p.Hue).To(Equal(before[i].Hue + before[i].Chroma))
			}
		})

		It("does not depend on iteration order", func() {
			store.Spawn(particle.Vec2{X: 300, Y: 300}, 20, policy)
			ps := store.Particles()

			reversed := newStore(1000)
			for i := len(ps) - 1; i >= 0; i-- {
				reversed.Add(ps[i])
			}

			store.StepAll()
			reversed.StepAll()

			a, b := store.Particles(), reversed.Particles()
			for i := range a {
				Expect(a[i]).To(Equal(b[len(b)-1-i]))
			}
		})
	})

	Describe("Cull", func() {
		const w, h = 200.0, 100.0

		keep := func(x, y, scale float64) particle.Particle {
			return particle.Particle{Pos: particle.Vec2{X: x, Y: y}, Scale: scale}
		}

		It("removes exactly the particles outside the surface or faded", func() {
			inside := []particle.Particle{
				keep(1, 1, 1),
				keep(199.5, 99.5, 0.01),
				keep(100, 50, 15),
			}
			outside := []particle.Particle{
				keep(0, 50, 1),
				keep(50, 0, 1),
				keep(200, 50, 1),
				keep(50, 100, 1),
				keep(-3, 50, 1),
				keep(50, 150, 1),
				keep(100, 50, 0),
				keep(100, 50, -0.5),
			}

			for i := range outside {
				store.Add(outside[i])
				if i < len(inside) {
					store.Add(inside[i])
				}
			}

			Expect(store.Cull(w, h)).To(Equal(len(outside)))
			Expect(store.Particles()).To(Equal(inside))
		})

		It("culls a particle whose scale reaches exactly zero", func() {
			store.Add(particle.Particle{
				Pos:    particle.Vec2{X: 10, Y: 10},
				Scale:  0.5,
				Growth: -0.5,
			})
			store.StepAll()
			Expect(store.Particles()[0].Scale).To(Equal(0.0))

			Expect(store.Cull(w, h)).To(Equal(1))
			Expect(store.Len()).To(BeZero())
		})

		It("never resurrects a removed particle", func() {
			store.Add(particle.Particle{
				Pos:   particle.Vec2{X: 199, Y: 50},
				Vel:   particle.Polar{Angle: 0, Speed: 5},
				Scale: 10,
			})
			store.StepAll()
			store.Cull(w, h)
			Expect(store.Len()).To(BeZero())

			store.Cull(1000, 1000)
			Expect(store.Len()).To(BeZero())
		})
	})

	Describe("Stage", func() {
		It("mirrors the live particles slot by slot", func() {
			store.Spawn(particle.Vec2{X: 100, Y: 100}, 10, policy)
			store.Spawn(particle.Vec2{X: 40, Y: 60}, 10, policy)

			positions, scales, colors, n := store.Stage()
			Expect(n).To(Equal(20))
			Expect(positions).To(HaveLen(1000 * particle.PositionStride))
			Expect(scales).To(HaveLen(1000 * particle.ScaleStride))
			Expect(colors).To(HaveLen(1000 * particle.ColorStride))

			for i, p := range store.Particles() {
				Expect(positions[i*2]).To(Equal(float32(p.Pos.X)))
				Expect(positions[i*2+1]).To(Equal(float32(p.Pos.Y)))
				Expect(scales[i]).To(Equal(float32(p.Scale)))

				r, g, b := color.HSLToRGB32(p.Hue, 100, 50)
				Expect(colors[i*3 : i*3+3]).To(Equal([]float32{r, g, b}))
			}
		})

		It("stays aligned with the live set after culling", func() {
			for i := 0; i < 10; i++ {
				store.Add(particle.Particle{
					Pos:   particle.Vec2{X: float64(10 + i*20), Y: 50},
					Scale: float64(i + 1),
					Hue:   float64(i * 36),
				})
			}
			store.Stage()

			store.Cull(100, 100)
			positions, scales, _, n := store.Stage()

			Expect(n).To(Equal(store.Len()))
			Expect(n).To(Equal(5))
			for i, p := range store.Particles() {
				Expect(positions[i*2]).To(Equal(float32(p.Pos.X)))
				Expect(scales[i]).To(Equal(float32(p.Scale)))
			}
		})

		It("returns zero slots for an empty store", func() {
			_, _, _, n := store.Stage()
			Expect(n).To(BeZero())
		})
	})

	Describe("Reset", func() {
		It("clears particles and counters", func() {
			small := newStore(10)
			small.Spawn(particle.Vec2{X: 1, Y: 1}, 20, policy)
			small.Reset()
			Expect(small.Len()).To(BeZero())
			Expect(small.Dropped()).To(BeZero())
			Expect(small.Cap()).To(Equal(10))
		})
	})
})
