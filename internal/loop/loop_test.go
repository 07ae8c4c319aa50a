package loop_test

import (
	"context"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sparks/internal/input"
	"github.com/san-kum/sparks/internal/loop"
	"github.com/san-kum/sparks/internal/particle"
	"github.com/san-kum/sparks/internal/render"
)

type recorder struct {
	ticks []loop.TickStats
}

func (r *recorder) OnTick(s loop.TickStats) { r.ticks = append(r.ticks, s) }

var _ = Describe("Loop", func() {
	var (
		ctx      context.Context
		store    *particle.Store
		device   *render.CanvasDevice
		renderer *render.Renderer
		display  *loop.Headless
		policy   particle.SpawnPolicy
		rec      *recorder
		l        *loop.Loop
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = particle.New(10_000, rand.New(rand.NewSource(1)))
		device = render.NewCanvasDevice(40, 20)
		renderer = render.New(device)
		Expect(renderer.Setup()).To(Succeed())
		display = loop.NewHeadless(800, 600, nil)
		policy = particle.DefaultPolicy()
		rec = &recorder{}
		l = loop.New(store, renderer, display, policy)
		l.AddObserver(rec)
	})

	It("starts idle and schedules the first frame", func() {
		Expect(l.State()).To(Equal(loop.Idle))
		l.Start()
		Expect(display.Pending()).To(BeTrue())
		Expect(l.State()).To(Equal(loop.Idle))
	})

	It("stays idle until the surface has a known size", func() {
		display.Width, display.Height = 0, 0
		l.Start()

		Expect(display.Pump(ctx, 3)).To(Equal(3))
		Expect(l.State()).To(Equal(loop.Idle))
		Expect(l.Ticks()).To(BeZero())
		Expect(display.Pending()).To(BeTrue())

		display.Width, display.Height = 320, 240
		Expect(display.Pump(ctx, 1)).To(Equal(1))
		Expect(l.State()).To(Equal(loop.Running))
		Expect(l.Ticks()).To(Equal(uint64(1)))
	})

	It("reschedules itself every running tick", func() {
		l.Start()
		n, err := display.Pump(ctx, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(10))
		Expect(l.Ticks()).To(Equal(uint64(10)))
		Expect(display.Pending()).To(BeTrue())
		Expect(rec.ticks).To(HaveLen(10))
	})

	It("spawns only while the pointer is down", func() {
		display.Script = func(frame uint64) input.Snapshot {
			return input.Snapshot{Down: frame < 3, X: 400, Y: 300}
		}
		l.Start()
		display.Pump(ctx, 5)

		for i, s := range rec.ticks {
			if i < 3 {
				Expect(s.Spawned).To(Equal(policy.Rate))
			} else {
				Expect(s.Spawned).To(BeZero())
			}
		}
	})

	It("spawns, steps, culls and renders in one tick", func() {
		stats := l.Tick(input.Snapshot{Down: true, X: 400, Y: 300}, 800, 600)

		Expect(stats.Spawned).To(Equal(policy.Rate))
		Expect(stats.Culled).To(BeZero())
		Expect(stats.Live).To(Equal(policy.Rate))
		Expect(stats.Drawn).To(Equal(policy.Rate))
		Expect(device.Draws).To(Equal(1))
		Expect(device.Filled()).To(BeNumerically(">", 0))

		for _, p := range store.Particles() {
			Expect(p.Pos).NotTo(Equal(particle.Vec2{X: 400, Y: 300}))
			Expect(p.Scale).To(BeNumerically("<", policy.Scale))
		}
	})

	It("culls against the size given to the tick", func() {
		l.Tick(input.Snapshot{Down: true, X: 10, Y: 10}, 800, 600)
		Expect(store.Len()).To(Equal(policy.Rate))

		stats := l.Tick(input.Snapshot{}, 12, 12)
		Expect(stats.Culled).To(BeNumerically(">", 0))
		Expect(stats.Live + stats.Culled).To(Equal(policy.Rate))
		for _, p := range store.Particles() {
			Expect(p.Alive(12, 12)).To(BeTrue())
		}
	})

	It("reports spawns rejected at capacity", func() {
		small := particle.New(150, rand.New(rand.NewSource(2)))
		l = loop.New(small, renderer, display, policy)

		first := l.Tick(input.Snapshot{Down: true, X: 400, Y: 300}, 800, 600)
		second := l.Tick(input.Snapshot{Down: true, X: 400, Y: 300}, 800, 600)

		Expect(first.Dropped).To(BeZero())
		Expect(second.Spawned).To(Equal(50))
		Expect(second.Dropped).To(Equal(50))
		Expect(small.Len()).To(BeNumerically("<=", 150))
	})

	It("lets particles fade out once the pointer is released", func() {
		display.Script = func(frame uint64) input.Snapshot {
			return input.Snapshot{Down: frame == 0, X: 400, Y: 300}
		}
		l.Start()

		// Scale 15 shrinking by at least 0.1 per tick is gone within 150 ticks.
		display.Pump(ctx, 200)
		Expect(store.Len()).To(BeZero())
		Expect(rec.ticks[len(rec.ticks)-1].Drawn).To(BeZero())
	})

	It("stops pumping when the context is done", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		l.Start()

		n, err := display.Pump(cctx, 5)
		Expect(err).To(MatchError(context.Canceled))
		Expect(n).To(BeZero())
	})
})

var _ = Describe("Orbit", func() {
	It("circles the center with the pointer held down", func() {
		script := loop.Orbit(100, 100, 50, 4)

		Expect(script(0).Down).To(BeTrue())
		Expect(script(0).X).To(BeNumerically("~", 150, 1e-9))
		Expect(script(0).Y).To(BeNumerically("~", 100, 1e-9))
		Expect(script(1).X).To(BeNumerically("~", 100, 1e-9))
		Expect(script(1).Y).To(BeNumerically("~", 150, 1e-9))
		Expect(script(4)).To(Equal(script(0)))
	})
})
