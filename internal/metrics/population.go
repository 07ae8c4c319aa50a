package metrics

import (
	"time"

	"github.com/san-kum/sparks/internal/loop"
)

// Population accumulates per-tick particle counts and keeps a ring of the
// most recent live counts for charts.
type Population struct {
	ring  []float64
	head  int
	count int

	Ticks   uint64
	Spawned uint64
	Culled  uint64
	Dropped uint64
	Peak    int
	Last    loop.TickStats

	totalElapsed time.Duration
	MaxElapsed   time.Duration
}

func NewPopulation(historyLen int) *Population {
	return &Population{ring: make([]float64, max(historyLen, 1))}
}

func (p *Population) OnTick(s loop.TickStats) {
	p.ring[p.head] = float64(s.Live)
	p.head = (p.head + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}

	p.Ticks++
	p.Spawned += uint64(s.Spawned)
	p.Culled += uint64(s.Culled)
	p.Dropped += uint64(s.Dropped)
	if s.Live > p.Peak {
		p.Peak = s.Live
	}
	p.Last = s

	p.totalElapsed += s.Elapsed
	if s.Elapsed > p.MaxElapsed {
		p.MaxElapsed = s.Elapsed
	}
}

// History returns the recorded live counts, oldest first.
func (p *Population) History() []float64 {
	out := make([]float64, p.count)
	start := (p.head - p.count + len(p.ring)) % len(p.ring)
	for i := 0; i < p.count; i++ {
		out[i] = p.ring[(start+i)%len(p.ring)]
	}
	return out
}

func (p *Population) MeanElapsed() time.Duration {
	if p.Ticks == 0 {
		return 0
	}
	return p.totalElapsed / time.Duration(p.Ticks)
}

func (p *Population) Reset() {
	*p = Population{ring: make([]float64, len(p.ring))}
}
