package particle

import (
	"math"
	"math/rand"
	"time"
)

const (
	DefaultCapacity = 1_000_000
	DefaultRate     = 100
	DefaultSpeed    = 5.0
	DefaultScale    = 15.0
	DefaultChroma   = 3.0
	DefaultHueRate  = 0.1
)

// SpawnPolicy describes how freshly spawned particles are randomized.
// Ranges are half-open: [Min, Max).
type SpawnPolicy struct {
	Rate        int
	AngleMin    float64
	AngleMax    float64
	Speed       float64
	AccAngleMax float64
	AccSpeedMin float64
	Scale       float64
	GrowthMin   float64
	GrowthMax   float64
	// HueRate scales wall-clock milliseconds into the initial hue, so
	// consecutive bursts drift around the color wheel.
	HueRate float64
	Chroma  float64
}

func DefaultPolicy() SpawnPolicy {
	return SpawnPolicy{
		Rate:        DefaultRate,
		AngleMin:    0,
		AngleMax:    2 * math.Pi,
		Speed:       DefaultSpeed,
		AccAngleMax: 0.05,
		AccSpeedMin: -0.1,
		Scale:       DefaultScale,
		GrowthMin:   -0.2,
		GrowthMax:   -0.1,
		HueRate:     DefaultHueRate,
		Chroma:      DefaultChroma,
	}
}

// New draws one particle at `at`. All particles of one burst share hue,
// since the hue seed comes from the clock.
func (sp SpawnPolicy) New(rng *rand.Rand, at Vec2, now time.Time) Particle {
	return Particle{
		Pos: at,
		Vel: Polar{
			Angle: sp.AngleMin + rng.Float64()*(sp.AngleMax-sp.AngleMin),
			Speed: sp.Speed,
		},
		Acc: Polar{
			Angle: rng.Float64() * sp.AccAngleMax,
			Speed: rng.Float64() * sp.AccSpeedMin,
		},
		Scale:  sp.Scale,
		Growth: sp.GrowthMin + rng.Float64()*(sp.GrowthMax-sp.GrowthMin),
		Hue:    float64(now.UnixMilli()) * sp.HueRate,
		Chroma: sp.Chroma,
	}
}
