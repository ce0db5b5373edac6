// Package scatter places props on world surfaces: it samples a disc around an
// anchor hit, projects the samples onto the surface and validates each pose
// against the prefab's clearance.
package scatter

import (
	gomath "math"
	"math/rand/v2"

	"github.com/Faultbox/propscatter/pkg/math"
)

// MaxSampleCount bounds the batch size, and so the ray casts per pass.
const MaxSampleCount = 4096

// Sample is one candidate placement in disc space.
type Sample struct {
	Point       math.Vec2 // Inside the unit disc
	SpinDegrees float32   // [0, 360)
	PrefabID    string    // Empty when the prefab pool is empty
}

// Sampler generates sample batches from an injected random source.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a sampler with a PCG source seeded from seed.
func NewSampler(seed uint64) *Sampler {
	return NewSamplerFrom(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// NewSamplerFrom creates a sampler that draws from rng.
func NewSamplerFrom(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// Generate returns count samples. Points are uniform over the disc area,
// spins uniform over [0, 360) and prefabs uniform over pool.
func (s *Sampler) Generate(count int, pool []string) []Sample {
	if count <= 0 {
		return nil
	}

	samples := make([]Sample, count)
	for i := range samples {
		// sqrt keeps the density uniform per unit area.
		r := gomath.Sqrt(s.rng.Float64())
		sin, cos := gomath.Sincos(2 * gomath.Pi * s.rng.Float64())

		spin := float32(s.rng.Float64() * 360)
		if spin >= 360 {
			spin = 0
		}

		samples[i] = Sample{
			Point:       math.Vec2{X: float32(r * cos), Y: float32(r * sin)},
			SpinDegrees: spin,
		}
		if len(pool) > 0 {
			samples[i].PrefabID = pool[s.rng.IntN(len(pool))]
		}
	}
	return samples
}
