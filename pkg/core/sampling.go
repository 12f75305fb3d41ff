package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator.
// It is not safe for concurrent use; each render worker owns its own.
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with a deterministic sequence
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Reseed restarts the sequence so a render can be replayed
func (r *RandomSampler) Reseed(seed int64) {
	r.random.Seed(seed)
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// RandomRange returns a random float64 in [min, max)
func RandomRange(sampler Sampler, min, max float64) float64 {
	return min + (max-min)*sampler.Get1D()
}

// SampleInUnitDisk returns a point in the unit disk (z = 0) using polar
// sampling: r = sqrt(u), theta uniform in [0, 2π)
func SampleInUnitDisk(sampler Sampler) Vec3 {
	r := math.Sqrt(sampler.Get1D())
	theta := RandomRange(sampler, 0, 2*math.Pi)
	return NewVec3(r*math.Cos(theta), r*math.Sin(theta), 0)
}

// SampleInUnitSquare returns an offset in [-0.5, 0.5)² (z = 0)
func SampleInUnitSquare(sampler Sampler) Vec3 {
	return NewVec3(sampler.Get1D()-0.5, sampler.Get1D()-0.5, 0)
}

// RandomUnitVector returns a uniformly distributed unit vector.
// Candidates are drawn from [-1,1]³ and rejected unless their squared
// length lies in (1e-160, 1]; the lower bound keeps normalization from
// overflowing to infinity.
func RandomUnitVector(sampler Sampler) Vec3 {
	for {
		u := sampler.Get3D()
		p := NewVec3(2*u[0]-1, 2*u[1]-1, 2*u[2]-1)
		lensq := LengthSquared(p)
		if 1e-160 < lensq && lensq <= 1 {
			return p.Mul(1 / math.Sqrt(lensq))
		}
	}
}

// RandomOnHemisphere returns a uniform unit direction in the hemisphere
// around normal
func RandomOnHemisphere(normal Vec3, sampler Sampler) Vec3 {
	onUnitSphere := RandomUnitVector(sampler)
	if onUnitSphere.Dot(normal) > 0.0 {
		return onUnitSphere
	}
	return onUnitSphere.Mul(-1)
}
