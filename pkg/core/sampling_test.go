package core

import (
	"math"
	"testing"
)

func TestRandomSampler_ReseedReplays(t *testing.T) {
	sampler := NewSeededSampler(7)
	first := []float64{sampler.Get1D(), sampler.Get1D(), sampler.Get1D()}

	sampler.Reseed(7)
	for i, expected := range first {
		if got := sampler.Get1D(); got != expected {
			t.Errorf("Value %d after reseed: expected %v, got %v", i, expected, got)
		}
	}
}

func TestRandomRange(t *testing.T) {
	sampler := NewSeededSampler(42)
	for i := 0; i < 1000; i++ {
		v := RandomRange(sampler, -3, 5)
		if v < -3 || v >= 5 {
			t.Fatalf("RandomRange returned %v outside [-3, 5)", v)
		}
	}
}

func TestSampleInUnitDisk(t *testing.T) {
	sampler := NewSeededSampler(42)
	for i := 0; i < 1000; i++ {
		p := SampleInUnitDisk(sampler)
		if p.Z() != 0 {
			t.Fatalf("Disk sample should lie in z=0, got %v", p)
		}
		if p.X()*p.X()+p.Y()*p.Y() > 1+1e-12 {
			t.Fatalf("Disk sample %v outside unit disk", p)
		}
	}
}

func TestSampleInUnitSquare(t *testing.T) {
	sampler := NewSeededSampler(42)
	for i := 0; i < 1000; i++ {
		p := SampleInUnitSquare(sampler)
		if p.X() < -0.5 || p.X() >= 0.5 || p.Y() < -0.5 || p.Y() >= 0.5 || p.Z() != 0 {
			t.Fatalf("Square sample %v outside [-0.5,0.5)²", p)
		}
	}
}

func TestRandomOnHemisphere(t *testing.T) {
	sampler := NewSeededSampler(42)
	normals := []Vec3{
		NewVec3(0, 1, 0),
		NewVec3(0, 0, -1),
		NewVec3(1, 1, 1).Normalize(),
	}

	for _, normal := range normals {
		for i := 0; i < 500; i++ {
			dir := RandomOnHemisphere(normal, sampler)
			if math.Abs(dir.Len()-1) > 1e-9 {
				t.Fatalf("Expected unit direction, got length %v", dir.Len())
			}
			if dir.Dot(normal) < 0 {
				t.Fatalf("Direction %v points away from normal %v", dir, normal)
			}
		}
	}
}

func TestRandomUnitVector_Distribution(t *testing.T) {
	// Uniform directions should average out close to the origin
	sampler := NewSeededSampler(1)
	sum := NewVec3(0, 0, 0)
	n := 20000
	for i := 0; i < n; i++ {
		sum = sum.Add(RandomUnitVector(sampler))
	}
	mean := sum.Mul(1.0 / float64(n))
	if mean.Len() > 0.05 {
		t.Errorf("Mean of unit vectors should be near zero, got %v", mean)
	}
}
