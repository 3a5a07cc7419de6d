package world

import (
	"math"
)

// Deterministic 2D value noise over a hashed integer lattice. Each Noise2D
// instance is an independent stream identified by its seed; see NoiseStream.

// Noise2D samples smooth pseudo-random values in [0,1].
type Noise2D struct {
	seed int64
}

func NewNoise2D(seed int64) *Noise2D {
	return &Noise2D{seed: seed}
}

// fade is the smoothstep-like curve 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// hash2 is a SplitMix64-style integer hash, stable across runs for the same inputs.
func hash2(x, z int64, seed int64) uint64 {
	v := uint64(x) + (uint64(z) << 1) + uint64(seed)*0x9E3779B97F4A7C15
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

func latticeValue(x, z int64, seed int64) float64 {
	h := hash2(x, z, seed)
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

func valueNoise2D(x, z float64, seed int64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)
	x1 := x0 + 1
	z1 := z0 + 1

	fx := fade(x - x0)
	fz := fade(z - z0)

	v00 := latticeValue(int64(x0), int64(z0), seed)
	v10 := latticeValue(int64(x1), int64(z0), seed)
	v01 := latticeValue(int64(x0), int64(z1), seed)
	v11 := latticeValue(int64(x1), int64(z1), seed)

	i0 := lerp(v00, v10, fx)
	i1 := lerp(v01, v11, fx)
	return lerp(i0, i1, fz)
}

// Sample returns value noise in [0,1] at (x, z).
func (n *Noise2D) Sample(x, z float64) float64 {
	return valueNoise2D(x, z, n.seed)
}

// Signed returns value noise remapped to [-1,1].
func (n *Noise2D) Signed(x, z float64) float64 {
	return n.Sample(x, z)*2 - 1
}

// Octave sums octave layers at increasing frequency and decreasing amplitude,
// normalized back to [0,1].
func (n *Noise2D) Octave(x, z float64, octaves int, persistence, lacunarity float64) float64 {
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for i := 0; i < octaves; i++ {
		v := valueNoise2D(x*frequency, z*frequency, n.seed+int64(i*131))
		sum += v * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// OctaveSigned is Octave remapped to [-1,1].
func (n *Noise2D) OctaveSigned(x, z float64, octaves int, persistence, lacunarity float64) float64 {
	return n.Octave(x, z, octaves, persistence, lacunarity)*2 - 1
}
