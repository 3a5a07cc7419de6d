package world

import (
	"math"
	"testing"
)

// TestNoiseDeterministic verifies identical samples for identical inputs.
func TestNoiseDeterministic(t *testing.T) {
	n1 := NewNoise2D(42)
	n2 := NewNoise2D(42)
	for i := 0; i < 200; i++ {
		x := float64(i)*0.37 - 20
		z := float64(i)*0.91 + 5
		if a, b := n1.Sample(x, z), n2.Sample(x, z); a != b {
			t.Fatalf("Sample(%f,%f) not deterministic: %f vs %f", x, z, a, b)
		}
	}
}

func TestNoiseSeedsDiffer(t *testing.T) {
	a := NewNoise2D(1)
	b := NewNoise2D(2)
	same := 0
	for i := 0; i < 100; i++ {
		x := float64(i) * 0.7
		if a.Sample(x, x) == b.Sample(x, x) {
			same++
		}
	}
	if same > 2 {
		t.Errorf("seeds 1 and 2 agree on %d/100 samples", same)
	}
}

func TestNoiseRange(t *testing.T) {
	n := NewNoise2D(7)
	for i := 0; i < 500; i++ {
		x := float64(i)*1.3 - 300
		z := float64(i)*0.41 + 100
		v := n.Sample(x, z)
		if v < 0 || v > 1 {
			t.Fatalf("Sample(%f,%f)=%f out of [0,1]", x, z, v)
		}
		s := n.Signed(x, z)
		if s < -1 || s > 1 {
			t.Fatalf("Signed(%f,%f)=%f out of [-1,1]", x, z, s)
		}
	}
}

// TestNoiseContinuity verifies adjacent samples change smoothly (value noise
// with a fade curve has no jumps inside a lattice cell).
func TestNoiseContinuity(t *testing.T) {
	n := NewNoise2D(99)
	const step = 0.01
	prev := n.Sample(0, 0)
	for x := step; x < 10; x += step {
		v := n.Sample(x, 0)
		if math.Abs(v-prev) > 0.1 {
			t.Fatalf("jump of %f at x=%f", math.Abs(v-prev), x)
		}
		prev = v
	}
}

func TestOctaveRange(t *testing.T) {
	n := NewNoise2D(5)
	for i := 0; i < 300; i++ {
		x := float64(i)*0.23 - 30
		v := n.Octave(x, -x, 4, 0.5, 2.0)
		if v < 0 || v > 1 {
			t.Fatalf("Octave=%f out of [0,1]", v)
		}
		s := n.OctaveSigned(x, -x, 4, 0.5, 2.0)
		if s < -1 || s > 1 {
			t.Fatalf("OctaveSigned=%f out of [-1,1]", s)
		}
	}
}
