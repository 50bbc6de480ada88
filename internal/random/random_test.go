package random

import (
	"testing"

	"github.com/san-kum/partsim/internal/dynamo"
)

func TestSource_Deterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 100; i++ {
		if x, y := a.Real(-1, 1), b.Real(-1, 1); x != y {
			t.Fatalf("draw %d differs: %v vs %v", i, x, y)
		}
	}
	if New(1).Real(0, 1) == New(2).Real(0, 1) {
		t.Error("different seeds gave the same first draw")
	}
}

func TestSource_Ranges(t *testing.T) {
	s := New(7)
	lo := dynamo.Vector3{X: -5, Y: 25, Z: -5}
	hi := dynamo.Vector3{X: 5, Y: 28, Z: 5}

	for i := 0; i < 1000; i++ {
		if r := s.Real(0.5, 1.4); r < 0.5 || r >= 1.4 {
			t.Fatalf("Real out of range: %v", r)
		}
		if n := s.Int(3); n < 0 || n >= 3 {
			t.Fatalf("Int out of range: %v", n)
		}
		if b := s.Binomial(2); b <= -2 || b >= 2 {
			t.Fatalf("Binomial out of range: %v", b)
		}
		v := s.Vector(lo, hi)
		if v.X < lo.X || v.X >= hi.X || v.Y < lo.Y || v.Y >= hi.Y || v.Z < lo.Z || v.Z >= hi.Z {
			t.Fatalf("Vector out of range: %v", v)
		}
	}

	if s.Int(0) != 0 || s.Int(-3) != 0 {
		t.Error("Int of non-positive bound should be 0")
	}
	if s.Seed() != 7 {
		t.Errorf("Seed() = %d", s.Seed())
	}
}
