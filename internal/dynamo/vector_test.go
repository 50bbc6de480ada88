package dynamo

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func toMgl(v Vector3) mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }

func closeTo(a, b Vector3, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func TestVector3_Magnitude(t *testing.T) {
	tests := []struct {
		v    Vector3
		mag  float64
		mag2 float64
	}{
		{Vector3{}, 0, 0},
		{Vector3{3, 4, 0}, 5, 25},
		{Vector3{1, 2, 2}, 3, 9},
		{Vector3{-1, -2, -2}, 3, 9},
	}

	for _, tt := range tests {
		if got := tt.v.Magnitude(); math.Abs(got-tt.mag) > 1e-12 {
			t.Errorf("Magnitude(%v) = %v, want %v", tt.v, got, tt.mag)
		}
		if got := tt.v.SquareMagnitude(); math.Abs(got-tt.mag2) > 1e-12 {
			t.Errorf("SquareMagnitude(%v) = %v, want %v", tt.v, got, tt.mag2)
		}
	}
}

func TestVector3_NormalizeZero(t *testing.T) {
	var v Vector3
	v.Normalize()
	if !v.IsZero() {
		t.Errorf("Normalize of zero vector = %v, want zero", v)
	}
	if !v.IsValid() {
		t.Error("Normalize of zero vector produced NaN")
	}
	if n := (Vector3{}).Normalized(); !n.IsZero() {
		t.Errorf("Normalized of zero vector = %v, want zero", n)
	}
}

func TestVector3_Normalize(t *testing.T) {
	tests := []Vector3{
		{3, 4, 0},
		{0, 0, -7},
		{1e-3, 2e-3, -5e-4},
		{123, -456, 789},
	}

	for _, v := range tests {
		got := v.Normalized()
		want := toMgl(v).Normalize()
		if !closeTo(got, Vector3{want[0], want[1], want[2]}, 1e-12) {
			t.Errorf("Normalized(%v) = %v, want %v", v, got, want)
		}
		if math.Abs(got.Magnitude()-1) > 1e-12 {
			t.Errorf("Normalized(%v) has magnitude %v", v, got.Magnitude())
		}
	}
}

func TestVector3_Products(t *testing.T) {
	pairs := []struct{ a, b Vector3 }{
		{Vector3{1, 0, 0}, Vector3{0, 1, 0}},
		{Vector3{1, 2, 3}, Vector3{4, 5, 6}},
		{Vector3{-2, 0.5, 7}, Vector3{3, -1, 0.25}},
	}

	for _, p := range pairs {
		cross := p.a.VectorProduct(p.b)
		want := toMgl(p.a).Cross(toMgl(p.b))
		if !closeTo(cross, Vector3{want[0], want[1], want[2]}, 1e-12) {
			t.Errorf("VectorProduct(%v, %v) = %v, want %v", p.a, p.b, cross, want)
		}

		dot := p.a.ScalarProduct(p.b)
		if math.Abs(dot-toMgl(p.a).Dot(toMgl(p.b))) > 1e-12 {
			t.Errorf("ScalarProduct(%v, %v) = %v", p.a, p.b, dot)
		}

		// cross product is perpendicular to both inputs
		if math.Abs(cross.ScalarProduct(p.a)) > 1e-9 || math.Abs(cross.ScalarProduct(p.b)) > 1e-9 {
			t.Errorf("cross %v not perpendicular to inputs", cross)
		}

		inPlace := p.a
		inPlace.VectorProductUpdate(p.b)
		if inPlace != cross {
			t.Errorf("VectorProductUpdate = %v, want %v", inPlace, cross)
		}
	}

	x, y := Vector3{X: 1}, Vector3{Y: 1}
	if z := x.VectorProduct(y); z != (Vector3{Z: 1}) {
		t.Errorf("x cross y = %v, want +z (right-handed)", z)
	}
}

func TestVector3_AddScaledVectorRoundTrip(t *testing.T) {
	tests := []struct {
		v, u Vector3
		s    float64
	}{
		{Vector3{1, 2, 3}, Vector3{4, 5, 6}, 0.5},
		{Vector3{-1e3, 2e-3, 0}, Vector3{7, -8, 9}, 1e-2},
		{Vector3{0.1, 0.2, 0.3}, Vector3{0.3, 0.2, 0.1}, -3},
	}

	for _, tt := range tests {
		got := tt.v
		got.AddScaledVector(tt.u, tt.s)
		got.SubInPlace(tt.u.Scale(tt.s))
		if !closeTo(got, tt.v, 1e-9) {
			t.Errorf("round trip of %v = %v", tt.v, got)
		}
	}
}

func TestVector3_Arithmetic(t *testing.T) {
	a := Vector3{1, 2, 3}
	b := Vector3{4, 5, 6}

	if got := a.Add(b); got != (Vector3{5, 7, 9}) {
		t.Errorf("Add failed: got %v", got)
	}
	if got := b.Sub(a); got != (Vector3{3, 3, 3}) {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := a.Scale(2); got != (Vector3{2, 4, 6}) {
		t.Errorf("Scale failed: got %v", got)
	}
	if got := a.ComponentProduct(b); got != (Vector3{4, 10, 18}) {
		t.Errorf("ComponentProduct failed: got %v", got)
	}
	if got := a.Neg(); got != (Vector3{-1, -2, -3}) {
		t.Errorf("Neg failed: got %v", got)
	}

	c := a
	c.AddInPlace(b)
	c.ScaleInPlace(0.5)
	if c != (Vector3{2.5, 3.5, 4.5}) {
		t.Errorf("in-place ops failed: got %v", c)
	}
	c.ComponentProductUpdate(Vector3{2, 2, 2})
	c.Invert()
	if c != (Vector3{-5, -7, -9}) {
		t.Errorf("ComponentProductUpdate/Invert failed: got %v", c)
	}
	c.Clear()
	if !c.IsZero() {
		t.Errorf("Clear failed: got %v", c)
	}
	if a != (Vector3{1, 2, 3}) {
		t.Errorf("copy-returning ops mutated receiver: %v", a)
	}
}

func TestVector3_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		v     Vector3
		valid bool
	}{
		{"zero", Vector3{}, true},
		{"normal", Vector3{1, -2, 3}, true},
		{"with NaN", Vector3{1, math.NaN(), 0}, false},
		{"with +Inf", Vector3{math.Inf(1), 0, 0}, false},
		{"with -Inf", Vector3{0, 0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}
