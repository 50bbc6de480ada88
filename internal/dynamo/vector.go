package dynamo

import (
	"fmt"
	"math"
)

// Vector3 is a three dimensional vector. Value-receiver methods return a new
// vector; pointer-receiver methods update the vector in place.
type Vector3 struct {
	X, Y, Z float64
}

var (
	// Gravity is standard earth gravity with Y pointing up.
	Gravity = Vector3{Y: -9.81}

	Up = Vector3{Y: 1}
)

func NewVector3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Invert flips the sign of every component.
func (v *Vector3) Invert() {
	v.X = -v.X
	v.Y = -v.Y
	v.Z = -v.Z
}

func (v Vector3) Neg() Vector3 {
	return Vector3{-v.X, -v.Y, -v.Z}
}

func (v Vector3) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// SquareMagnitude avoids the square root; use it for comparisons.
func (v Vector3) SquareMagnitude() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalize scales v to unit length. A zero vector is left unchanged.
func (v *Vector3) Normalize() {
	l := v.Magnitude()
	if l > 0 {
		v.ScaleInPlace(1 / l)
	}
}

// Normalized returns the unit vector in the direction of v, or the zero
// vector when v has no length.
func (v Vector3) Normalized() Vector3 {
	v.Normalize()
	return v
}

func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

func (v *Vector3) ScaleInPlace(s float64) {
	v.X *= s
	v.Y *= s
	v.Z *= s
}

func (v Vector3) Add(u Vector3) Vector3 {
	return Vector3{v.X + u.X, v.Y + u.Y, v.Z + u.Z}
}

func (v *Vector3) AddInPlace(u Vector3) {
	v.X += u.X
	v.Y += u.Y
	v.Z += u.Z
}

func (v Vector3) Sub(u Vector3) Vector3 {
	return Vector3{v.X - u.X, v.Y - u.Y, v.Z - u.Z}
}

func (v *Vector3) SubInPlace(u Vector3) {
	v.X -= u.X
	v.Y -= u.Y
	v.Z -= u.Z
}

// AddScaledVector adds u*s to v. This is the update used by the integrator.
func (v *Vector3) AddScaledVector(u Vector3, s float64) {
	v.X += u.X * s
	v.Y += u.Y * s
	v.Z += u.Z * s
}

func (v Vector3) ComponentProduct(u Vector3) Vector3 {
	return Vector3{v.X * u.X, v.Y * u.Y, v.Z * u.Z}
}

func (v *Vector3) ComponentProductUpdate(u Vector3) {
	v.X *= u.X
	v.Y *= u.Y
	v.Z *= u.Z
}

// ScalarProduct is the dot product.
func (v Vector3) ScalarProduct(u Vector3) float64 {
	return v.X*u.X + v.Y*u.Y + v.Z*u.Z
}

// VectorProduct is the right-handed cross product v × u.
func (v Vector3) VectorProduct(u Vector3) Vector3 {
	return Vector3{
		X: v.Y*u.Z - v.Z*u.Y,
		Y: v.Z*u.X - v.X*u.Z,
		Z: v.X*u.Y - v.Y*u.X,
	}
}

func (v *Vector3) VectorProductUpdate(u Vector3) {
	*v = v.VectorProduct(u)
}

func (v *Vector3) Clear() {
	v.X, v.Y, v.Z = 0, 0, 0
}

func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// IsValid reports whether no component is NaN or infinite.
func (v Vector3) IsValid() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%.4g, %.4g, %.4g)", v.X, v.Y, v.Z)
}
