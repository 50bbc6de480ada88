// Package random is the explicitly seeded source scenarios draw from. The
// same seed always replays the same run.
package random

import (
	"math/rand"

	"github.com/san-kum/partsim/internal/dynamo"
)

type Source struct {
	rng  *rand.Rand
	seed int64
}

func New(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed)), seed: seed}
}

func (s *Source) Seed() int64 { return s.seed }

// Real returns a uniform value in [min, max).
func (s *Source) Real(min, max float64) float64 {
	return min + s.rng.Float64()*(max-min)
}

// Int returns a uniform value in [0, n). n <= 0 gives 0.
func (s *Source) Int(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.Intn(n)
}

// Binomial returns a value in (-scale, scale) biased toward zero.
func (s *Source) Binomial(scale float64) float64 {
	return (s.rng.Float64() - s.rng.Float64()) * scale
}

// Vector returns a vector with each component uniform in [min, max).
func (s *Source) Vector(min, max dynamo.Vector3) dynamo.Vector3 {
	return dynamo.Vector3{
		X: s.Real(min.X, max.X),
		Y: s.Real(min.Y, max.Y),
		Z: s.Real(min.Z, max.Z),
	}
}
