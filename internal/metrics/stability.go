package metrics

import (
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/sim"
)

// Stability is the fraction of steps in which every particle was finite and
// within threshold of the origin.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(w *sim.World, t float64) {
	s.samples++
	limit := s.threshold * s.threshold
	violated := false
	w.Particles().Each(func(_ dynamo.ParticleID, p *dynamo.Particle) {
		if violated {
			return
		}
		if !p.IsValid() || p.Position().SquareMagnitude() > limit {
			violated = true
		}
	})
	if violated {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
