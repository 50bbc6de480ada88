package forces

import (
	"math"

	"github.com/san-kum/partsim/internal/dynamo"
)

// FakeSpring drives a particle toward an anchor along the exact solution of
// the damped harmonic oscillator, then back-solves the force that makes the
// integrator reproduce that motion. Stiff springs stay stable at step sizes
// where an explicit Hooke's law spring blows up.
//
// Only the underdamped case is modelled: when Damping^2 >= 4*K the generator
// adds nothing.
type FakeSpring struct {
	Anchor  *dynamo.Vector3
	K       float64
	Damping float64
}

func NewFakeSpring(anchor *dynamo.Vector3, k, damping float64) *FakeSpring {
	return &FakeSpring{Anchor: anchor, K: k, Damping: damping}
}

func (s *FakeSpring) UpdateForce(p *dynamo.Particle, duration float64) {
	if !p.HasFiniteMass() || !(duration > 0) {
		return
	}

	disc := 4*s.K - s.Damping*s.Damping
	if disc <= 0 {
		return
	}
	gamma := 0.5 * math.Sqrt(disc)

	position := p.Position().Sub(*s.Anchor)
	velocity := p.Velocity()

	// The integrator moves the particle to lead before the force acts, so
	// the force can only pick the velocity used on the following step. The
	// sampled solution obeys x[n+2] = 2e^(-ct/2)cos(gt)x[n+1] - e^(-ct)x[n].
	lead := position
	lead.AddScaledVector(velocity, duration)

	decay := math.Exp(-0.5 * s.Damping * duration)
	target := lead.Scale(2 * decay * math.Cos(gamma*duration))
	target.AddScaledVector(position, -decay*decay)

	accel := target.Sub(lead).Scale(1 / (duration * duration))
	accel.AddScaledVector(velocity, -1/duration)
	p.AddForce(accel.Scale(p.Mass()))
}
