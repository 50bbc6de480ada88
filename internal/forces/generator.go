package forces

import "github.com/san-kum/partsim/internal/dynamo"

// Generator adds a force to a particle. Implementations must not modify the
// particle beyond calling AddForce.
type Generator interface {
	UpdateForce(p *dynamo.Particle, duration float64)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(p *dynamo.Particle, duration float64)

func (f GeneratorFunc) UpdateForce(p *dynamo.Particle, duration float64) {
	f(p, duration)
}

// Gravity applies a constant acceleration scaled by the particle's mass.
type Gravity struct {
	G dynamo.Vector3
}

func NewGravity(g dynamo.Vector3) *Gravity {
	return &Gravity{G: g}
}

func (g *Gravity) UpdateForce(p *dynamo.Particle, _ float64) {
	if !p.HasFiniteMass() {
		return
	}
	p.AddForce(g.G.Scale(p.Mass()))
}

// Drag opposes motion with k1*|v| + k2*|v|^2.
type Drag struct {
	K1 float64
	K2 float64
}

func NewDrag(k1, k2 float64) *Drag {
	return &Drag{K1: k1, K2: k2}
}

func (d *Drag) UpdateForce(p *dynamo.Particle, _ float64) {
	force := p.Velocity()
	speed := force.Magnitude()
	coeff := d.K1*speed + d.K2*speed*speed

	force.Normalize()
	force.ScaleInPlace(-coeff)
	p.AddForce(force)
}
