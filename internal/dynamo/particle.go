package dynamo

import "math"

// Particle is a point mass with no rotational state.
//
// The zero value is a valid particle at the origin with infinite mass, so it
// does not move until SetMass or SetInverseMass is called. Damping of zero
// removes all velocity every step; use NewParticle for a damping of 1.
type Particle struct {
	position     Vector3
	velocity     Vector3
	acceleration Vector3

	// damping is the fraction of velocity kept per second of simulated time.
	damping float64

	// inverseMass of zero represents an immovable particle.
	inverseMass float64

	forceAccum Vector3
}

// NewParticle returns a particle at rest at the origin with unit mass and no
// damping.
func NewParticle() *Particle {
	return &Particle{damping: 1, inverseMass: 1}
}

// Integrate advances the particle by duration seconds using semi-implicit
// Euler: position moves with the velocity from the start of the step, then
// velocity picks up the constant acceleration plus the accumulated force.
// The force accumulator is cleared on every call that accepts the duration.
func (p *Particle) Integrate(duration float64) error {
	if !(duration > 0) {
		return ErrInvalidDuration
	}
	if p.inverseMass <= 0 {
		p.forceAccum.Clear()
		return nil
	}

	p.position.AddScaledVector(p.velocity, duration)

	resulting := p.acceleration
	resulting.AddScaledVector(p.forceAccum, p.inverseMass)
	p.velocity.AddScaledVector(resulting, duration)

	p.velocity.ScaleInPlace(math.Pow(p.damping, duration))

	p.ClearAccumulator()
	return nil
}

func (p *Particle) Position() Vector3 { return p.position }

func (p *Particle) SetPosition(v Vector3) { p.position = v }

func (p *Particle) SetPositionXYZ(x, y, z float64) {
	p.position = Vector3{X: x, Y: y, Z: z}
}

func (p *Particle) Velocity() Vector3 { return p.velocity }

func (p *Particle) SetVelocity(v Vector3) { p.velocity = v }

func (p *Particle) SetVelocityXYZ(x, y, z float64) {
	p.velocity = Vector3{X: x, Y: y, Z: z}
}

func (p *Particle) Acceleration() Vector3 { return p.acceleration }

func (p *Particle) SetAcceleration(v Vector3) { p.acceleration = v }

func (p *Particle) SetAccelerationXYZ(x, y, z float64) {
	p.acceleration = Vector3{X: x, Y: y, Z: z}
}

func (p *Particle) Damping() float64 { return p.damping }

func (p *Particle) SetDamping(d float64) { p.damping = d }

// Mass returns 1/inverseMass, or math.MaxFloat64 for an immovable particle.
func (p *Particle) Mass() float64 {
	if p.inverseMass == 0 {
		return math.MaxFloat64
	}
	return 1 / p.inverseMass
}

// SetMass rejects zero (and any non-finite or negative value) instead of
// storing an infinite inverse mass.
func (p *Particle) SetMass(mass float64) error {
	if mass == 0 {
		return ErrZeroMass
	}
	if mass < 0 || math.IsNaN(mass) || math.IsInf(mass, 0) {
		return ErrInvalidMass
	}
	p.inverseMass = 1 / mass
	return nil
}

func (p *Particle) InverseMass() float64 { return p.inverseMass }

func (p *Particle) SetInverseMass(inv float64) { p.inverseMass = inv }

func (p *Particle) HasFiniteMass() bool { return p.inverseMass > 0 }

func (p *Particle) AddForce(f Vector3) { p.forceAccum.AddInPlace(f) }

func (p *Particle) ClearAccumulator() { p.forceAccum.Clear() }

// ForceAccum returns the forces accumulated since the last integration.
func (p *Particle) ForceAccum() Vector3 { return p.forceAccum }

// KineticEnergy is zero for immovable particles.
func (p *Particle) KineticEnergy() float64 {
	if !p.HasFiniteMass() {
		return 0
	}
	return 0.5 * p.velocity.SquareMagnitude() / p.inverseMass
}

// IsValid reports whether position and velocity are finite.
func (p *Particle) IsValid() bool {
	return p.position.IsValid() && p.velocity.IsValid()
}
