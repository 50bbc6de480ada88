// Package dynamo provides the core primitives for point-mass simulation.
//
// The package defines the value types and state shared by every other
// package in the module:
//
//   - [Vector3]: 3-D vector with the arithmetic used by the integrator
//   - [Particle]: point mass with a semi-implicit Euler integrator
//   - [ParticleSet]: arena that owns particles behind [ParticleID] handles
//
// # Example
//
//	p := dynamo.NewParticle()
//	p.SetVelocityXYZ(0, 0, 10)
//	p.AddForce(dynamo.Vector3{Y: -9.81})
//	if err := p.Integrate(0.016); err != nil {
//	    return err
//	}
//
// # Thread Safety
//
// Particles and particle sets are NOT thread-safe. A particle may be
// integrated concurrently with other particles as long as no force
// generator is reading or writing it at the same time.
package dynamo
