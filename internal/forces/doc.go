// Package forces provides force generators and the registry that applies them.
//
// A [Generator] computes the force acting on one particle at the current
// instant and adds it to the particle's accumulator. Generators know nothing
// about integration; a [Registry] records which generator acts on which
// particle and runs them all once per step:
//
//   - [Gravity], [Drag]: single-particle fields
//   - [Spring], [Bungee]: two-body springs (register once per direction)
//   - [AnchoredSpring], [AnchoredBungee], [FakeSpring]: springs to a fixed point
//   - [Buoyancy]: vertical lift from a flat liquid surface
//
// # Degenerate Input
//
// Generators never fail. Zero-length vectors, zero durations and immovable
// particles produce no force so the simulation keeps running.
package forces
