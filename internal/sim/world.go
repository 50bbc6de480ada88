package sim

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/forces"
)

// minChunk keeps tiny worlds on one goroutine.
const minChunk = 64

// World owns a particle arena and the force registry over it. A step is
// two phases: every registered generator adds its force, then every particle
// integrates. No particle moves before all forces are in.
type World struct {
	particles *dynamo.ParticleSet
	registry  *forces.Registry
	workers   int
}

func NewWorld() *World {
	ps := dynamo.NewParticleSet()
	return &World{
		particles: ps,
		registry:  forces.NewRegistry(ps),
		workers:   1,
	}
}

// SetWorkers sets the integration parallelism. Values below 1 mean 1.
func (w *World) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	w.workers = n
}

func (w *World) Workers() int { return w.workers }

func (w *World) Particles() *dynamo.ParticleSet { return w.particles }
func (w *World) Registry() *forces.Registry     { return w.registry }

func (w *World) AddParticle(p *dynamo.Particle) dynamo.ParticleID {
	return w.particles.Add(p)
}

func (w *World) Particle(id dynamo.ParticleID) (*dynamo.Particle, bool) {
	return w.particles.Get(id)
}

// RemoveParticle frees the particle slot and drops its registrations.
func (w *World) RemoveParticle(id dynamo.ParticleID) bool {
	if !w.particles.Remove(id) {
		return false
	}
	w.registry.RemoveParticle(id)
	return true
}

func (w *World) AddGenerator(g forces.Generator) forces.GeneratorID {
	return w.registry.AddGenerator(g)
}

func (w *World) Register(p dynamo.ParticleID, g forces.GeneratorID) error {
	return w.registry.Add(p, g)
}

// Apply adds g and registers it on every particle in ids.
func (w *World) Apply(g forces.Generator, ids ...dynamo.ParticleID) (forces.GeneratorID, error) {
	gid := w.registry.AddGenerator(g)
	for _, id := range ids {
		if err := w.registry.Add(id, gid); err != nil {
			return gid, err
		}
	}
	return gid, nil
}

func (w *World) Len() int { return w.particles.Len() }

// Step advances the world by duration.
func (w *World) Step(duration float64) error {
	if !(duration > 0) {
		return fmt.Errorf("world step: %w", dynamo.ErrInvalidDuration)
	}
	w.registry.UpdateForces(duration)
	return w.integrate(duration)
}

func (w *World) integrate(duration float64) error {
	n := w.particles.Cap()
	if w.workers <= 1 || n < 2*minChunk {
		return w.integrateRange(0, n, duration)
	}

	chunk := (n + w.workers - 1) / w.workers
	if chunk < minChunk {
		chunk = minChunk
	}

	var g errgroup.Group
	g.SetLimit(w.workers)
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		g.Go(func() error {
			return w.integrateRange(lo, hi, duration)
		})
	}
	return g.Wait()
}

func (w *World) integrateRange(lo, hi int, duration float64) error {
	for i := lo; i < hi; i++ {
		p := w.particles.At(i)
		if p == nil {
			continue
		}
		if err := p.Integrate(duration); err != nil {
			return err
		}
	}
	return nil
}

// KineticEnergy sums the kinetic energy of all finite-mass particles.
func (w *World) KineticEnergy() float64 {
	e := 0.0
	w.particles.Each(func(_ dynamo.ParticleID, p *dynamo.Particle) {
		e += p.KineticEnergy()
	})
	return e
}

// Invalid returns the first particle whose state holds NaN or Inf.
func (w *World) Invalid() (dynamo.ParticleID, bool) {
	var bad dynamo.ParticleID
	found := false
	w.particles.Each(func(id dynamo.ParticleID, p *dynamo.Particle) {
		if !found && !p.IsValid() {
			bad, found = id, true
		}
	})
	return bad, found
}

// Snapshot captures every live particle in slot order.
func (w *World) Snapshot() []Snapshot {
	out := make([]Snapshot, 0, w.particles.Len())
	w.particles.Each(func(id dynamo.ParticleID, p *dynamo.Particle) {
		out = append(out, Snapshot{ID: id, Position: p.Position(), Velocity: p.Velocity()})
	})
	return out
}
