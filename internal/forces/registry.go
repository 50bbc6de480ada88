package forces

import (
	"fmt"

	"github.com/san-kum/partsim/internal/dynamo"
)

// GeneratorID is a stable handle to a generator held by a Registry.
type GeneratorID struct {
	index      uint32
	generation uint32
}

func (id GeneratorID) String() string {
	return fmt.Sprintf("g%d.%d", id.index, id.generation)
}

// Registration pairs a particle with a generator acting on it.
type Registration struct {
	Particle  dynamo.ParticleID
	Generator GeneratorID
}

type generatorSlot struct {
	gen        Generator
	generation uint32
}

// Registry holds generators and the ordered list of (particle, generator)
// registrations. It owns neither the particles nor the generator values; it
// only resolves handles at update time.
type Registry struct {
	particles  *dynamo.ParticleSet
	generators []generatorSlot
	free       []uint32
	regs       []Registration
}

func NewRegistry(particles *dynamo.ParticleSet) *Registry {
	return &Registry{particles: particles}
}

// AddGenerator stores g and returns its handle. The same value may be added
// more than once; each call gets its own handle.
func (r *Registry) AddGenerator(g Generator) GeneratorID {
	if n := len(r.free); n > 0 {
		idx := r.free[n-1]
		r.free = r.free[:n-1]
		r.generators[idx].gen = g
		return GeneratorID{index: idx, generation: r.generators[idx].generation}
	}
	r.generators = append(r.generators, generatorSlot{gen: g, generation: 1})
	return GeneratorID{index: uint32(len(r.generators) - 1), generation: 1}
}

func (r *Registry) Generator(id GeneratorID) (Generator, bool) {
	if int(id.index) >= len(r.generators) {
		return nil, false
	}
	slot := r.generators[id.index]
	if slot.gen == nil || slot.generation != id.generation {
		return nil, false
	}
	return slot.gen, true
}

// RemoveGenerator frees the generator slot and drops every registration that
// uses it.
func (r *Registry) RemoveGenerator(id GeneratorID) bool {
	if _, ok := r.Generator(id); !ok {
		return false
	}
	slot := &r.generators[id.index]
	slot.gen = nil
	slot.generation++
	r.free = append(r.free, id.index)
	r.Prune()
	return true
}

// Add appends a registration. Duplicates are allowed and apply the force
// once per copy.
func (r *Registry) Add(p dynamo.ParticleID, g GeneratorID) error {
	if !r.particles.Contains(p) {
		return fmt.Errorf("add particle %s: %w", p, dynamo.ErrStaleHandle)
	}
	if _, ok := r.Generator(g); !ok {
		return fmt.Errorf("add generator %s: %w", g, dynamo.ErrStaleHandle)
	}
	r.regs = append(r.regs, Registration{Particle: p, Generator: g})
	return nil
}

// Remove deletes every registration matching both handles and returns how
// many were removed. Order of the remaining registrations is preserved.
func (r *Registry) Remove(p dynamo.ParticleID, g GeneratorID) int {
	return r.filter(func(reg Registration) bool {
		return reg.Particle != p || reg.Generator != g
	})
}

// RemoveParticle drops every registration of p.
func (r *Registry) RemoveParticle(p dynamo.ParticleID) int {
	return r.filter(func(reg Registration) bool {
		return reg.Particle != p
	})
}

// Clear drops all registrations. Generators stay in the registry and
// particles are not touched.
func (r *Registry) Clear() {
	r.regs = r.regs[:0]
}

// Prune drops registrations whose particle or generator no longer resolves
// and returns the number dropped.
func (r *Registry) Prune() int {
	return r.filter(r.live)
}

// UpdateForces runs every registered generator on its particle, in
// registration order. Registrations with stale handles are skipped and
// dropped once the pass is over.
func (r *Registry) UpdateForces(duration float64) {
	stale := false
	for _, reg := range r.regs {
		p, ok := r.particles.Get(reg.Particle)
		if !ok {
			stale = true
			continue
		}
		g, ok := r.Generator(reg.Generator)
		if !ok {
			stale = true
			continue
		}
		g.UpdateForce(p, duration)
	}
	if stale {
		r.Prune()
	}
}

func (r *Registry) Len() int { return len(r.regs) }

// Registrations returns a copy of the registration list.
func (r *Registry) Registrations() []Registration {
	out := make([]Registration, len(r.regs))
	copy(out, r.regs)
	return out
}

func (r *Registry) live(reg Registration) bool {
	if !r.particles.Contains(reg.Particle) {
		return false
	}
	_, ok := r.Generator(reg.Generator)
	return ok
}

func (r *Registry) filter(keep func(Registration) bool) int {
	n := 0
	for _, reg := range r.regs {
		if keep(reg) {
			r.regs[n] = reg
			n++
		}
	}
	removed := len(r.regs) - n
	r.regs = r.regs[:n]
	return removed
}
