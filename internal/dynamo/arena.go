package dynamo

import "fmt"

// ParticleID is a stable handle to a particle owned by a ParticleSet. A handle
// outlives its particle safely: once the slot is freed the generation no
// longer matches and lookups fail.
type ParticleID struct {
	index      uint32
	generation uint32
}

// NoParticle never resolves.
var NoParticle = ParticleID{}

func (id ParticleID) String() string {
	return fmt.Sprintf("#%d.%d", id.index, id.generation)
}

// Index is the slot index, usable as a dense array key while the handle is live.
func (id ParticleID) Index() int { return int(id.index) }

type particleSlot struct {
	particle   *Particle
	generation uint32
}

// ParticleSet is an arena of particles addressed by ParticleID.
type ParticleSet struct {
	slots []particleSlot
	free  []uint32
	count int
}

func NewParticleSet() *ParticleSet {
	return &ParticleSet{}
}

// Add takes ownership of p and returns its handle. Freed slots are reused
// with a new generation.
func (s *ParticleSet) Add(p *Particle) ParticleID {
	s.count++
	if n := len(s.free); n > 0 {
		idx := s.free[n-1]
		s.free = s.free[:n-1]
		slot := &s.slots[idx]
		slot.particle = p
		return ParticleID{index: idx, generation: slot.generation}
	}
	// generation starts at 1 so the zero ParticleID never resolves
	s.slots = append(s.slots, particleSlot{particle: p, generation: 1})
	return ParticleID{index: uint32(len(s.slots) - 1), generation: 1}
}

func (s *ParticleSet) Get(id ParticleID) (*Particle, bool) {
	if int(id.index) >= len(s.slots) {
		return nil, false
	}
	slot := s.slots[id.index]
	if slot.particle == nil || slot.generation != id.generation {
		return nil, false
	}
	return slot.particle, true
}

// Contains reports whether id still refers to a live particle.
func (s *ParticleSet) Contains(id ParticleID) bool {
	_, ok := s.Get(id)
	return ok
}

// Remove frees the slot. It returns false for stale handles.
func (s *ParticleSet) Remove(id ParticleID) bool {
	if !s.Contains(id) {
		return false
	}
	slot := &s.slots[id.index]
	slot.particle = nil
	slot.generation++
	s.free = append(s.free, id.index)
	s.count--
	return true
}

func (s *ParticleSet) Len() int { return s.count }

// Cap is the number of slots, live or free.
func (s *ParticleSet) Cap() int { return len(s.slots) }

// Each calls fn for every live particle in slot order.
func (s *ParticleSet) Each(fn func(id ParticleID, p *Particle)) {
	for i, slot := range s.slots {
		if slot.particle == nil {
			continue
		}
		fn(ParticleID{index: uint32(i), generation: slot.generation}, slot.particle)
	}
}

// IDs returns the handles of all live particles in slot order.
func (s *ParticleSet) IDs() []ParticleID {
	ids := make([]ParticleID, 0, s.count)
	s.Each(func(id ParticleID, _ *Particle) {
		ids = append(ids, id)
	})
	return ids
}

// At returns the particle in slot i, or nil if the slot is free.
func (s *ParticleSet) At(i int) *Particle {
	if i < 0 || i >= len(s.slots) {
		return nil
	}
	return s.slots[i].particle
}

// Clear removes every particle and invalidates all outstanding handles.
func (s *ParticleSet) Clear() {
	for i := range s.slots {
		if s.slots[i].particle != nil {
			s.slots[i].particle = nil
			s.slots[i].generation++
			s.free = append(s.free, uint32(i))
		}
	}
	s.count = 0
}
