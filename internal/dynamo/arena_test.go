package dynamo

import "testing"

func TestParticleSet_AddGetRemove(t *testing.T) {
	s := NewParticleSet()
	a, b := NewParticle(), NewParticle()

	ida := s.Add(a)
	idb := s.Add(b)

	if s.Len() != 2 {
		t.Fatalf("expected 2 particles, got %d", s.Len())
	}
	if got, ok := s.Get(ida); !ok || got != a {
		t.Error("Get(ida) did not return a")
	}
	if got, ok := s.Get(idb); !ok || got != b {
		t.Error("Get(idb) did not return b")
	}

	if !s.Remove(ida) {
		t.Fatal("Remove(ida) failed")
	}
	if s.Remove(ida) {
		t.Error("second Remove(ida) should fail")
	}
	if _, ok := s.Get(ida); ok {
		t.Error("stale handle still resolves")
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 particle, got %d", s.Len())
	}
}

func TestParticleSet_SlotReuseInvalidatesOldHandle(t *testing.T) {
	s := NewParticleSet()
	old := s.Add(NewParticle())
	s.Remove(old)

	c := NewParticle()
	fresh := s.Add(c)

	if fresh.Index() != old.Index() {
		t.Fatalf("expected slot %d to be reused, got %d", old.Index(), fresh.Index())
	}
	if fresh == old {
		t.Fatal("reused slot kept the same generation")
	}
	if _, ok := s.Get(old); ok {
		t.Error("old handle resolves to the new occupant")
	}
	if got, ok := s.Get(fresh); !ok || got != c {
		t.Error("new handle does not resolve")
	}
	if s.Cap() != 1 {
		t.Errorf("expected 1 slot, got %d", s.Cap())
	}
}

func TestParticleSet_ZeroHandle(t *testing.T) {
	s := NewParticleSet()
	s.Add(NewParticle())

	if _, ok := s.Get(NoParticle); ok {
		t.Error("zero ParticleID must never resolve")
	}
	if _, ok := s.Get(ParticleID{index: 42, generation: 1}); ok {
		t.Error("out of range handle resolved")
	}
}

func TestParticleSet_EachAndClear(t *testing.T) {
	s := NewParticleSet()
	ids := []ParticleID{s.Add(NewParticle()), s.Add(NewParticle()), s.Add(NewParticle())}
	s.Remove(ids[1])

	var seen []ParticleID
	s.Each(func(id ParticleID, _ *Particle) { seen = append(seen, id) })
	if len(seen) != 2 || seen[0] != ids[0] || seen[1] != ids[2] {
		t.Errorf("Each visited %v, want [%v %v]", seen, ids[0], ids[2])
	}
	if got := s.IDs(); len(got) != 2 {
		t.Errorf("IDs() returned %d handles", len(got))
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("expected empty set, got %d", s.Len())
	}
	for _, id := range ids {
		if s.Contains(id) {
			t.Errorf("handle %v survived Clear", id)
		}
	}
}
