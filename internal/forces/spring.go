package forces

import "github.com/san-kum/partsim/internal/dynamo"

// SpringLike holds the Hooke's law parameters shared by every spring variant.
type SpringLike struct {
	K          float64
	RestLength float64
}

// force returns the spring force on an endpoint displaced by d from the
// other end. A zero displacement has no direction and yields no force.
func (s SpringLike) force(d dynamo.Vector3) dynamo.Vector3 {
	magnitude := s.K * (d.Magnitude() - s.RestLength)
	d.Normalize()
	d.ScaleInPlace(-magnitude)
	return d
}

// slack reports whether a one-sided spring is not stretched.
func (s SpringLike) slack(d dynamo.Vector3) bool {
	return d.Magnitude() <= s.RestLength
}

// Spring connects the particle it is registered on to the particle Other
// names in Set. It only pushes and pulls the registered particle; register a
// second Spring on Other pointing back for the force to act on both ends.
// Once Other leaves the set the spring adds nothing.
type Spring struct {
	SpringLike
	Set   *dynamo.ParticleSet
	Other dynamo.ParticleID
}

func NewSpring(set *dynamo.ParticleSet, other dynamo.ParticleID, k, restLength float64) *Spring {
	return &Spring{SpringLike: SpringLike{K: k, RestLength: restLength}, Set: set, Other: other}
}

func (s *Spring) UpdateForce(p *dynamo.Particle, _ float64) {
	o, ok := s.Set.Get(s.Other)
	if !ok {
		return
	}
	p.AddForce(s.force(p.Position().Sub(o.Position())))
}

// AnchoredSpring connects a particle to a fixed point. The anchor is shared,
// so moving it moves the spring's end.
type AnchoredSpring struct {
	SpringLike
	Anchor *dynamo.Vector3
}

func NewAnchoredSpring(anchor *dynamo.Vector3, k, restLength float64) *AnchoredSpring {
	return &AnchoredSpring{SpringLike: SpringLike{K: k, RestLength: restLength}, Anchor: anchor}
}

func (s *AnchoredSpring) UpdateForce(p *dynamo.Particle, _ float64) {
	p.AddForce(s.force(p.Position().Sub(*s.Anchor)))
}

// Bungee is a Spring that only pulls: no force while the two ends are within
// the rest length.
type Bungee struct {
	SpringLike
	Set   *dynamo.ParticleSet
	Other dynamo.ParticleID
}

func NewBungee(set *dynamo.ParticleSet, other dynamo.ParticleID, k, restLength float64) *Bungee {
	return &Bungee{SpringLike: SpringLike{K: k, RestLength: restLength}, Set: set, Other: other}
}

func (b *Bungee) UpdateForce(p *dynamo.Particle, _ float64) {
	o, ok := b.Set.Get(b.Other)
	if !ok {
		return
	}
	d := p.Position().Sub(o.Position())
	if b.slack(d) {
		return
	}
	p.AddForce(b.force(d))
}

// AnchoredBungee is a Bungee tied to a fixed point.
type AnchoredBungee struct {
	SpringLike
	Anchor *dynamo.Vector3
}

func NewAnchoredBungee(anchor *dynamo.Vector3, k, restLength float64) *AnchoredBungee {
	return &AnchoredBungee{SpringLike: SpringLike{K: k, RestLength: restLength}, Anchor: anchor}
}

func (b *AnchoredBungee) UpdateForce(p *dynamo.Particle, _ float64) {
	d := p.Position().Sub(*b.Anchor)
	if b.slack(d) {
		return
	}
	p.AddForce(b.force(d))
}
