package scenario

import (
	"context"
	"fmt"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/logging"
	"github.com/san-kum/partsim/internal/random"
	"github.com/san-kum/partsim/internal/sim"
)

// MaxFireworks is the size of the firework ring. Creating a firework into a
// busy slot replaces the old one.
const MaxFireworks = 1024

const fireworkMass = 10.0

type Payload struct {
	Type  int
	Count int
}

// FireworkRule describes one firework type: how long it burns, how it is
// launched, and what it bursts into.
type FireworkRule struct {
	Type        int
	MinAge      float64
	MaxAge      float64
	MinVelocity dynamo.Vector3
	MaxVelocity dynamo.Vector3
	Damping     float64
	Payloads    []Payload
}

// DefaultRules are the nine stock firework types, indexed by Type-1.
var DefaultRules = []FireworkRule{
	{1, 0.5, 1.4, dynamo.Vector3{X: -5, Y: 25, Z: -5}, dynamo.Vector3{X: 5, Y: 28, Z: 5}, 0.1, []Payload{{3, 5}, {5, 5}}},
	{2, 0.5, 1.0, dynamo.Vector3{X: -5, Y: 10, Z: -5}, dynamo.Vector3{X: 5, Y: 20, Z: 5}, 0.8, []Payload{{4, 2}}},
	{3, 0.5, 1.5, dynamo.Vector3{X: -5, Y: -5, Z: -5}, dynamo.Vector3{X: 5, Y: 5, Z: 5}, 0.1, nil},
	{4, 0.25, 0.5, dynamo.Vector3{X: -20, Y: 5, Z: -5}, dynamo.Vector3{X: 20, Y: 5, Z: 5}, 0.2, nil},
	{5, 0.5, 1.0, dynamo.Vector3{X: -20, Y: 2, Z: -5}, dynamo.Vector3{X: 20, Y: 18, Z: 5}, 0.01, []Payload{{3, 5}}},
	{6, 3, 5, dynamo.Vector3{X: -5, Y: 5, Z: -5}, dynamo.Vector3{X: 5, Y: 10, Z: 5}, 0.95, nil},
	{7, 4, 5, dynamo.Vector3{X: -5, Y: 50, Z: -5}, dynamo.Vector3{X: 5, Y: 60, Z: 5}, 0.01, []Payload{{8, 10}}},
	{8, 0.25, 0.5, dynamo.Vector3{X: -1, Y: -1, Z: -1}, dynamo.Vector3{X: 1, Y: 1, Z: 1}, 0.01, nil},
	{9, 3, 5, dynamo.Vector3{X: -15, Y: 10, Z: -5}, dynamo.Vector3{X: 15, Y: 15, Z: 5}, 0.95, nil},
}

type fireworkSlot struct {
	id  dynamo.ParticleID
	typ int
	age float64
}

// Fireworks launches root fireworks on a timer and bursts expired ones into
// their payloads. A firework expires when its fuse runs out or it falls
// below the ground plane.
type Fireworks struct {
	Rules      []FireworkRule
	LaunchType int
	Interval   float64
	Mass       float64

	rng        *random.Source
	slots      []fireworkSlot
	next       int
	lastLaunch float64
	primed     bool
	bursts     int
	log        *logging.Logger
}

func NewFireworks(rng *random.Source, launchType int, interval float64) *Fireworks {
	return &Fireworks{
		Rules:      DefaultRules,
		LaunchType: launchType,
		Interval:   interval,
		Mass:       fireworkMass,
		rng:        rng,
		slots:      make([]fireworkSlot, MaxFireworks),
		log:        logging.Discard(),
	}
}

func (f *Fireworks) rule(typ int) (*FireworkRule, bool) {
	if typ < 1 || typ > len(f.Rules) {
		return nil, false
	}
	return &f.Rules[typ-1], true
}

// Create adds one firework of the given type. A nil parent launches from
// the ground near the origin; otherwise the firework starts at the parent's
// position and inherits its velocity.
func (f *Fireworks) Create(w *sim.World, typ int, parent *dynamo.Particle) (dynamo.ParticleID, error) {
	rule, ok := f.rule(typ)
	if !ok {
		return dynamo.NoParticle, fmt.Errorf("unknown firework type %d", typ)
	}

	p := dynamo.NewParticle()
	if err := p.SetMass(f.Mass); err != nil {
		return dynamo.NoParticle, fmt.Errorf("firework type %d: %w", typ, err)
	}

	slot := &f.slots[f.next]
	if slot.typ != 0 {
		w.RemoveParticle(slot.id)
	}

	age := f.rng.Real(rule.MinAge, rule.MaxAge)

	var vel dynamo.Vector3
	if parent != nil {
		p.SetPosition(parent.Position())
		vel = parent.Velocity()
	} else {
		x := f.rng.Int(3) - 1
		p.SetPositionXYZ(0.5*float64(x), 0, 0)
	}
	vel.AddInPlace(f.rng.Vector(rule.MinVelocity, rule.MaxVelocity))

	p.SetVelocity(vel)
	p.SetDamping(rule.Damping)
	p.SetAcceleration(dynamo.Gravity)

	id := w.AddParticle(p)
	*slot = fireworkSlot{id: id, typ: typ, age: age}
	f.next = (f.next + 1) % len(f.slots)
	return id, nil
}

// Launch creates count root fireworks of the given type.
func (f *Fireworks) Launch(w *sim.World, typ, count int) error {
	for i := 0; i < count; i++ {
		if _, err := f.Create(w, typ, nil); err != nil {
			return err
		}
	}
	return nil
}

func (f *Fireworks) BeforeStep(w *sim.World, t, dt float64) {
	if f.LaunchType == 0 {
		return
	}
	due := !f.primed || (f.Interval > 0 && t-f.lastLaunch >= f.Interval-1e-9)
	if !due {
		return
	}
	if err := f.Launch(w, f.LaunchType, 1); err != nil {
		f.log.Warn(context.Background(), "launch failed", "error", err.Error())
		return
	}
	f.lastLaunch = t
	f.primed = true
}

type burst struct {
	typ    int
	parent dynamo.Particle
}

func (f *Fireworks) AfterStep(w *sim.World, t, dt float64) {
	var expired []burst
	for i := range f.slots {
		s := &f.slots[i]
		if s.typ == 0 {
			continue
		}
		p, ok := w.Particle(s.id)
		if !ok {
			s.typ = 0
			continue
		}
		s.age -= dt
		if s.age < 0 || p.Position().Y < 0 {
			expired = append(expired, burst{typ: s.typ, parent: *p})
			w.RemoveParticle(s.id)
			s.typ = 0
		}
	}

	for _, b := range expired {
		rule, _ := f.rule(b.typ)
		for _, pl := range rule.Payloads {
			for i := 0; i < pl.Count; i++ {
				if _, err := f.Create(w, pl.Type, &b.parent); err != nil {
					f.log.Warn(context.Background(), "payload dropped", "type", pl.Type, "error", err.Error())
				}
			}
		}
		if len(rule.Payloads) > 0 {
			f.bursts++
			f.log.Debug(context.Background(), "firework burst", "type", b.typ, "time", t)
		}
	}
}

// Active is the number of fireworks in flight.
func (f *Fireworks) Active() int {
	n := 0
	for _, s := range f.slots {
		if s.typ != 0 {
			n++
		}
	}
	return n
}

func (f *Fireworks) Bursts() int { return f.bursts }

func buildFireworks(env Env) (*Scenario, error) {
	typ := int(env.Params.Get("type", 1))
	if typ < 0 || typ > len(DefaultRules) {
		return nil, fmt.Errorf("firework type %d out of range 1..%d", typ, len(DefaultRules))
	}

	sc := newScenario("fireworks", "")
	fw := NewFireworks(env.Rand, typ, env.Params.Get("interval", 2.0))
	fw.Mass = env.Params.Get("mass", fireworkMass)
	fw.log = env.Log
	sc.Hooks = append(sc.Hooks, fw)
	return sc, nil
}
