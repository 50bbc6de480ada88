package scenario

import (
	"context"
	"fmt"
	"strings"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/logging"
	"github.com/san-kum/partsim/internal/sim"
)

const (
	MaxRounds     = 16
	RoundLifetime = 5.0
	RoundRange    = 200.0
)

type ShotType int

const (
	Unused ShotType = iota
	Pistol
	Artillery
	Fireball
	Laser
)

var shotNames = map[ShotType]string{
	Pistol:    "pistol",
	Artillery: "artillery",
	Fireball:  "fireball",
	Laser:     "laser",
}

func (s ShotType) String() string {
	if n, ok := shotNames[s]; ok {
		return n
	}
	return "unused"
}

func ParseShotType(name string) (ShotType, error) {
	for t, n := range shotNames {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}
	return Unused, fmt.Errorf("unknown shot type: %s", name)
}

type shotSpec struct {
	mass         float64
	velocity     dynamo.Vector3
	acceleration dynamo.Vector3
	damping      float64
}

var shots = map[ShotType]shotSpec{
	Pistol:    {mass: 2, velocity: dynamo.Vector3{Z: 35}, acceleration: dynamo.Vector3{Y: -1}, damping: 0.99},
	Artillery: {mass: 200, velocity: dynamo.Vector3{Y: 30, Z: 40}, acceleration: dynamo.Vector3{Y: -20}, damping: 0.99},
	Fireball:  {mass: 1, velocity: dynamo.Vector3{Z: 10}, acceleration: dynamo.Vector3{Y: 0.6}, damping: 0.9},
	Laser:     {mass: 0.1, velocity: dynamo.Vector3{Z: 100}, damping: 0.99},
}

type round struct {
	id   dynamo.ParticleID
	shot ShotType
	age  float64
}

// Ballistic fires rounds from a fixed pool and culls them once they land,
// fly out of range or grow too old. Interval 0 fires a single round.
type Ballistic struct {
	Shot     ShotType
	Interval float64
	Origin   dynamo.Vector3

	rounds   []round
	lastFire float64
	primed   bool
	fired    int
	culled   int
	log      *logging.Logger
}

func NewBallistic(shot ShotType, interval float64) *Ballistic {
	return &Ballistic{
		Shot:     shot,
		Interval: interval,
		Origin:   dynamo.Vector3{Y: 1.5},
		rounds:   make([]round, 0, MaxRounds),
		log:      logging.Discard(),
	}
}

// Fire adds a round of the current shot type. It fails when the pool is full
// or the shot cannot be built.
func (b *Ballistic) Fire(w *sim.World) (dynamo.ParticleID, bool) {
	kind, ok := shots[b.Shot]
	if !ok || len(b.rounds) >= MaxRounds {
		return dynamo.NoParticle, false
	}

	p := dynamo.NewParticle()
	if err := p.SetMass(kind.mass); err != nil {
		b.log.Warn(context.Background(), "round not fired", "shot", b.Shot.String(), "error", err.Error())
		return dynamo.NoParticle, false
	}
	p.SetVelocity(kind.velocity)
	p.SetAcceleration(kind.acceleration)
	p.SetDamping(kind.damping)
	p.SetPosition(b.Origin)

	id := w.AddParticle(p)
	b.rounds = append(b.rounds, round{id: id, shot: b.Shot})
	b.fired++
	return id, true
}

func (b *Ballistic) BeforeStep(w *sim.World, t, dt float64) {
	due := !b.primed || (b.Interval > 0 && t-b.lastFire >= b.Interval-1e-9)
	if !due {
		return
	}
	if _, ok := b.Fire(w); ok {
		b.lastFire = t
		b.primed = true
	}
}

func (b *Ballistic) AfterStep(w *sim.World, t, dt float64) {
	live := b.rounds[:0]
	for _, r := range b.rounds {
		r.age += dt
		p, ok := w.Particle(r.id)
		if ok {
			pos := p.Position()
			if pos.Y >= 0 && pos.Z <= RoundRange && r.age <= RoundLifetime {
				live = append(live, r)
				continue
			}
			w.RemoveParticle(r.id)
		}
		b.culled++
		b.log.Debug(context.Background(), "round culled", "shot", r.shot.String(), "age", r.age)
	}
	b.rounds = live
}

// Live is the number of rounds in flight.
func (b *Ballistic) Live() int { return len(b.rounds) }

// Counts reports rounds fired and culled so far.
func (b *Ballistic) Counts() (fired, culled int) { return b.fired, b.culled }

func buildBallistic(env Env) (*Scenario, error) {
	shot := ShotType(int(env.Params.Get("shot", float64(Laser))))
	if _, ok := shots[shot]; !ok {
		return nil, fmt.Errorf("shot %d out of range 1..4", shot)
	}

	sc := newScenario("ballistic", "")
	b := NewBallistic(shot, env.Params.Get("interval", 1.0))
	b.log = env.Log
	sc.Hooks = append(sc.Hooks, b)
	return sc, nil
}
