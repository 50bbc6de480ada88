// Package scenario builds ready-to-run worlds: the built-in demos and
// declarative YAML scenario files.
package scenario

import (
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/logging"
	"github.com/san-kum/partsim/internal/random"
	"github.com/san-kum/partsim/internal/sim"
)

// Params carries numeric scenario knobs, usually from config or flags.
type Params map[string]float64

// Get returns p[key], or def when the key is absent.
func (p Params) Get(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Env is what a Builder gets to build from.
type Env struct {
	Params Params
	Rand   *random.Source
	Log    *logging.Logger
}

type Builder func(env Env) (*Scenario, error)

// Scenario is a populated world plus the hooks that keep it going.
type Scenario struct {
	Name        string
	Description string
	World       *sim.World
	Hooks       []sim.Hook
	// Tracked lists the particles worth plotting, in display order.
	Tracked []dynamo.ParticleID
	// Names maps particle names from scenario files to handles.
	Names map[string]dynamo.ParticleID
}

// Simulator wires the scenario's hooks into a new simulator over its world.
func (s *Scenario) Simulator(log *logging.Logger) *sim.Simulator {
	sm := sim.New(s.World)
	sm.SetLogger(log)
	for _, h := range s.Hooks {
		sm.AddHook(h)
	}
	return sm
}

func newScenario(name, desc string) *Scenario {
	return &Scenario{
		Name:        name,
		Description: desc,
		World:       sim.NewWorld(),
		Names:       make(map[string]dynamo.ParticleID),
	}
}

func (s *Scenario) add(name string, p *dynamo.Particle) dynamo.ParticleID {
	id := s.World.AddParticle(p)
	if name != "" {
		s.Names[name] = id
	}
	s.Tracked = append(s.Tracked, id)
	return id
}
