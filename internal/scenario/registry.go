package scenario

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/logging"
	"github.com/san-kum/partsim/internal/metrics"
	"github.com/san-kum/partsim/internal/random"
	"github.com/san-kum/partsim/internal/sim"
)

type entry struct {
	description string
	build       Builder
}

type Registry struct {
	scenarios map[string]entry
	log       *logging.Logger
}

func NewRegistry() *Registry {
	r := &Registry{
		scenarios: make(map[string]entry),
		log:       logging.Discard(),
	}

	r.Register("ballistic", "projectiles from a 16 round pool (param shot: 1 pistol, 2 artillery, 3 fireball, 4 laser)", buildBallistic)
	r.Register("fireworks", "rule driven fireworks bursting into payloads", buildFireworks)
	r.Register("springs", "two particles joined by a spring", buildSprings)
	r.Register("bungee", "a mass hanging from an anchor on a bungee", buildBungee)
	r.Register("buoyancy", "a float settling on a water surface", buildBuoyancy)
	r.Register("fakespring", "a stiff damped spring that stays stable at large steps", buildFakeSpring)
	r.Register("drag", "a projectile slowed by aerodynamic drag", buildDrag)

	return r
}

func (r *Registry) SetLogger(l *logging.Logger) {
	if l == nil {
		l = logging.Discard()
	}
	r.log = l
}

// Register adds or replaces a named scenario.
func (r *Registry) Register(name, description string, b Builder) {
	r.scenarios[name] = entry{description: description, build: b}
}

// IsFile reports whether name refers to a YAML scenario file.
func IsFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// Build creates the named scenario. Names ending in .yaml or .yml are loaded
// as scenario files.
func (r *Registry) Build(name string, params Params, seed int64) (*Scenario, error) {
	env := Env{Params: params, Rand: random.New(seed), Log: r.log.With("scenario", name)}
	if env.Params == nil {
		env.Params = Params{}
	}

	if IsFile(name) {
		f, err := LoadFile(name)
		if err != nil {
			return nil, err
		}
		return f.Build(env)
	}

	e, ok := r.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s", name)
	}
	sc, err := e.build(env)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", name, err)
	}
	if sc.Description == "" {
		sc.Description = e.description
	}
	return sc, nil
}

func (r *Registry) Describe(name string) (string, bool) {
	e, ok := r.scenarios[name]
	return e.description, ok
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics is the metric set every run collects.
func (r *Registry) DefaultMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergy(dynamo.Gravity),
		metrics.NewEnergyDrift(dynamo.Gravity),
		metrics.NewMaxSpeed(),
		metrics.NewStability(1e4),
		metrics.NewPopulation(),
	}
}
