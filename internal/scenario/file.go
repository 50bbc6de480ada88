package scenario

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/forces"
)

// File is a declarative scenario: named particles and the forces acting on
// them.
type File struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Particles   []ParticleSpec `yaml:"particles"`
	Forces      []ForceSpec    `yaml:"forces"`
}

type ParticleSpec struct {
	Name         string    `yaml:"name"`
	Position     []float64 `yaml:"position"`
	Velocity     []float64 `yaml:"velocity"`
	Acceleration []float64 `yaml:"acceleration"`
	// Mass 0 means the default of 1 unless Immovable is set.
	Mass      float64  `yaml:"mass"`
	Immovable bool     `yaml:"immovable"`
	Damping   *float64 `yaml:"damping"`
}

// ForceSpec names a generator kind, its parameters and the particles it
// acts on. Other and Anchor give the far end of springs and bungees.
type ForceSpec struct {
	Kind    string             `yaml:"kind"`
	Targets []string           `yaml:"targets"`
	Other   string             `yaml:"other"`
	Anchor  []float64          `yaml:"anchor"`
	Vector  []float64          `yaml:"vector"`
	Params  map[string]float64 `yaml:"params"`
}

// LoadFile reads a scenario file from YAML.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFile(data)
}

func ParseFile(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(f.Particles) == 0 {
		return nil, fmt.Errorf("scenario %q has no particles", f.Name)
	}
	return &f, nil
}

// Save writes the file as YAML.
func (f *File) Save(path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func vec(name string, v []float64) (dynamo.Vector3, error) {
	switch len(v) {
	case 0:
		return dynamo.Vector3{}, nil
	case 3:
		return dynamo.Vector3{X: v[0], Y: v[1], Z: v[2]}, nil
	default:
		return dynamo.Vector3{}, fmt.Errorf("%s: want 3 components, got %d", name, len(v))
	}
}

func (ps ParticleSpec) build() (*dynamo.Particle, error) {
	p := dynamo.NewParticle()

	pos, err := vec("position", ps.Position)
	if err != nil {
		return nil, err
	}
	v, err := vec("velocity", ps.Velocity)
	if err != nil {
		return nil, err
	}
	a, err := vec("acceleration", ps.Acceleration)
	if err != nil {
		return nil, err
	}
	p.SetPosition(pos)
	p.SetVelocity(v)
	p.SetAcceleration(a)

	switch {
	case ps.Immovable:
		p.SetInverseMass(0)
	case ps.Mass != 0:
		if err := p.SetMass(ps.Mass); err != nil {
			return nil, err
		}
	}
	if ps.Damping != nil {
		p.SetDamping(*ps.Damping)
	}
	return p, nil
}

func param(fs ForceSpec, key string, def float64) float64 {
	if v, ok := fs.Params[key]; ok {
		return v
	}
	return def
}

func (fs ForceSpec) generator(sc *Scenario) (forces.Generator, error) {
	k := param(fs, "k", 1)
	rest := param(fs, "rest_length", 0)

	other := func() (dynamo.ParticleID, error) {
		id, ok := sc.Names[fs.Other]
		if !ok {
			return dynamo.ParticleID{}, fmt.Errorf("unknown particle %q", fs.Other)
		}
		return id, nil
	}
	anchor := func() (*dynamo.Vector3, error) {
		a, err := vec("anchor", fs.Anchor)
		if err != nil {
			return nil, err
		}
		return &a, nil
	}

	switch strings.ToLower(fs.Kind) {
	case "gravity":
		g := dynamo.Gravity
		if len(fs.Vector) > 0 {
			v, err := vec("vector", fs.Vector)
			if err != nil {
				return nil, err
			}
			g = v
		}
		return forces.NewGravity(g), nil
	case "drag":
		return forces.NewDrag(param(fs, "k1", 0), param(fs, "k2", 0)), nil
	case "spring":
		id, err := other()
		if err != nil {
			return nil, err
		}
		return forces.NewSpring(sc.World.Particles(), id, k, rest), nil
	case "bungee":
		id, err := other()
		if err != nil {
			return nil, err
		}
		return forces.NewBungee(sc.World.Particles(), id, k, rest), nil
	case "anchored_spring":
		a, err := anchor()
		if err != nil {
			return nil, err
		}
		return forces.NewAnchoredSpring(a, k, rest), nil
	case "anchored_bungee":
		a, err := anchor()
		if err != nil {
			return nil, err
		}
		return forces.NewAnchoredBungee(a, k, rest), nil
	case "fake_spring":
		a, err := anchor()
		if err != nil {
			return nil, err
		}
		return forces.NewFakeSpring(a, k, param(fs, "damping", 0)), nil
	case "buoyancy":
		return forces.NewBuoyancy(
			param(fs, "max_depth", 1),
			param(fs, "volume", 1),
			param(fs, "water_height", 0),
			param(fs, "density", forces.DefaultLiquidDensity),
		), nil
	default:
		return nil, fmt.Errorf("unknown force kind %q", fs.Kind)
	}
}

// Build populates a new world from the file.
func (f *File) Build(env Env) (*Scenario, error) {
	sc := newScenario(f.Name, f.Description)

	for i, ps := range f.Particles {
		if ps.Name == "" {
			return nil, fmt.Errorf("particle %d: missing name", i)
		}
		if _, dup := sc.Names[ps.Name]; dup {
			return nil, fmt.Errorf("particle %q defined twice", ps.Name)
		}
		p, err := ps.build()
		if err != nil {
			return nil, fmt.Errorf("particle %q: %w", ps.Name, err)
		}
		sc.add(ps.Name, p)
	}

	for i, fs := range f.Forces {
		g, err := fs.generator(sc)
		if err != nil {
			return nil, fmt.Errorf("force %d (%s): %w", i, fs.Kind, err)
		}
		ids := make([]dynamo.ParticleID, 0, len(fs.Targets))
		for _, name := range fs.Targets {
			id, ok := sc.Names[name]
			if !ok {
				return nil, fmt.Errorf("force %d (%s): unknown target %q", i, fs.Kind, name)
			}
			ids = append(ids, id)
		}
		if _, err := sc.World.Apply(g, ids...); err != nil {
			return nil, fmt.Errorf("force %d (%s): %w", i, fs.Kind, err)
		}
	}

	if env.Log != nil {
		env.Log.Debug(context.Background(), "scenario file built", "name", f.Name, "particles", len(f.Particles), "forces", len(f.Forces))
	}
	return sc, nil
}
