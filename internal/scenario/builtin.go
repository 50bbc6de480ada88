package scenario

import (
	"fmt"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/forces"
)

func particle(mass, damping float64, pos dynamo.Vector3) (*dynamo.Particle, error) {
	p := dynamo.NewParticle()
	if err := p.SetMass(mass); err != nil {
		return nil, err
	}
	p.SetDamping(damping)
	p.SetPosition(pos)
	return p, nil
}

func buildSprings(env Env) (*Scenario, error) {
	k := env.Params.Get("k", 10)
	rest := env.Params.Get("rest", 1)
	sc := newScenario("springs", "")

	a, err := particle(env.Params.Get("mass", 1), env.Params.Get("damping", 0.95), dynamo.Vector3{X: -1})
	if err != nil {
		return nil, err
	}
	b, err := particle(env.Params.Get("mass", 1), env.Params.Get("damping", 0.95), dynamo.Vector3{X: 1.5})
	if err != nil {
		return nil, err
	}
	b.SetVelocityXYZ(0, 1, 0)
	ida, idb := sc.add("a", a), sc.add("b", b)

	if _, err := sc.World.Apply(forces.NewSpring(sc.World.Particles(), idb, k, rest), ida); err != nil {
		return nil, err
	}
	if _, err := sc.World.Apply(forces.NewSpring(sc.World.Particles(), ida, k, rest), idb); err != nil {
		return nil, err
	}
	return sc, nil
}

func buildBungee(env Env) (*Scenario, error) {
	sc := newScenario("bungee", "")
	anchor := &dynamo.Vector3{Y: env.Params.Get("anchor_height", 10)}

	p, err := particle(env.Params.Get("mass", 2), env.Params.Get("damping", 0.95), *anchor)
	if err != nil {
		return nil, err
	}
	id := sc.add("jumper", p)

	if _, err := sc.World.Apply(forces.NewGravity(dynamo.Gravity), id); err != nil {
		return nil, err
	}
	bungee := forces.NewAnchoredBungee(anchor, env.Params.Get("k", 20), env.Params.Get("rest", 3))
	if _, err := sc.World.Apply(bungee, id); err != nil {
		return nil, err
	}
	return sc, nil
}

func buildBuoyancy(env Env) (*Scenario, error) {
	sc := newScenario("buoyancy", "")

	p, err := particle(env.Params.Get("mass", 1), 1, dynamo.Vector3{Y: env.Params.Get("height", 3)})
	if err != nil {
		return nil, err
	}
	id := sc.add("float", p)

	water := forces.NewBuoyancy(
		env.Params.Get("max_depth", 0.5),
		env.Params.Get("volume", 0.02),
		env.Params.Get("water_height", 0),
		env.Params.Get("density", forces.DefaultLiquidDensity),
	)
	for _, g := range []forces.Generator{
		forces.NewGravity(dynamo.Gravity),
		water,
		forces.NewDrag(env.Params.Get("k1", 2), env.Params.Get("k2", 0.5)),
	} {
		if _, err := sc.World.Apply(g, id); err != nil {
			return nil, err
		}
	}
	return sc, nil
}

func buildFakeSpring(env Env) (*Scenario, error) {
	k := env.Params.Get("k", 1000)
	c := env.Params.Get("damping", 2)
	if 4*k-c*c <= 0 {
		return nil, fmt.Errorf("fake spring needs 4k > c^2, got k=%g c=%g", k, c)
	}

	sc := newScenario("fakespring", "")
	anchor := &dynamo.Vector3{}

	p, err := particle(env.Params.Get("mass", 1), 1, dynamo.Vector3{X: env.Params.Get("offset", 3)})
	if err != nil {
		return nil, err
	}
	id := sc.add("bob", p)

	if _, err := sc.World.Apply(forces.NewFakeSpring(anchor, k, c), id); err != nil {
		return nil, err
	}
	return sc, nil
}

func buildDrag(env Env) (*Scenario, error) {
	sc := newScenario("drag", "")

	p, err := particle(env.Params.Get("mass", 1), 1, dynamo.Vector3{})
	if err != nil {
		return nil, err
	}
	p.SetVelocityXYZ(0, env.Params.Get("vy", 20), env.Params.Get("vz", 30))
	id := sc.add("projectile", p)

	for _, g := range []forces.Generator{
		forces.NewGravity(dynamo.Gravity),
		forces.NewDrag(env.Params.Get("k1", 0.1), env.Params.Get("k2", 0.01)),
	} {
		if _, err := sc.World.Apply(g, id); err != nil {
			return nil, err
		}
	}
	return sc, nil
}
