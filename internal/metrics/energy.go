package metrics

import (
	"math"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/sim"
)

// MechanicalEnergy is kinetic energy plus potential energy in a uniform
// field g, summed over finite-mass particles. Height is measured along -g.
func MechanicalEnergy(w *sim.World, g dynamo.Vector3) float64 {
	e := 0.0
	w.Particles().Each(func(_ dynamo.ParticleID, p *dynamo.Particle) {
		if !p.HasFiniteMass() {
			return
		}
		e += p.KineticEnergy() - p.Mass()*g.ScalarProduct(p.Position())
	})
	return e
}

// Energy reports the mean mechanical energy over the run.
type Energy struct {
	name        string
	gravity     dynamo.Vector3
	samples     int
	totalEnergy float64
}

func NewEnergy(gravity dynamo.Vector3) *Energy {
	return &Energy{
		name:    "energy",
		gravity: gravity,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(w *sim.World, t float64) {
	e.totalEnergy += MechanicalEnergy(w, e.gravity)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift reports the largest relative change in mechanical energy seen
// against the first observation.
type EnergyDrift struct {
	name          string
	gravity       dynamo.Vector3
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(gravity dynamo.Vector3) *EnergyDrift {
	return &EnergyDrift{
		name:    "energy_drift",
		gravity: gravity,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(w *sim.World, t float64) {
	energy := MechanicalEnergy(w, e.gravity)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// MaxSpeed is the highest particle speed observed.
type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(w *sim.World, t float64) {
	w.Particles().Each(func(_ dynamo.ParticleID, p *dynamo.Particle) {
		if s := p.Velocity().Magnitude(); s > m.max {
			m.max = s
		}
	})
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }
