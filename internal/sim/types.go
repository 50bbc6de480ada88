package sim

import "github.com/san-kum/partsim/internal/dynamo"

// Metric accumulates a scalar over a run. Observe is called once per step
// before the world advances.
type Metric interface {
	Name() string
	Observe(w *World, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(w *World, t float64)
}

// Hook lets a scenario change the world between steps, outside the force
// and integration phases: spawning, expiring or re-aiming particles.
type Hook interface {
	BeforeStep(w *World, t, dt float64)
	AfterStep(w *World, t, dt float64)
}

type Config struct {
	Dt       float64
	Duration float64
	// Workers > 1 integrates particles in parallel chunks.
	Workers int
	// SampleEvery records a Frame every n steps; 0 means every step.
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		Workers:       1,
		SampleEvery:   1,
		ValidateState: true,
	}
}

// Snapshot is the kinematic state of one particle at one instant.
type Snapshot struct {
	ID       dynamo.ParticleID
	Position dynamo.Vector3
	Velocity dynamo.Vector3
}

type Frame struct {
	Step      int
	Time      float64
	Particles []Snapshot
}

// Find returns the snapshot of id, if it was alive in this frame.
func (f Frame) Find(id dynamo.ParticleID) (Snapshot, bool) {
	for _, s := range f.Particles {
		if s.ID == id {
			return s, true
		}
	}
	return Snapshot{}, false
}

type Result struct {
	Frames      []Frame
	Metrics     map[string]float64
	StepsTaken  int
	EnergyDrift float64
	Errors      []error
}

// Final returns the last recorded frame.
func (r *Result) Final() (Frame, bool) {
	if len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}
