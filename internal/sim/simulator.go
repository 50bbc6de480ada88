package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/logging"
)

type Simulator struct {
	world     *World
	metrics   []Metric
	observers []Observer
	hooks     []Hook
	log       *logging.Logger
}

func New(world *World) *Simulator {
	return &Simulator{
		world:     world,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		hooks:     make([]Hook, 0),
		log:       logging.Discard(),
	}
}

func (s *Simulator) World() *World { return s.world }

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) AddHook(h Hook)         { s.hooks = append(s.hooks, h) }

func (s *Simulator) SetLogger(l *logging.Logger) {
	if l == nil {
		l = logging.Discard()
	}
	s.log = l
}

// Steps is the number of whole steps cfg runs for.
func Steps(cfg Config) int {
	return int(cfg.Duration/cfg.Dt + 1e-9)
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := Steps(cfg)
	every := cfg.SampleEvery
	if every <= 0 {
		every = 1
	}

	result := &Result{
		Frames:  make([]Frame, 0, steps/every+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	w := s.world
	w.SetWorkers(cfg.Workers)
	t := 0.0
	dt := cfg.Dt

	s.log.Info(ctx, "run started", "particles", w.Len(), "steps", steps, "dt", dt, "workers", w.Workers())

	result.Frames = append(result.Frames, Frame{Step: 0, Time: t, Particles: w.Snapshot()})
	initialEnergy := w.KineticEnergy()

	var runErr error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.log.Warn(ctx, "run cancelled", "step", i, "time", t)
			return result, ctx.Err()
		default:
		}

		for _, h := range s.hooks {
			h.BeforeStep(w, t, dt)
		}
		for _, m := range s.metrics {
			m.Observe(w, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(w, t)
		}

		if err := w.Step(dt); err != nil {
			runErr = &dynamo.SimulationError{Step: i, Time: t, Wrapped: err}
			result.Errors = append(result.Errors, runErr)
			break
		}
		t += dt

		for _, h := range s.hooks {
			h.AfterStep(w, t, dt)
		}
		result.StepsTaken++

		if cfg.ValidateState {
			if id, bad := w.Invalid(); bad {
				runErr = &dynamo.SimulationError{Step: i, Time: t, Particle: id, Wrapped: dynamo.ErrInvalidState}
				result.Errors = append(result.Errors, runErr)
				break
			}
		}

		if (i+1)%every == 0 {
			result.Frames = append(result.Frames, Frame{Step: i + 1, Time: t, Particles: w.Snapshot()})
		}
	}

	finalEnergy := w.KineticEnergy()
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	if runErr != nil {
		s.log.Error(ctx, "run stopped", runErr, "steps", result.StepsTaken)
		return result, runErr
	}
	s.log.Info(ctx, "run finished", "steps", result.StepsTaken, "particles", w.Len(), "frames", len(result.Frames))
	return result, nil
}

// RunWithCallback steps the world until the duration elapses, the context
// is cancelled, or callback returns false. No frames are recorded.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(w *World, t float64) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	w := s.world
	w.SetWorkers(cfg.Workers)
	steps := Steps(cfg)
	t := 0.0

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(w, t) {
			return nil
		}

		if err := s.Advance(t, cfg.Dt); err != nil {
			return &dynamo.SimulationError{Step: i, Time: t, Wrapped: err}
		}
		t += cfg.Dt

		if cfg.ValidateState {
			if id, bad := w.Invalid(); bad {
				return &dynamo.SimulationError{Step: i, Time: t, Particle: id, Wrapped: dynamo.ErrInvalidState}
			}
		}
	}

	return nil
}

// Advance runs one step starting at time t: hooks before, the world step,
// hooks after. Metrics and observers are not called.
func (s *Simulator) Advance(t, dt float64) error {
	for _, h := range s.hooks {
		h.BeforeStep(s.world, t, dt)
	}
	if err := s.world.Step(dt); err != nil {
		return err
	}
	for _, h := range s.hooks {
		h.AfterStep(s.world, t+dt, dt)
	}
	return nil
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.Duration < cfg.Dt {
		return fmt.Errorf("duration %f shorter than one step of %f", cfg.Duration, cfg.Dt)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("sample interval must not be negative, got %d", cfg.SampleEvery)
	}
	return nil
}
