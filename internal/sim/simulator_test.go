package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/forces"
)

func fallingWorld() (*World, dynamo.ParticleID) {
	w := NewWorld()
	p := dynamo.NewParticle()
	p.SetVelocityXYZ(1, 0, 0)
	id := w.AddParticle(p)
	if _, err := w.Apply(forces.NewGravity(dynamo.Vector3{Y: -1}), id); err != nil {
		panic(err)
	}
	return w, id
}

func TestSimulatorRun(t *testing.T) {
	w, id := fallingWorld()
	sim := New(w)

	cfg := Config{Dt: 0.1, Duration: 1.0}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Frames) != 11 {
		t.Errorf("expected 11 frames, got %d", len(result.Frames))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}

	final, ok := result.Final()
	if !ok {
		t.Fatal("no final frame")
	}
	if math.Abs(final.Time-1.0) > 1e-9 {
		t.Errorf("final time = %v, want 1", final.Time)
	}
	snap, ok := final.Find(id)
	if !ok {
		t.Fatal("particle missing from final frame")
	}
	if math.Abs(snap.Position.X-1.0) > 1e-9 {
		t.Errorf("x = %v, want 1", snap.Position.X)
	}
	if math.Abs(snap.Velocity.Y+1.0) > 1e-9 {
		t.Errorf("vy = %v, want -1", snap.Velocity.Y)
	}
	// position lags velocity by one step: sum of -0.1*k*0.1 for k = 0..9
	if math.Abs(snap.Position.Y+0.45) > 1e-9 {
		t.Errorf("y = %v, want -0.45", snap.Position.Y)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	w, _ := fallingWorld()
	sim := New(w)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"NaN dt", Config{Dt: math.NaN(), Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
		{"shorter than a step", Config{Dt: 0.1, Duration: 0.05}},
		{"negative sampling", Config{Dt: 0.1, Duration: 1, SampleEvery: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.cfg)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(w *World, time float64) {
	t.count++
	t.sum += time
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

func TestSimulatorMetrics(t *testing.T) {
	w, _ := fallingWorld()
	sim := New(w)

	metric := &testMetric{}
	sim.AddMetric(metric)

	result, err := sim.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if v, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	} else if math.Abs(v-0.45) > 1e-9 {
		t.Errorf("mean observed time = %v, want 0.45", v)
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
}

func TestSimulatorSampling(t *testing.T) {
	w, _ := fallingWorld()
	result, err := New(w).Run(context.Background(), Config{Dt: 0.01, Duration: 1.0, SampleEvery: 25})
	if err != nil {
		t.Fatal(err)
	}

	want := []int{0, 25, 50, 75, 100}
	if len(result.Frames) != len(want) {
		t.Fatalf("got %d frames, want %d", len(result.Frames), len(want))
	}
	for i, f := range result.Frames {
		if f.Step != want[i] {
			t.Errorf("frame %d at step %d, want %d", i, f.Step, want[i])
		}
	}
}

func TestSimulatorCancel(t *testing.T) {
	w, _ := fallingWorld()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(w).Run(ctx, Config{Dt: 0.1, Duration: 1.0})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.StepsTaken != 0 {
		t.Errorf("took %d steps after cancel", result.StepsTaken)
	}
}

func TestSimulatorValidateState(t *testing.T) {
	w := NewWorld()
	id := w.AddParticle(dynamo.NewParticle())
	blowUp := forces.GeneratorFunc(func(p *dynamo.Particle, _ float64) {
		p.AddForce(dynamo.Vector3{X: math.Inf(1)})
	})
	if _, err := w.Apply(blowUp, id); err != nil {
		t.Fatal(err)
	}

	result, err := New(w).Run(context.Background(), Config{Dt: 0.1, Duration: 1.0, ValidateState: true})
	if !errors.Is(err, dynamo.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected *SimulationError, got %T", err)
	}
	if simErr.Particle != id || simErr.Step != 0 {
		t.Errorf("error context = step %d particle %v", simErr.Step, simErr.Particle)
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 recorded error, got %d", len(result.Errors))
	}
}

type countingHook struct {
	before, after int
	lastT         float64
}

func (h *countingHook) BeforeStep(w *World, t, dt float64) { h.before++ }
func (h *countingHook) AfterStep(w *World, t, dt float64) {
	h.after++
	h.lastT = t
}

func TestSimulatorHooks(t *testing.T) {
	w, _ := fallingWorld()
	sim := New(w)
	h := &countingHook{}
	sim.AddHook(h)

	if _, err := sim.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0}); err != nil {
		t.Fatal(err)
	}
	if h.before != 10 || h.after != 10 {
		t.Errorf("hook calls before=%d after=%d, want 10 each", h.before, h.after)
	}
	if math.Abs(h.lastT-1.0) > 1e-9 {
		t.Errorf("last AfterStep time = %v", h.lastT)
	}
}

func TestSimulatorAdvance(t *testing.T) {
	w, id := fallingWorld()
	sim := New(w)
	h := &countingHook{}
	sim.AddHook(h)

	if err := sim.Advance(0.5, 0.1); err != nil {
		t.Fatal(err)
	}
	if h.before != 1 || h.after != 1 || math.Abs(h.lastT-0.6) > 1e-12 {
		t.Errorf("hooks before=%d after=%d lastT=%v", h.before, h.after, h.lastT)
	}
	p, _ := w.Particle(id)
	if math.Abs(p.Velocity().Y+0.1) > 1e-12 {
		t.Errorf("velocity after one step = %v", p.Velocity())
	}

	if err := sim.Advance(0.6, 0); !errors.Is(err, dynamo.ErrInvalidDuration) {
		t.Errorf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestSimulatorRunWithCallback(t *testing.T) {
	w, _ := fallingWorld()
	calls := 0
	err := New(w).RunWithCallback(context.Background(), Config{Dt: 0.1, Duration: 1.0}, func(*World, float64) bool {
		calls++
		return calls < 4
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 4 {
		t.Errorf("callback ran %d times, want 4", calls)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := validateConfig(cfg); err != nil {
		t.Errorf("DefaultConfig invalid: %v", err)
	}
	if Steps(cfg) != 1000 {
		t.Errorf("Steps(DefaultConfig) = %d, want 1000", Steps(cfg))
	}
}
