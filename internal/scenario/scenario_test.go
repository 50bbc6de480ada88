package scenario

import (
	"context"
	"math"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/sim"
)

func runScenario(t *testing.T, name string, params Params, dt, duration float64) (*Scenario, *sim.Result) {
	t.Helper()
	r := NewRegistry()
	sc, err := r.Build(name, params, 1)
	if err != nil {
		t.Fatalf("build %s: %v", name, err)
	}
	sm := sc.Simulator(nil)
	for _, m := range r.DefaultMetrics() {
		sm.AddMetric(m)
	}
	res, err := sm.Run(context.Background(), sim.Config{Dt: dt, Duration: duration, ValidateState: true, SampleEvery: 10})
	if err != nil {
		t.Fatalf("run %s: %v", name, err)
	}
	return sc, res
}

func TestRegistry_BuiltinsRun(t *testing.T) {
	r := NewRegistry()
	names := r.List()
	if len(names) != 7 {
		t.Fatalf("expected 7 built-in scenarios, got %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("List not sorted: %v", names)
		}
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			if d, ok := r.Describe(name); !ok || d == "" {
				t.Errorf("missing description")
			}
			_, res := runScenario(t, name, nil, 0.01, 2)
			if res.StepsTaken != 200 {
				t.Errorf("took %d steps, want 200", res.StepsTaken)
			}
			for _, key := range []string{"energy", "energy_drift", "max_speed", "stability", "population"} {
				if _, ok := res.Metrics[key]; !ok {
					t.Errorf("metric %s missing", key)
				}
			}
		})
	}
}

func TestRegistry_Unknown(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Build("pendulum", nil, 0); err == nil {
		t.Error("expected error for unknown scenario")
	}
	if _, ok := r.Describe("pendulum"); ok {
		t.Error("Describe found an unknown scenario")
	}
}

func TestRegistry_BadParams(t *testing.T) {
	r := NewRegistry()
	bad := []struct {
		name   string
		params Params
	}{
		{"ballistic", Params{"shot": 9}},
		{"fireworks", Params{"type": 12}},
		{"fakespring", Params{"k": 1, "damping": 3}},
		{"springs", Params{"mass": -1}},
	}
	for _, tt := range bad {
		if _, err := r.Build(tt.name, tt.params, 0); err == nil {
			t.Errorf("%s %v: expected error", tt.name, tt.params)
		}
	}
}

func TestSprings_MomentumConserved(t *testing.T) {
	g := NewWithT(t)

	sc, _ := runScenario(t, "springs", Params{"damping": 1}, 0.001, 3)

	var momentum dynamo.Vector3
	sc.World.Particles().Each(func(_ dynamo.ParticleID, p *dynamo.Particle) {
		momentum.AddScaledVector(p.Velocity(), p.Mass())
	})
	g.Expect(momentum.X).To(BeNumerically("~", 0, 1e-9))
	g.Expect(momentum.Y).To(BeNumerically("~", 1, 1e-9))
}

func TestBuoyancy_Settles(t *testing.T) {
	g := NewWithT(t)

	sc, res := runScenario(t, "buoyancy", nil, 0.01, 20)
	p, ok := sc.World.Particle(sc.Names["float"])
	g.Expect(ok).To(BeTrue())

	// weight 9.81 against 20 N of full lift: 0.4905 of the band submerged
	g.Expect(p.Position().Y).To(BeNumerically("~", 0.0095, 0.05))
	g.Expect(res.Metrics["stability"]).To(Equal(1.0))
}

func TestFakeSpring_LargeStep(t *testing.T) {
	g := NewWithT(t)

	sc, _ := runScenario(t, "fakespring", nil, 0.1, 20)
	p, _ := sc.World.Particle(sc.Names["bob"])
	g.Expect(p.IsValid()).To(BeTrue())
	g.Expect(p.Position().Magnitude()).To(BeNumerically("<", 1e-3))
}

func TestDrag_SlowsProjectile(t *testing.T) {
	g := NewWithT(t)

	dragged, _ := runScenario(t, "drag", nil, 0.01, 1)
	free, _ := runScenario(t, "drag", Params{"k1": 0, "k2": 0}, 0.01, 1)

	pd, _ := dragged.World.Particle(dragged.Names["projectile"])
	pf, _ := free.World.Particle(free.Names["projectile"])
	g.Expect(pd.Position().Z).To(BeNumerically("<", pf.Position().Z))
	g.Expect(pd.Velocity().Magnitude()).To(BeNumerically("<", pf.Velocity().Magnitude()))
	g.Expect(pf.Velocity().Z).To(BeNumerically("~", 30, 1e-9))
}

func TestBungee_NeverAboveAnchorPull(t *testing.T) {
	sc, res := runScenario(t, "bungee", nil, 0.01, 10)
	p, _ := sc.World.Particle(sc.Names["jumper"])
	if y := p.Position().Y; y > 10 || y < 0 {
		t.Errorf("jumper at y=%v, want between ground and anchor", y)
	}
	for _, f := range res.Frames {
		s, _ := f.Find(sc.Names["jumper"])
		if math.Abs(s.Position.X) > 1e-12 || math.Abs(s.Position.Z) > 1e-12 {
			t.Fatalf("jumper left the vertical line at t=%v: %v", f.Time, s.Position)
		}
	}
}

func TestSweep(t *testing.T) {
	g := NewWithT(t)
	r := NewRegistry()

	sw := Sweep{
		Scenario: "springs",
		Param:    "k",
		Min:      5,
		Max:      25,
		Steps:    3,
		Config:   sim.Config{Dt: 0.01, Duration: 1},
		Parallel: 2,
	}
	g.Expect(sw.Values()).To(Equal([]float64{5, 15, 25}))

	results, err := r.RunSweep(context.Background(), sw)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(results).To(HaveLen(3))
	for i, res := range results {
		g.Expect(res.Value).To(Equal(sw.Values()[i]))
		g.Expect(res.Err).NotTo(HaveOccurred())
		g.Expect(res.StepsTaken).To(Equal(100))
		g.Expect(res.Metrics).To(HaveKey("max_speed"))
	}

	// stiffer springs swing faster
	g.Expect(results[2].Metrics["max_speed"]).To(BeNumerically(">", results[0].Metrics["max_speed"]))
}

func TestSweep_Errors(t *testing.T) {
	r := NewRegistry()
	if _, err := r.RunSweep(context.Background(), Sweep{Scenario: "springs", Steps: 2, Config: sim.DefaultConfig()}); err == nil {
		t.Error("expected error without a parameter")
	}
	_, err := r.RunSweep(context.Background(), Sweep{Scenario: "nope", Param: "k", Steps: 2, Config: sim.Config{Dt: 0.1, Duration: 1}})
	if err == nil {
		t.Error("expected error for unknown scenario")
	}
}
