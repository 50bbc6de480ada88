package scenario

import (
	"context"
	"fmt"
	"maps"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/partsim/internal/sim"
)

// Sweep runs one scenario across evenly spaced values of a single parameter.
type Sweep struct {
	Scenario string
	Param    string
	Min      float64
	Max      float64
	Steps    int
	Base     Params
	Seed     int64
	Config   sim.Config
	// Parallel bounds concurrent runs; 0 means one at a time.
	Parallel int
}

type SweepResult struct {
	Value      float64
	Metrics    map[string]float64
	StepsTaken int
	Err        error
}

// Values lists the parameter values the sweep visits.
func (s Sweep) Values() []float64 {
	if s.Steps <= 1 {
		return []float64{s.Min}
	}
	step := (s.Max - s.Min) / float64(s.Steps-1)
	out := make([]float64, s.Steps)
	for i := range out {
		out[i] = s.Min + float64(i)*step
	}
	return out
}

// RunSweep builds and runs the scenario once per value. A run that fails
// records its error in the result; only build errors and cancellation stop
// the sweep.
func (r *Registry) RunSweep(ctx context.Context, sw Sweep) ([]SweepResult, error) {
	if sw.Param == "" {
		return nil, fmt.Errorf("sweep needs a parameter name")
	}

	values := sw.Values()
	results := make([]SweepResult, len(values))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(sw.Parallel, 1))

	for i, v := range values {
		g.Go(func() error {
			params := Params{}
			maps.Copy(params, sw.Base)
			params[sw.Param] = v

			sc, err := r.Build(sw.Scenario, params, sw.Seed)
			if err != nil {
				return fmt.Errorf("%s=%g: %w", sw.Param, v, err)
			}

			sm := sc.Simulator(r.log)
			for _, m := range r.DefaultMetrics() {
				sm.AddMetric(m)
			}

			res, runErr := sm.Run(ctx, sw.Config)
			results[i] = SweepResult{Value: v, Err: runErr}
			if res != nil {
				results[i].Metrics = res.Metrics
				results[i].StepsTaken = res.StepsTaken
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.log.Info(ctx, "sweep point done", "param", sw.Param, "value", v, "steps", results[i].StepsTaken)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
