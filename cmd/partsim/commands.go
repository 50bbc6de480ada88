package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"runtime"
	"slices"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/partsim/internal/analysis"
	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/export"
	"github.com/san-kum/partsim/internal/logging"
	"github.com/san-kum/partsim/internal/scenario"
	"github.com/san-kum/partsim/internal/sim"
	"github.com/san-kum/partsim/internal/storage"
	"github.com/san-kum/partsim/internal/viz"
)

const maxPlots = 6

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	logger = newLogger(cmd, cfg.LogLevel)
	ctx := logging.WithRunID(cmd.Context(), "")

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	reg := scenario.NewRegistry()
	reg.SetLogger(logger)

	sc, err := reg.Build(cfg.Scenario, cfg.Params, cfg.Seed)
	if err != nil {
		return err
	}

	sm := sc.Simulator(logger)
	for _, m := range reg.DefaultMetrics() {
		sm.AddMetric(m)
	}

	fmt.Printf("running %s simulation...\n", cfg.Scenario)
	start := time.Now()

	result, runErr := sm.Run(ctx, cfg.SimConfig())
	if result == nil {
		return runErr
	}

	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunInfo{
		Scenario: cfg.Scenario,
		Seed:     cfg.Seed,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Workers:  cfg.Workers,
		Params:   cfg.Params,
	}, result)
	if err != nil {
		return err
	}
	logger.Info(ctx, "run saved", "run", runID, "dir", st.Dir())

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("frames: %d\n", len(result.Frames))
	if final, ok := result.Final(); ok {
		fmt.Printf("particles: %d\n", len(final.Particles))
	}
	fmt.Println("\nmetrics:")
	for _, name := range slices.Sorted(maps.Keys(result.Metrics)) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return runErr
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tSTEPS\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.StepsTaken,
			run.Seed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, tracks, ids, err := loadTracks(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("particles: %d\n\n", len(ids))

	if len(ids) > maxPlots {
		fmt.Printf("showing the first %d; use --particle to pick one\n\n", maxPlots)
		ids = ids[:maxPlots]
	}

	for _, id := range ids {
		data, err := storage.Component(tracks[id], component)
		if err != nil {
			return err
		}
		if len(data) < 2 {
			continue
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s %s vs time", id, component)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args[0])
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "particle", "x", "y", "z", "vx", "vy", "vz"}); err != nil {
		return err
	}

	for _, s := range samples {
		row := []string{strconv.FormatFloat(s.Time, 'f', 6, 64), s.Particle}
		for _, v := range []float64{s.Position.X, s.Position.Y, s.Position.Z, s.Velocity.X, s.Velocity.Y, s.Velocity.Z} {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args[0])
	if err != nil {
		return err
	}
	return st.ExportRun(os.Stdout, runID)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, tracks, ids, err := loadTracks(args[0])
	if err != nil {
		return err
	}

	var out string
	if braille {
		all := make([][]dynamo.Vector3, 0, len(ids))
		for _, id := range ids {
			all = append(all, positions(tracks[id]))
		}
		out = export.CanvasToSVG(export.TracksToCanvas(all, svgW/8, svgH/16), 4)
	} else {
		paths := make([]export.Path, 0, len(ids))
		for _, id := range ids {
			pts, err := export.Project(positions(tracks[id]), plane)
			if err != nil {
				return err
			}
			paths = append(paths, export.Path{Name: id, Points: pts})
		}
		out = export.TrajectoryToSVG(paths, svgW, svgH)
	}
	if out == "" {
		return fmt.Errorf("nothing to draw")
	}

	var w io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	_, err = io.WriteString(w, out)
	return err
}

func positions(track []storage.Sample) []dynamo.Vector3 {
	out := make([]dynamo.Vector3, len(track))
	for i, s := range track {
		out[i] = s.Position
	}
	return out
}

// velocityOf pairs a position component with its velocity for phase plots.
var velocityOf = map[string]string{"x": "vx", "y": "vy", "z": "vz"}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, tracks, ids, err := loadTracks(args[0])
	if err != nil {
		return err
	}
	id := ids[0]
	track := tracks[id]

	data, err := storage.Component(track, component)
	if err != nil {
		return err
	}
	if len(data) < 4 {
		return fmt.Errorf("not enough samples for %s", id)
	}
	spacing := track[1].Time - track[0].Time

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("particle: %s (%s)\n\n", id, component)

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:min(max(len(ps)/4, 2), len(ps))]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+component+")"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(data, spacing)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	if vel, ok := velocityOf[component]; ok {
		vs, _ := storage.Component(track, vel)
		fmt.Printf("\nphase portrait: %s vs %s\n", component, vel)
		fmt.Print(analysis.PhasePortraitToASCII(analysis.NewPhasePortrait(data, vs), 70, 20))

		if section {
			mean := 0.0
			for _, v := range data {
				mean += v
			}
			mean /= float64(len(data))
			fmt.Printf("\npoincaré section: %s crossing %.3f upward\n", component, mean)
			fmt.Println(analysis.PoincareSectionToASCII(analysis.NewPoincareSection(data, data, vs, mean), 70, 20))
		}
	}

	if divergence {
		reg := scenario.NewRegistry()
		build := func() (*sim.World, error) {
			sc, err := reg.Build(meta.Scenario, meta.Params, meta.Seed)
			if err != nil {
				return nil, err
			}
			return sc.World, nil
		}
		rate, err := analysis.Divergence(build, 1e-6, meta.Dt, meta.Duration)
		if err != nil {
			return err
		}
		fmt.Printf("\ndivergence rate: %.4f 1/s\n", rate)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	reg := scenario.NewRegistry()
	m, err := viz.NewModel(cfg.Scenario, liveBuilder(reg, cfg.Scenario, cfg.Params, cfg.Seed), cfg.Dt, cfg.Duration)
	if err != nil {
		return err
	}
	return viz.Run(m)
}

func listScenarios(cmd *cobra.Command, args []string) error {
	reg := scenario.NewRegistry()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tPRESETS\tDESCRIPTION")
	for _, name := range reg.List() {
		desc, _ := reg.Describe(name)
		fmt.Fprintf(w, "%s\t%d\t%s\n", name, len(config.ListPresets(name)), desc)
	}
	return w.Flush()
}

func benchScenario(cmd *cobra.Command, args []string) error {
	name := args[0]
	reg := scenario.NewRegistry()
	reg.SetLogger(logger)

	dts := []float64{0.001, 0.01, 0.1}
	pools := []int{1}
	if n := runtime.NumCPU(); n > 1 {
		pools = append(pools, n)
	}

	fmt.Printf("benchmarking %s\n\n", name)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tWORKERS\tSTEPS\tPARTICLES\tTIME\tSTEPS/SEC")

	for _, step := range dts {
		for _, n := range pools {
			sc, err := reg.Build(name, nil, 42)
			if err != nil {
				return err
			}
			sm := sc.Simulator(logger)

			start := time.Now()
			result, err := sm.Run(cmd.Context(), sim.Config{Dt: step, Duration: benchTime, Workers: n, SampleEvery: sim.Steps(sim.Config{Dt: step, Duration: benchTime})})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			particles := 0
			if final, ok := result.Final(); ok {
				particles = len(final.Particles)
			}
			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%.4fs\t%d\t%d\t%d\t%v\t%.0f\n",
				step, n, result.StepsTaken, particles, elapsed, stepsPerSec)
		}
	}

	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	logger = newLogger(cmd, cfg.LogLevel)
	ctx := logging.WithRunID(cmd.Context(), "")

	reg := scenario.NewRegistry()
	reg.SetLogger(logger)

	results, err := reg.RunSweep(ctx, scenario.Sweep{
		Scenario: cfg.Scenario,
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		Steps:    sweepSteps,
		Base:     cfg.Params,
		Seed:     cfg.Seed,
		Config:   cfg.SimConfig(),
		Parallel: sweepParallel,
	})
	if err != nil {
		return err
	}

	names := make([]string, 0)
	for _, r := range results {
		if r.Metrics != nil {
			names = slices.Sorted(maps.Keys(r.Metrics))
			break
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, sweepParam, "\tSTEPS")
	for _, n := range names {
		fmt.Fprint(w, "\t", n)
	}
	fmt.Fprintln(w, "\tERROR")

	for _, r := range results {
		fmt.Fprintf(w, "%g\t%d", r.Value, r.StepsTaken)
		for _, n := range names {
			fmt.Fprintf(w, "\t%.6g", r.Metrics[n])
		}
		errText := "-"
		if r.Err != nil {
			errText = r.Err.Error()
		}
		fmt.Fprintf(w, "\t%s\n", errText)
	}

	return w.Flush()
}
