package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/logging"
	"github.com/san-kum/partsim/internal/scenario"
	"github.com/san-kum/partsim/internal/sim"
	"github.com/san-kum/partsim/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logJSON  bool

	dt          float64
	duration    float64
	seed        int64
	workers     int
	sampleEvery int
	configFile  string
	preset      string
	params      []string

	particle  string
	component string

	plane   string
	svgW    int
	svgH    int
	outPath string
	braille bool

	benchTime float64

	divergence bool
	section    bool

	sweepParam    string
	sweepMin      float64
	sweepMax      float64
	sweepSteps    int
	sweepParallel int

	logger = logging.Discard()
)

// main registers commands and flags, opens the scenario picker when no
// subcommand is given, and exits 1 when a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "partsim",
		Short:         "particle dynamics simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = newLogger(cmd, "")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPicker()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".partsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")

	runCmd := &cobra.Command{
		Use:   "run [scenario|file.yaml]",
		Short: "run a scenario and save the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	simFlags(runCmd)
	runCmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "integration workers")
	runCmd.Flags().IntVar(&sampleEvery, "sample", config.DefaultSampleEvery, "record a frame every n steps")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id|latest]",
		Short: "plot particle trajectories",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	trackFlags(plotCmd)

	exportCmd := &cobra.Command{
		Use:   "export [run_id|latest]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id|latest]",
		Short: "export trajectory to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id|latest]",
		Short: "export run and trajectory to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id|latest]",
		Short: "draw particle paths as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&plane, "plane", "xy", "projection plane (xy, xz, zy, ...)")
	exportSVGCmd.Flags().IntVar(&svgW, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgH, "height", 600, "image height")
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().BoolVar(&braille, "braille", false, "render through the 3D braille canvas")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id|latest]",
		Short: "frequency and phase analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	trackFlags(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&divergence, "divergence", false, "estimate divergence of nearby starts")
	analyzeCmd.Flags().BoolVar(&section, "section", false, "show a Poincaré section through the mean")

	liveCmd := &cobra.Command{
		Use:   "live [scenario|file.yaml]",
		Short: "run a scenario with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	simFlags(liveCmd)

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list built-in scenarios",
		RunE:  listScenarios,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scenario: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "benchmark a scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  benchScenario,
	}
	benchCmd.Flags().Float64Var(&benchTime, "time", 2.0, "simulated seconds per run")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "run a scenario across a range of one parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	simFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "sweep", "", "parameter to vary")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&sweepParallel, "parallel", 1, "concurrent runs")
	_ = sweepCmd.MarkFlagRequired("sweep")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd,
		analyzeCmd, liveCmd, scenariosCmd, presetsCmd, benchCmd, sweepCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// simFlags adds the flags shared by commands that build and step a
// scenario.
func simFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "scenario parameter as key=value (repeatable)")
}

func trackFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&particle, "particle", "", "particle id (default: all, or the first for analyze)")
	cmd.Flags().StringVar(&component, "component", "y", "x, y, z, vx, vy, vz or speed")
}

func runPicker() error {
	reg := scenario.NewRegistry()
	entries := make([]viz.Entry, 0)
	for _, name := range reg.List() {
		desc, _ := reg.Describe(name)
		e := viz.Entry{Name: name, Description: desc, Params: map[string]float64{}}
		if names := config.ListPresets(name); len(names) > 0 {
			if p := config.GetPreset(name, names[0]); p != nil {
				e.Params = maps.Clone(p.Params)
			}
		}
		entries = append(entries, e)
	}

	launch := func(name string, p map[string]float64) viz.Builder {
		return liveBuilder(reg, name, p, time.Now().UnixNano())
	}
	return viz.RunPicker(entries, launch)
}

// liveBuilder builds with a silent logger; the alt screen owns the
// terminal.
func liveBuilder(reg *scenario.Registry, name string, p map[string]float64, seed int64) viz.Builder {
	return func() (*sim.Simulator, error) {
		sc, err := reg.Build(name, p, seed)
		if err != nil {
			return nil, err
		}
		return sc.Simulator(logging.Discard()), nil
	}
}
