package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/logging"
	"github.com/san-kum/partsim/internal/storage"
)

// newLogger picks the level from --log-level when set, then
// PARTSIM_LOG_LEVEL, then the config file, then the flag default.
func newLogger(cmd *cobra.Command, fromConfig string) *logging.Logger {
	name := logLevel
	if !cmd.Flags().Changed("log-level") {
		if env := os.Getenv(logging.EnvLevel); env != "" {
			name = env
		} else if fromConfig != "" {
			name = fromConfig
		}
	}
	level, ok := logging.ParseLevel(name)
	if !ok {
		level = slog.LevelWarn
	}
	return logging.New(os.Stderr, logging.Options{Level: level, JSON: logJSON})
}

// parseParams turns key=value pairs into scenario parameters.
func parseParams(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		key, val, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("parameter %q: want key=value", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", pair, err)
		}
		out[key] = v
	}
	return out, nil
}

// resolveConfig layers defaults, the config file, a preset, then flags the
// user actually set. The scenario argument beats the file's scenario.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.Scenario = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scenario, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scenario))
		}
		cfg.Merge(p)
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("sample") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}

	overrides, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	for k, v := range overrides {
		cfg.Params[k] = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveRun accepts "latest" for the newest run.
func resolveRun(st *storage.Store, arg string) (string, error) {
	if arg == "latest" {
		return st.Latest()
	}
	return arg, nil
}

// loadTracks loads a run and picks the particles to show: the one named by
// --particle, or all of them.
func loadTracks(arg string) (*storage.RunMetadata, map[string][]storage.Sample, []string, error) {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, arg)
	if err != nil {
		return nil, nil, nil, err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	samples, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, nil, fmt.Errorf("run %s has no samples", runID)
	}

	ids := storage.Particles(samples)
	if particle != "" {
		found := false
		for _, id := range ids {
			if id == particle {
				found = true
				break
			}
		}
		if !found {
			return nil, nil, nil, fmt.Errorf("particle %s not in run %s (have %v)", particle, runID, ids)
		}
		ids = []string{particle}
	}

	tracks := make(map[string][]storage.Sample, len(ids))
	for _, id := range ids {
		tracks[id] = storage.Track(samples, id)
	}
	return meta, tracks, ids, nil
}
