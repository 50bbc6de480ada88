package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/san-kum/partsim/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

// RunInfo describes how a run was configured.
type RunInfo struct {
	Scenario string
	Seed     int64
	Dt       float64
	Duration float64
	Workers  int
	Params   map[string]float64
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scenario   string             `json:"scenario"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Workers    int                `json:"workers,omitempty"`
	StepsTaken int                `json:"steps_taken"`
	Frames     int                `json:"frames"`
	Params     map[string]float64 `json:"params,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

// runName turns a scenario name or scenario file path into a directory
// friendly prefix.
func runName(scenario string) string {
	base := filepath.Base(scenario)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, base)
	if base == "" {
		return "run"
	}
	return base
}

// Save writes metadata.json and trajectory.csv into a fresh run directory
// and returns the run id.
func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	now := time.Now()
	prefix := fmt.Sprintf("%s_%d", runName(info.Scenario), now.Unix())
	runID := prefix
	for i := 1; ; i++ {
		if _, err := os.Stat(filepath.Join(s.baseDir, runID)); os.IsNotExist(err) {
			break
		}
		runID = fmt.Sprintf("%s_%d", prefix, i)
	}
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Scenario:   info.Scenario,
		Timestamp:  now,
		Seed:       info.Seed,
		Dt:         info.Dt,
		Duration:   info.Duration,
		Workers:    info.Workers,
		StepsTaken: result.StepsTaken,
		Frames:     len(result.Frames),
		Params:     info.Params,
		Metrics:    result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadTrajectory reads the per-particle samples of a run.
func (s *Store) LoadTrajectory(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}

// Latest returns the id of the most recent run.
func (s *Store) Latest() (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("no runs in %s", s.baseDir)
	}
	return runs[len(runs)-1].ID, nil
}
