package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/sim"
)

var csvHeader = []string{"time", "particle", "x", "y", "z", "vx", "vy", "vz"}

// Sample is one particle at one recorded instant.
type Sample struct {
	Time     float64
	Particle string
	Position dynamo.Vector3
	Velocity dynamo.Vector3
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteCSV writes one row per particle per frame.
func WriteCSV(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, f := range result.Frames {
		t := formatFloat(f.Time)
		for _, s := range f.Particles {
			row := []string{
				t, s.ID.String(),
				formatFloat(s.Position.X), formatFloat(s.Position.Y), formatFloat(s.Position.Z),
				formatFloat(s.Velocity.X), formatFloat(s.Velocity.Y), formatFloat(s.Velocity.Z),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// ReadCSV parses rows written by WriteCSV.
func ReadCSV(in io.Reader) ([]Sample, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(csvHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		var vals [7]float64
		for j, col := range []int{0, 2, 3, 4, 5, 6, 7} {
			v, err := strconv.ParseFloat(record[col], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i+1, csvHeader[col], err)
			}
			vals[j] = v
		}
		samples = append(samples, Sample{
			Time:     vals[0],
			Particle: record[1],
			Position: dynamo.Vector3{X: vals[1], Y: vals[2], Z: vals[3]},
			Velocity: dynamo.Vector3{X: vals[4], Y: vals[5], Z: vals[6]},
		})
	}

	return samples, nil
}

// Particles lists particle ids in order of first appearance.
func Particles(samples []Sample) []string {
	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, s := range samples {
		if !seen[s.Particle] {
			seen[s.Particle] = true
			ids = append(ids, s.Particle)
		}
	}
	return ids
}

// Track returns the samples of one particle in time order.
func Track(samples []Sample, particle string) []Sample {
	out := make([]Sample, 0)
	for _, s := range samples {
		if s.Particle == particle {
			out = append(out, s)
		}
	}
	return out
}

// Component extracts a named column from a track: x, y, z, vx, vy, vz or
// speed.
func Component(track []Sample, name string) ([]float64, error) {
	pick, ok := components[name]
	if !ok {
		return nil, fmt.Errorf("unknown component %q", name)
	}
	out := make([]float64, len(track))
	for i, s := range track {
		out[i] = pick(s)
	}
	return out, nil
}

var components = map[string]func(Sample) float64{
	"x":     func(s Sample) float64 { return s.Position.X },
	"y":     func(s Sample) float64 { return s.Position.Y },
	"z":     func(s Sample) float64 { return s.Position.Z },
	"vx":    func(s Sample) float64 { return s.Velocity.X },
	"vy":    func(s Sample) float64 { return s.Velocity.Y },
	"vz":    func(s Sample) float64 { return s.Velocity.Z },
	"speed": func(s Sample) float64 { return s.Velocity.Magnitude() },
}
