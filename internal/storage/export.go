package storage

import (
	"encoding/json"
	"io"
)

type ExportParticle struct {
	Particle string       `json:"particle"`
	Times    []float64    `json:"times"`
	Position [][3]float64 `json:"position"`
	Velocity [][3]float64 `json:"velocity"`
}

type ExportData struct {
	Run       RunMetadata      `json:"run"`
	Particles []ExportParticle `json:"particles"`
}

// NewExport groups samples by particle.
func NewExport(meta RunMetadata, samples []Sample) ExportData {
	data := ExportData{Run: meta, Particles: make([]ExportParticle, 0)}
	for _, id := range Particles(samples) {
		track := Track(samples, id)
		p := ExportParticle{
			Particle: id,
			Times:    make([]float64, len(track)),
			Position: make([][3]float64, len(track)),
			Velocity: make([][3]float64, len(track)),
		}
		for i, s := range track {
			p.Times[i] = s.Time
			p.Position[i] = [3]float64{s.Position.X, s.Position.Y, s.Position.Z}
			p.Velocity[i] = [3]float64{s.Velocity.X, s.Velocity.Y, s.Velocity.Z}
		}
		data.Particles = append(data.Particles, p)
	}
	return data
}

func ExportJSON(w io.Writer, meta RunMetadata, samples []Sample) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExport(meta, samples))
}

// ExportRun writes a stored run as JSON.
func (s *Store) ExportRun(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	return ExportJSON(w, *meta, samples)
}
