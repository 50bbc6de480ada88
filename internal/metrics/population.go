package metrics

import "github.com/san-kum/partsim/internal/sim"

// Population is the mean number of live particles per step.
type Population struct {
	name    string
	sum     float64
	peak    int
	samples int
}

func NewPopulation() *Population {
	return &Population{
		name: "population",
	}
}

func (p *Population) Name() string {
	return p.name
}

func (p *Population) Observe(w *sim.World, t float64) {
	n := w.Len()
	p.sum += float64(n)
	p.peak = max(p.peak, n)
	p.samples++
}

func (p *Population) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.sum / float64(p.samples)
}

func (p *Population) Peak() int { return p.peak }

func (p *Population) Reset() {
	p.sum = 0
	p.peak = 0
	p.samples = 0
}
