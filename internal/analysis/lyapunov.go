package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/sim"
)

// Divergence estimates the largest Lyapunov exponent of a world by the
// trajectory separation method. build must return identical worlds on each
// call; the second copy has its first movable particle shifted along x by
// perturbation. Per-step hooks are not run, so particles spawned by a
// scenario do not appear.
//
// λ ≈ (1/t) * ln(|δx(t)/δx(0)|)
func Divergence(build func() (*sim.World, error), perturbation, dt, duration float64) (float64, error) {
	if perturbation <= 0 || dt <= 0 || duration < dt {
		return 0, fmt.Errorf("divergence: bad perturbation %v, dt %v or duration %v", perturbation, dt, duration)
	}

	base, err := build()
	if err != nil {
		return 0, err
	}
	shadow, err := build()
	if err != nil {
		return 0, err
	}
	if !perturb(shadow, perturbation) {
		return 0, fmt.Errorf("divergence: no movable particle to perturb")
	}

	d0 := perturbation
	sumLog := 0.0
	count := 0

	steps := int(duration/dt + 1e-9)
	for i := 0; i < steps; i++ {
		if err := base.Step(dt); err != nil {
			return 0, err
		}
		if err := shadow.Step(dt); err != nil {
			return 0, err
		}

		sep := separation(base, shadow)
		if math.IsNaN(sep) || math.IsInf(sep, 0) {
			break
		}

		if sep > 0 {
			sumLog += math.Log(sep / d0)
			count++
		}

		// Renormalize to keep the shadow in the linear regime
		if sep > 1.0 {
			rescale(base, shadow, d0/sep)
		}
	}

	if count == 0 {
		return 0, nil
	}

	return sumLog / (float64(count) * dt), nil
}

func perturb(w *sim.World, by float64) bool {
	for _, id := range w.Particles().IDs() {
		p, _ := w.Particle(id)
		if p.HasFiniteMass() {
			pos := p.Position()
			pos.X += by
			p.SetPosition(pos)
			return true
		}
	}
	return false
}

// pairs walks both worlds slot by slot. Identical builds give identical
// slot layouts.
func pairs(a, b *sim.World, fn func(pa, pb *dynamo.Particle)) {
	n := min(a.Particles().Cap(), b.Particles().Cap())
	for i := 0; i < n; i++ {
		pa, pb := a.Particles().At(i), b.Particles().At(i)
		if pa == nil || pb == nil {
			continue
		}
		fn(pa, pb)
	}
}

func separation(a, b *sim.World) float64 {
	sum := 0.0
	pairs(a, b, func(pa, pb *dynamo.Particle) {
		sum += pb.Position().Sub(pa.Position()).SquareMagnitude()
		sum += pb.Velocity().Sub(pa.Velocity()).SquareMagnitude()
	})
	return math.Sqrt(sum)
}

func rescale(a, b *sim.World, scale float64) {
	pairs(a, b, func(pa, pb *dynamo.Particle) {
		pb.SetPosition(pa.Position().Add(pb.Position().Sub(pa.Position()).Scale(scale)))
		pb.SetVelocity(pa.Velocity().Add(pb.Velocity().Sub(pa.Velocity()).Scale(scale)))
	})
}
