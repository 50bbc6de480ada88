package forces_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/forces"
)

func particleAt(x, y, z float64) *dynamo.Particle {
	p := dynamo.NewParticle()
	p.SetPositionXYZ(x, y, z)
	return p
}

func forceOf(g forces.Generator, p *dynamo.Particle, duration float64) dynamo.Vector3 {
	p.ClearAccumulator()
	g.UpdateForce(p, duration)
	return p.ForceAccum()
}

var _ = Describe("Gravity", func() {
	It("scales the field by the particle mass", func() {
		p := dynamo.NewParticle()
		Expect(p.SetMass(4)).To(Succeed())

		f := forceOf(forces.NewGravity(dynamo.Gravity), p, 0.1)
		Expect(f.Y).To(BeNumerically("~", 4*dynamo.Gravity.Y, 1e-12))
		Expect(f.X).To(BeZero())
		Expect(f.Z).To(BeZero())
	})

	It("skips immovable particles", func() {
		p := &dynamo.Particle{}
		Expect(forceOf(forces.NewGravity(dynamo.Gravity), p, 0.1).IsZero()).To(BeTrue())
	})

	It("gives v = g*d after one step from rest", func() {
		p := dynamo.NewParticle()
		Expect(p.SetMass(2.5)).To(Succeed())
		g := forces.NewGravity(dynamo.Vector3{Y: -10})

		g.UpdateForce(p, 0.2)
		Expect(p.Integrate(0.2)).To(Succeed())
		Expect(p.Velocity().Y).To(BeNumerically("~", -2, 1e-12))
	})
})

var _ = Describe("Drag", func() {
	It("opposes velocity with k1*|v| + k2*|v|^2", func() {
		p := dynamo.NewParticle()
		p.SetVelocityXYZ(3, 4, 0)

		f := forceOf(forces.NewDrag(1, 0.5), p, 0.1)
		Expect(f.X).To(BeNumerically("~", -10.5, 1e-12))
		Expect(f.Y).To(BeNumerically("~", -14, 1e-12))
		Expect(f.Z).To(BeZero())
	})

	It("adds nothing at rest", func() {
		f := forceOf(forces.NewDrag(1, 1), dynamo.NewParticle(), 0.1)
		Expect(f.IsZero()).To(BeTrue())
		Expect(f.IsValid()).To(BeTrue())
	})
})

var _ = Describe("Spring", func() {
	var (
		set    *dynamo.ParticleSet
		a, b   *dynamo.Particle
		ia, ib dynamo.ParticleID
	)

	BeforeEach(func() {
		set = dynamo.NewParticleSet()
		a = particleAt(0, 0, 0)
		b = particleAt(2, 0, 0)
		ia, ib = set.Add(a), set.Add(b)
	})

	It("pulls stretched ends together", func() {
		fa := forceOf(forces.NewSpring(set, ib, 10, 1), a, 0.1)
		fb := forceOf(forces.NewSpring(set, ia, 10, 1), b, 0.1)

		Expect(fa.Magnitude()).To(BeNumerically("~", 10, 1e-12))
		Expect(fb.Magnitude()).To(BeNumerically("~", 10, 1e-12))
		Expect(fa.X).To(BeNumerically(">", 0))
		Expect(fb.X).To(BeNumerically("<", 0))
		Expect(fa.Add(fb).IsZero()).To(BeTrue())
	})

	It("pushes compressed ends apart", func() {
		f := forceOf(forces.NewSpring(set, ib, 10, 3), a, 0.1)
		Expect(f.X).To(BeNumerically("~", -10, 1e-12))
	})

	It("is silent at rest length", func() {
		f := forceOf(forces.NewSpring(set, ib, 10, 2), a, 0.1)
		Expect(f.Magnitude()).To(BeNumerically("<", 1e-12))
	})

	It("adds nothing when both ends coincide", func() {
		id := set.Add(particleAt(0, 0, 0))
		f := forceOf(forces.NewSpring(set, id, 10, 1), a, 0.1)
		Expect(f.IsZero()).To(BeTrue())
	})

	It("goes slack once the other end is removed", func() {
		s := forces.NewSpring(set, ib, 10, 1)
		Expect(set.Remove(ib)).To(BeTrue())
		Expect(forceOf(s, a, 0.1).IsZero()).To(BeTrue())

		// a new particle in the freed slot is not the old end
		set.Add(particleAt(5, 0, 0))
		Expect(forceOf(s, a, 0.1).IsZero()).To(BeTrue())
	})
})

var _ = Describe("AnchoredSpring", func() {
	It("follows the shared anchor", func() {
		anchor := dynamo.Vector3{Y: 5}
		s := forces.NewAnchoredSpring(&anchor, 2, 1)
		p := particleAt(0, 0, 0)

		Expect(forceOf(s, p, 0.1).Y).To(BeNumerically("~", 8, 1e-12))

		anchor.Y = -3
		Expect(forceOf(s, p, 0.1).Y).To(BeNumerically("~", -4, 1e-12))
	})
})

var _ = Describe("Bungee", func() {
	var set *dynamo.ParticleSet

	BeforeEach(func() {
		set = dynamo.NewParticleSet()
	})

	It("is exactly zero at rest length", func() {
		other := set.Add(particleAt(1, 0, 0))
		f := forceOf(forces.NewBungee(set, other, 5, 1), particleAt(0, 0, 0), 0.1)
		Expect(f).To(Equal(dynamo.Vector3{}))
	})

	It("never pushes when slack", func() {
		other := set.Add(particleAt(0.25, 0, 0))
		f := forceOf(forces.NewBungee(set, other, 5, 1), particleAt(0, 0, 0), 0.1)
		Expect(f).To(Equal(dynamo.Vector3{}))
	})

	It("pulls harder as it stretches", func() {
		p := particleAt(0, 0, 0)
		last := 0.0
		for _, d := range []float64{1.25, 1.5, 2, 3, 10} {
			other := set.Add(particleAt(d, 0, 0))
			f := forceOf(forces.NewBungee(set, other, 5, 1), p, 0.1)
			Expect(f.X).To(BeNumerically(">", last))
			Expect(f.X).To(BeNumerically("~", 5*(d-1), 1e-12))
			last = f.X
		}
	})

	It("adds nothing once the other end is removed", func() {
		other := set.Add(particleAt(3, 0, 0))
		b := forces.NewBungee(set, other, 5, 1)
		Expect(forceOf(b, particleAt(0, 0, 0), 0.1).X).To(BeNumerically("~", 10, 1e-12))

		set.Remove(other)
		Expect(forceOf(b, particleAt(0, 0, 0), 0.1).IsZero()).To(BeTrue())
	})
})

var _ = Describe("AnchoredBungee", func() {
	It("matches the bungee law against a fixed point", func() {
		anchor := dynamo.Vector3{}
		b := forces.NewAnchoredBungee(&anchor, 4, 2)

		Expect(forceOf(b, particleAt(0, -2, 0), 0.1)).To(Equal(dynamo.Vector3{}))
		Expect(forceOf(b, particleAt(0, -1, 0), 0.1)).To(Equal(dynamo.Vector3{}))
		Expect(forceOf(b, particleAt(0, -3, 0), 0.1).Y).To(BeNumerically("~", 4, 1e-12))
	})
})

var _ = Describe("Buoyancy", func() {
	var b *forces.Buoyancy

	BeforeEach(func() {
		b = forces.NewBuoyancy(1, 0.1, 0, forces.DefaultLiquidDensity)
	})

	DescribeTable("lift by height",
		func(y, want float64) {
			f := forceOf(b, particleAt(3, y, -2), 0.1)
			Expect(f.Y).To(BeNumerically("~", want, 1e-9))
			Expect(f.X).To(BeZero())
			Expect(f.Z).To(BeZero())
		},
		Entry("deep below", -5.0, 100.0),
		Entry("at max depth", -1.0, 100.0),
		Entry("half way down", -0.5, 75.0),
		Entry("at the surface", 0.0, 50.0),
		Entry("half way out", 0.5, 25.0),
		Entry("at max height", 1.0, 0.0),
		Entry("in the air", 4.0, 0.0),
	)

	It("gives half the full force at the surface", func() {
		full := b.LiquidDensity * b.Volume
		Expect(forceOf(b, particleAt(0, b.WaterHeight, 0), 0.1).Y).To(BeNumerically("~", full/2, 1e-12))
	})
})

var _ = Describe("FakeSpring", func() {
	var anchor dynamo.Vector3

	BeforeEach(func() {
		anchor = dynamo.Vector3{}
	})

	It("adds nothing when not underdamped", func() {
		p := particleAt(1, 0, 0)
		Expect(forceOf(forces.NewFakeSpring(&anchor, 1, 2), p, 0.1).IsZero()).To(BeTrue())
		Expect(forceOf(forces.NewFakeSpring(&anchor, 1, 3), p, 0.1).IsZero()).To(BeTrue())
	})

	It("adds nothing for a non-positive duration", func() {
		p := particleAt(1, 0, 0)
		s := forces.NewFakeSpring(&anchor, 10, 1)
		Expect(forceOf(s, p, 0).IsZero()).To(BeTrue())
		Expect(forceOf(s, p, -1).IsZero()).To(BeTrue())
	})

	It("skips immovable particles", func() {
		p := &dynamo.Particle{}
		p.SetPositionXYZ(1, 0, 0)
		Expect(forceOf(forces.NewFakeSpring(&anchor, 10, 1), p, 0.1).IsZero()).To(BeTrue())
	})

	It("solves one step of the sampled oscillator", func() {
		p := particleAt(1, 0, 0)
		p.SetVelocityXYZ(0.5, 0, 0)

		f := forceOf(forces.NewFakeSpring(&anchor, 10, 1), p, 0.1)
		Expect(f.X).To(BeNumerically("~", -10.38490762791045, 1e-9))
		Expect(f.Y).To(BeZero())
		Expect(f.Z).To(BeZero())

		Expect(p.SetMass(2)).To(Succeed())
		f = forceOf(forces.NewFakeSpring(&anchor, 10, 1), p, 0.1)
		Expect(f.X).To(BeNumerically("~", -20.7698152558209, 1e-9))
	})

	It("tracks the damped oscillator at small steps", func() {
		k, c, dt := 10.0, 1.0, 0.001
		s := forces.NewFakeSpring(&anchor, k, c)
		p := particleAt(1, 0, 0)

		for i := 0; i < 1000; i++ {
			s.UpdateForce(p, dt)
			Expect(p.Integrate(dt)).To(Succeed())
		}

		gamma := 0.5 * math.Sqrt(4*k-c*c)
		want := math.Exp(-0.5*c) * (math.Cos(gamma) + c/(2*gamma)*math.Sin(gamma))
		Expect(p.Position().X).To(BeNumerically("~", want, 1e-3))
	})

	It("stays stable where a Hooke spring diverges", func() {
		k, c, dt := 1000.0, 2.0, 0.1

		fake := particleAt(1, 0, 0)
		hooke := particleAt(1, 0, 0)
		fs := forces.NewFakeSpring(&anchor, k, c)
		hs := forces.NewAnchoredSpring(&anchor, k, 0)

		for i := 0; i < 200; i++ {
			fs.UpdateForce(fake, dt)
			hs.UpdateForce(hooke, dt)
			Expect(fake.Integrate(dt)).To(Succeed())
			Expect(hooke.Integrate(dt)).To(Succeed())
			Expect(fake.Position().Magnitude()).To(BeNumerically("<", 10))
		}

		Expect(fake.Position().Magnitude()).To(BeNumerically("<", 1e-3))
		Expect(hooke.IsValid() && hooke.Position().Magnitude() < 10).To(BeFalse())
	})
})
