package forces

import "github.com/san-kum/partsim/internal/dynamo"

// DefaultLiquidDensity is pure water in kg/m^3.
const DefaultLiquidDensity = 1000.0

// Buoyancy lifts a particle out of a liquid whose surface is the plane
// y = WaterHeight. The particle is treated as fully submerged at
// WaterHeight-MaxDepth and fully out at WaterHeight+MaxDepth, with the force
// falling linearly in between.
type Buoyancy struct {
	MaxDepth      float64
	Volume        float64
	WaterHeight   float64
	LiquidDensity float64
}

func NewBuoyancy(maxDepth, volume, waterHeight, liquidDensity float64) *Buoyancy {
	return &Buoyancy{
		MaxDepth:      maxDepth,
		Volume:        volume,
		WaterHeight:   waterHeight,
		LiquidDensity: liquidDensity,
	}
}

func (b *Buoyancy) UpdateForce(p *dynamo.Particle, _ float64) {
	depth := p.Position().Y

	if depth >= b.WaterHeight+b.MaxDepth {
		return
	}

	full := b.LiquidDensity * b.Volume
	if depth <= b.WaterHeight-b.MaxDepth {
		p.AddForce(dynamo.Vector3{Y: full})
		return
	}

	submerged := (b.WaterHeight + b.MaxDepth - depth) / (2 * b.MaxDepth)
	p.AddForce(dynamo.Vector3{Y: full * submerged})
}
