package world

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// Generator handles terrain generation logic.
type Generator struct {
	seed        int64
	noise       opensimplex.Noise32
	detail      opensimplex.Noise32
	scale       float32
	amp         float32
	octaves     int
	persistence float32
	lacunarity  float32
}

// NewGenerator creates a new generator with default settings.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		seed:        seed,
		noise:       opensimplex.New32(seed),
		detail:      opensimplex.New32(seed ^ 0x5DEECE66D),
		scale:       1.0 / 64.0,
		amp:         14,
		octaves:     4,
		persistence: 0.5,
		lacunarity:  2.0,
	}
}

func (g *Generator) octaveNoise(x, z float32) float32 {
	var total, norm float32
	freq, amp := float32(1), float32(1)
	for i := 0; i < g.octaves; i++ {
		total += g.noise.Eval2(x*freq, z*freq) * amp
		norm += amp
		amp *= g.persistence
		freq *= g.lacunarity
	}
	return total / norm
}

// HeightAt computes surface height (block Y) at X,Z for a map whose water
// level is waterLevel.
func (g *Generator) HeightAt(x, z, waterLevel int) int {
	n := g.octaveNoise(float32(x)*g.scale, float32(z)*g.scale)
	return waterLevel + int(math.Floor(float64(n*g.amp)))
}

// Generate fills grid with terrain: stone, dirt, a grass or sand surface,
// water up to half the map height, flowers, saplings and a few glass pillars.
func (g *Generator) Generate(grid *Grid) {
	waterLevel := grid.Height / 2
	for z := 0; z < grid.Length; z++ {
		for x := 0; x < grid.Width; x++ {
			h := g.HeightAt(x, z, waterLevel)
			h = min(max(h, 1), grid.Height-2)

			grid.Fill(x, 0, z, x, 0, z, BlockBedrock)
			grid.Fill(x, 1, z, x, h-4, z, BlockStone)
			grid.Fill(x, max(h-3, 1), z, x, h-1, z, BlockDirt)

			top := BlockGrass
			if h <= waterLevel+1 {
				top = BlockSand
			}
			grid.Fill(x, h, z, x, h, z, top)

			if h < waterLevel {
				grid.Fill(x, h+1, z, x, waterLevel, z, BlockStillWater)
				continue
			}
			if top != BlockGrass {
				continue
			}
			g.decorate(grid, x, h+1, z)
		}
	}
}

func (g *Generator) decorate(grid *Grid, x, y, z int) {
	if y >= grid.Height {
		return
	}
	d := g.detail.Eval2(float32(x)*0.9, float32(z)*0.9)
	switch {
	case d > 0.82:
		grid.Fill(x, y, z, x, y, z, BlockRose)
	case d > 0.74:
		grid.Fill(x, y, z, x, y, z, BlockDandelion)
	case d < -0.9:
		grid.Fill(x, y, z, x, y, z, BlockSapling)
	case d < -0.86 && x%7 == 0 && z%7 == 0:
		grid.Fill(x, y, z, x, y+3, z, BlockGlass)
	}
}
