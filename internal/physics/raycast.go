package physics

import (
	"math"

	"chunkview/internal/profiling"
	"chunkview/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	MinReachDistance = 0.1
	MaxReachDistance = 6.0

	stepSize = float32(0.02)
)

// Blocks is the block lookup a ray is cast through.
type Blocks interface {
	SafeGetBlock(x, y, z int) world.BlockID
}

// RaycastResult stores the result of a raycast operation
type RaycastResult struct {
	HitPosition      [3]int
	AdjacentPosition [3]int
	Distance         float32
	Hit              bool
}

// pickable reports whether a ray stops at a block. Air and liquids are
// passed through.
func pickable(reg *world.Registry, id world.BlockID) bool {
	switch reg.Draw(id) {
	case world.DrawGas, world.DrawTranslucent:
		return false
	}
	return true
}

// Raycast steps along a ray from start in a given direction and returns the
// first pickable block and the empty cell the ray passed through before it.
// Block (x, y, z) occupies [x, x+1) on every axis.
func Raycast(start, direction mgl32.Vec3, minDist, maxDist float32, blocks Blocks, reg *world.Registry) RaycastResult {
	defer profiling.Track("physics.Raycast")()
	steps := int(maxDist / stepSize)

	lastEmptyPos := cell(start)
	result := RaycastResult{Hit: false}

	for i := 0; i <= steps; i++ {
		dist := float32(i) * stepSize
		if dist < minDist {
			continue
		}

		pos := start.Add(direction.Mul(dist))
		blockPos := cell(pos)

		if pickable(reg, blocks.SafeGetBlock(blockPos[0], blockPos[1], blockPos[2])) {
			result.HitPosition = blockPos
			result.AdjacentPosition = lastEmptyPos
			result.Distance = dist
			result.Hit = true
			return result
		}

		lastEmptyPos = blockPos
	}

	return result
}

func cell(p mgl32.Vec3) [3]int {
	return [3]int{
		int(math.Floor(float64(p.X()))),
		int(math.Floor(float64(p.Y()))),
		int(math.Floor(float64(p.Z()))),
	}
}
