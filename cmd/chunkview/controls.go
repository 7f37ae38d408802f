package main

import (
	"chunkview/internal/config"
	"chunkview/internal/physics"
	"chunkview/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	moveSpeed        = float32(8)
	fastMultiplier   = float32(4)
	mouseSensitivity = float32(0.1)
)

// nextWeather cycles sunny, rainy, snowy.
func nextWeather(w world.Weather) world.Weather {
	return (w + 1) % 3
}

// stepViewDistance doubles or halves a view distance within the allowed range.
func stepViewDistance(cur int, farther bool) int {
	next := cur / 2
	if farther {
		next = cur * 2
	}
	return min(max(next, config.MinViewDistance), config.MaxViewDistance)
}

// editor applies block edits picked with a ray from the camera.
type editor struct {
	grid     *world.Grid
	reg      *world.Registry
	selected world.BlockID
	hover    physics.RaycastResult
}

// updateHover re-casts the crosshair ray; call once per frame.
func (e *editor) updateHover(eye, dir mgl32.Vec3) {
	e.hover = e.pick(eye, dir)
}

// Hovered returns the block under the crosshair as of the last updateHover.
func (e *editor) Hovered() ([3]int, bool) {
	return e.hover.HitPosition, e.hover.Hit
}

func (e *editor) pick(eye, dir mgl32.Vec3) physics.RaycastResult {
	return physics.Raycast(eye, dir, physics.MinReachDistance, physics.MaxReachDistance, e.grid, e.reg)
}

// breakBlock clears the block under the crosshair. Bedrock stays.
func (e *editor) breakBlock(eye, dir mgl32.Vec3) bool {
	r := e.pick(eye, dir)
	if !r.Hit {
		return false
	}
	x, y, z := r.HitPosition[0], r.HitPosition[1], r.HitPosition[2]
	if e.grid.GetBlock(x, y, z) == world.BlockBedrock {
		return false
	}
	e.grid.SetBlock(x, y, z, world.BlockAir)
	return true
}

// placeBlock puts the selected block in the cell in front of the block
// under the crosshair.
func (e *editor) placeBlock(eye, dir mgl32.Vec3) bool {
	r := e.pick(eye, dir)
	if !r.Hit {
		return false
	}
	x, y, z := r.AdjacentPosition[0], r.AdjacentPosition[1], r.AdjacentPosition[2]
	if !e.grid.Contains(x, y, z) || r.AdjacentPosition == r.HitPosition {
		return false
	}
	e.grid.SetBlock(x, y, z, e.selected)
	return true
}

// pickBlock selects the block under the crosshair for placing.
func (e *editor) pickBlock(eye, dir mgl32.Vec3) bool {
	r := e.pick(eye, dir)
	if !r.Hit {
		return false
	}
	e.selected = e.grid.GetBlock(r.HitPosition[0], r.HitPosition[1], r.HitPosition[2])
	return true
}
