package world

import (
	"errors"
	"fmt"
	"math"

	"chunkview/internal/event"

	"github.com/google/uuid"
)

// ErrBadDimensions is returned for grids with a non positive or oversized volume.
var ErrBadDimensions = errors.New("world: bad dimensions")

// Grid is a fixed size block volume. Coordinates run from 0 to the
// dimension minus one on each axis.
type Grid struct {
	Width, Height, Length int
	UUID                  uuid.UUID

	blocks []BlockID
	bus    *event.Bus
}

// NewGrid allocates an all-air grid with a fresh UUID.
func NewGrid(width, height, length int) (*Grid, error) {
	if width <= 0 || height <= 0 || length <= 0 {
		return nil, fmt.Errorf("%w: %dx%dx%d", ErrBadDimensions, width, height, length)
	}
	volume := int64(width) * int64(height) * int64(length)
	if volume > math.MaxInt32 {
		return nil, fmt.Errorf("%w: volume %d too large", ErrBadDimensions, volume)
	}
	return &Grid{
		Width:  width,
		Height: height,
		Length: length,
		UUID:   uuid.New(),
		blocks: make([]BlockID, volume),
	}, nil
}

// Attach makes SetBlock raise BlockChanged on bus.
func (g *Grid) Attach(bus *event.Bus) {
	g.bus = bus
}

func (g *Grid) index(x, y, z int) int {
	return (y*g.Length+z)*g.Width + x
}

// Contains reports whether the coordinate lies inside the grid.
func (g *Grid) Contains(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < g.Width && y < g.Height && z < g.Length
}

// ContainsXZ reports whether the column lies inside the grid.
func (g *Grid) ContainsXZ(x, z int) bool {
	return x >= 0 && z >= 0 && x < g.Width && z < g.Length
}

// GetBlock returns the block at a coordinate that must be inside the grid.
func (g *Grid) GetBlock(x, y, z int) BlockID {
	return g.blocks[g.index(x, y, z)]
}

// SafeGetBlock returns air for coordinates outside the grid.
func (g *Grid) SafeGetBlock(x, y, z int) BlockID {
	if !g.Contains(x, y, z) {
		return BlockAir
	}
	return g.blocks[g.index(x, y, z)]
}

// SetBlock changes a block and notifies listeners when the value changed.
// Coordinates outside the grid are ignored.
func (g *Grid) SetBlock(x, y, z int, id BlockID) {
	if !g.Contains(x, y, z) {
		return
	}
	i := g.index(x, y, z)
	if g.blocks[i] == id {
		return
	}
	g.blocks[i] = id
	if g.bus != nil {
		g.bus.BlockChanged.Raise(x, y, z)
	}
}

// Fill sets every block in the inclusive box without raising events. Used
// while generating, before the map is handed to the renderers.
func (g *Grid) Fill(x0, y0, z0, x1, y1, z1 int, id BlockID) {
	x0, y0, z0 = max(x0, 0), max(y0, 0), max(z0, 0)
	x1, y1, z1 = min(x1, g.Width-1), min(y1, g.Height-1), min(z1, g.Length-1)
	for y := y0; y <= y1; y++ {
		for z := z0; z <= z1; z++ {
			for x := x0; x <= x1; x++ {
				g.blocks[g.index(x, y, z)] = id
			}
		}
	}
}

// Volume returns the number of blocks in the grid.
func (g *Grid) Volume() int {
	return len(g.blocks)
}

// Dimensions returns the width, height and length of the grid.
func (g *Grid) Dimensions() (width, height, length int) {
	return g.Width, g.Height, g.Length
}
