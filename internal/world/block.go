package world

import "chunkview/internal/event"

// BlockID identifies a block type stored in the grid.
type BlockID uint16

// MaxBlocks is the number of block ids a Registry can describe.
const MaxBlocks = 256

const (
	BlockAir        BlockID = 0
	BlockStone      BlockID = 1
	BlockGrass      BlockID = 2
	BlockDirt       BlockID = 3
	BlockCobble     BlockID = 4
	BlockWood       BlockID = 5
	BlockSapling    BlockID = 6
	BlockBedrock    BlockID = 7
	BlockWater      BlockID = 8
	BlockStillWater BlockID = 9
	BlockSand       BlockID = 12
	BlockGravel     BlockID = 13
	BlockLog        BlockID = 17
	BlockLeaves     BlockID = 18
	BlockGlass      BlockID = 20
	BlockDandelion  BlockID = 37
	BlockRose       BlockID = 38
)

// DrawType controls how a block is meshed and in which pass it is drawn.
type DrawType uint8

const (
	DrawOpaque DrawType = iota
	// DrawTransparent blocks are alpha tested (glass). Faces shared with the
	// same block are hidden.
	DrawTransparent
	// DrawTransparentThick blocks are alpha tested but keep shared faces (leaves).
	DrawTransparentThick
	// DrawTranslucent blocks are alpha blended (water) and drawn in the
	// translucent pass.
	DrawTranslucent
	DrawGas
	// DrawSprite blocks are drawn as crossed quads (flowers).
	DrawSprite
)

// Face identifies one side of a block or chunk. The order matches the layout
// of per-face vertex runs in chunk geometry.
type Face int

const (
	FaceXMin Face = iota
	FaceXMax
	FaceZMin
	FaceZMax
	FaceYMin
	FaceYMax
	FaceCount
)

// TextureLoc is a tile index into the 2D terrain atlas (row*16 + column).
type TextureLoc uint16

// Definition describes how a single block id looks.
type Definition struct {
	Name       string
	Draw       DrawType
	Textures   [FaceCount]TextureLoc
	FullBright bool
}

// Registry holds the definitions for all block ids.
type Registry struct {
	defs [MaxBlocks]Definition
	bus  *event.Bus
}

// NewRegistry returns a registry where every id is air. When bus is non nil,
// definition changes raise BlockDefChanged.
func NewRegistry(bus *event.Bus) *Registry {
	r := &Registry{bus: bus}
	for i := range r.defs {
		r.defs[i] = Definition{Name: "Air", Draw: DrawGas}
	}
	return r
}

// DefaultRegistry returns a registry populated with the classic block set.
func DefaultRegistry(bus *event.Bus) *Registry {
	r := NewRegistry(bus)
	set := func(id BlockID, name string, draw DrawType, top, side, bottom TextureLoc) {
		def := Definition{Name: name, Draw: draw}
		def.Textures = [FaceCount]TextureLoc{side, side, side, side, bottom, top}
		r.defs[id] = def
	}
	set(BlockStone, "Stone", DrawOpaque, 1, 1, 1)
	set(BlockGrass, "Grass", DrawOpaque, 0, 3, 2)
	set(BlockDirt, "Dirt", DrawOpaque, 2, 2, 2)
	set(BlockCobble, "Cobblestone", DrawOpaque, 16, 16, 16)
	set(BlockWood, "Wood", DrawOpaque, 4, 4, 4)
	set(BlockSapling, "Sapling", DrawSprite, 15, 15, 15)
	set(BlockBedrock, "Bedrock", DrawOpaque, 17, 17, 17)
	set(BlockWater, "Water", DrawTranslucent, 14, 14, 14)
	set(BlockStillWater, "Still water", DrawTranslucent, 14, 14, 14)
	set(BlockSand, "Sand", DrawOpaque, 18, 18, 18)
	set(BlockGravel, "Gravel", DrawOpaque, 19, 19, 19)
	set(BlockLog, "Log", DrawOpaque, 21, 20, 21)
	set(BlockLeaves, "Leaves", DrawTransparentThick, 22, 22, 22)
	set(BlockGlass, "Glass", DrawTransparent, 49, 49, 49)
	set(BlockDandelion, "Dandelion", DrawSprite, 13, 13, 13)
	set(BlockRose, "Rose", DrawSprite, 12, 12, 12)
	return r
}

// Get returns the definition of a block.
func (r *Registry) Get(id BlockID) Definition {
	return r.defs[uint8(id)]
}

// Draw returns the draw type of a block.
func (r *Registry) Draw(id BlockID) DrawType {
	return r.defs[uint8(id)].Draw
}

// Texture returns the atlas tile used by a face of a block.
func (r *Registry) Texture(id BlockID, face Face) TextureLoc {
	return r.defs[uint8(id)].Textures[face]
}

// Define replaces the definition of a block and raises BlockDefChanged.
func (r *Registry) Define(id BlockID, def Definition) {
	r.defs[uint8(id)] = def
	r.changed()
}

// SetTexture changes the texture of one face of a block and raises BlockDefChanged.
func (r *Registry) SetTexture(id BlockID, face Face, loc TextureLoc) {
	r.defs[uint8(id)].Textures[face] = loc
	r.changed()
}

// SetDraw changes the draw type of a block and raises BlockDefChanged.
func (r *Registry) SetDraw(id BlockID, draw DrawType) {
	r.defs[uint8(id)].Draw = draw
	r.changed()
}

// MaxTextureLoc returns the highest tile index referenced by any block.
func (r *Registry) MaxTextureLoc() TextureLoc {
	var max TextureLoc
	for i := range r.defs {
		for _, loc := range r.defs[i].Textures {
			if loc > max {
				max = loc
			}
		}
	}
	return max
}

func (r *Registry) changed() {
	if r.bus != nil {
		r.bus.BlockDefChanged.Raise()
	}
}

// Hides reports whether a face of block is hidden by the neighbouring block
// it touches.
func (r *Registry) Hides(block, neighbour BlockID) bool {
	bd, nd := r.Draw(block), r.Draw(neighbour)
	switch nd {
	case DrawOpaque:
		return bd != DrawSprite
	case DrawTransparent, DrawTranslucent:
		return block == neighbour
	}
	return false
}
