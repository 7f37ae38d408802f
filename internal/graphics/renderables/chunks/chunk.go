package chunks

import (
	"chunkview/internal/graphics/gfx"
	"chunkview/internal/world"
)

const (
	ChunkSize     = 16
	HalfChunkSize = ChunkSize / 2
	chunkMask     = ChunkSize - 1
	chunkShift    = 4

	// chunkRadius bounds a chunk for the frustum test, ~sqrt(3 * 8^2).
	chunkRadius = 14
)

// ChunkPart describes the geometry of one chunk for one atlas batch inside
// the chunk's vertex buffer. A negative Offset means the batch is unused.
//
// Vertices are laid out as the sprite run (four equal quadrant runs) followed
// by one run per face in world.Face order.
type ChunkPart struct {
	Offset      int32
	SpriteCount int32
	Counts      [world.FaceCount]int32
}

// Empty reports whether the part holds no geometry.
func (p *ChunkPart) Empty() bool {
	return p.Offset < 0
}

// Vertices returns the total vertex count of the part.
func (p *ChunkPart) Vertices() int {
	n := int(p.SpriteCount)
	for _, c := range p.Counts {
		n += int(c)
	}
	return n
}

// ChunkInfo is the render state of one 16x16x16 section of the world.
type ChunkInfo struct {
	// Index is the packed grid index, see ChunkRenderer.Pack.
	Index int

	CentreX, CentreY, CentreZ int

	Visible       bool
	Empty         bool
	PendingDelete bool
	AllAir        bool

	DrawXMin, DrawXMax bool
	DrawZMin, DrawZMax bool
	DrawYMin, DrawYMax bool

	// Vb holds every part of the chunk. Owned exclusively by the chunk.
	Vb gfx.VertexBuffer

	NormalParts      *PartRow
	TranslucentParts *PartRow
}

func (c *ChunkInfo) reset(x, y, z int) {
	index := c.Index
	*c = ChunkInfo{
		Index:   index,
		CentreX: x + HalfChunkSize,
		CentreY: y + HalfChunkSize,
		CentreZ: z + HalfChunkSize,
		Visible: true,
	}
}

// Origin returns the minimum block coordinate covered by the chunk.
func (c *ChunkInfo) Origin() (x, y, z int) {
	return c.CentreX - HalfChunkSize, c.CentreY - HalfChunkSize, c.CentreZ - HalfChunkSize
}

// HasData reports whether the chunk currently owns built geometry.
func (c *ChunkInfo) HasData() bool {
	return c.NormalParts != nil || c.TranslucentParts != nil
}
