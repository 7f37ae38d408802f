package meshing

import (
	"image/color"
	"log"

	"chunkview/internal/graphics/gfx"
	"chunkview/internal/graphics/renderables/chunks"
	"chunkview/internal/profiling"
	"chunkview/internal/world"
)

// Atlas maps texture tiles to 1D atlas batches.
type Atlas interface {
	Index(loc world.TextureLoc) int
	TexCoords(loc world.TextureLoc) (v1, v2 float32)
}

// Face brightness relative to the sun colour.
var faceShade = [world.FaceCount]float32{
	world.FaceXMin: 0.6,
	world.FaceXMax: 0.6,
	world.FaceZMin: 0.8,
	world.FaceZMax: 0.8,
	world.FaceYMin: 0.5,
	world.FaceYMax: 1.0,
}

// partBuf collects the vertices of one chunk part while building.
type partBuf struct {
	sprites [4][]gfx.Vertex
	faces   [world.FaceCount][]gfx.Vertex
}

func (p *partBuf) reset() {
	for i := range p.sprites {
		p.sprites[i] = p.sprites[i][:0]
	}
	for i := range p.faces {
		p.faces[i] = p.faces[i][:0]
	}
}

func (p *partBuf) empty() bool {
	if len(p.sprites[0]) > 0 {
		return false
	}
	for _, f := range p.faces {
		if len(f) > 0 {
			return false
		}
	}
	return true
}

// Builder meshes one chunk at a time into face runs, emitting every face
// not hidden by its neighbour. It implements chunks.Builder.
type Builder struct {
	dev   gfx.Device
	reg   *world.Registry
	atlas Atlas
	env   *world.Env
	world chunks.World

	width, height, length int
	edgeLevel, sidesLevel int

	bufs  [2][]partBuf
	verts []gfx.Vertex
}

func NewBuilder(dev gfx.Device, reg *world.Registry, atlas Atlas, env *world.Env) *Builder {
	return &Builder{dev: dev, reg: reg, atlas: atlas, env: env}
}

func (b *Builder) OnNewMapLoaded(w chunks.World) {
	b.world = w
	b.width, b.height, b.length = w.Dimensions()
}

func (b *Builder) SetLevels(edge, sides int) {
	b.edgeLevel, b.sidesLevel = edge, sides
}

func (b *Builder) EdgeLevel() int { return b.edgeLevel }

// SidesLevel returns the height of the bedrock walls around the map.
func (b *Builder) SidesLevel() int { return b.sidesLevel }

func (b *Builder) prepare(batches int) {
	for kind := range b.bufs {
		if len(b.bufs[kind]) < batches {
			b.bufs[kind] = append(b.bufs[kind], make([]partBuf, batches-len(b.bufs[kind]))...)
		}
		for i := range b.bufs[kind] {
			b.bufs[kind][i].reset()
		}
	}
	b.verts = b.verts[:0]
}

// MakeChunk builds the geometry of info. It writes the rows of parts for
// the kinds that produced geometry and uploads one vertex buffer holding
// every part.
func (b *Builder) MakeChunk(info *chunks.ChunkInfo, parts *chunks.PartStorage) {
	defer profiling.Track("meshing.MakeChunk")()
	if b.world == nil {
		return
	}
	batches := parts.Batches()
	b.prepare(batches)

	x0, y0, z0 := info.Origin()
	x1 := min(x0+chunks.ChunkSize, b.width)
	y1 := min(y0+chunks.ChunkSize, b.height)
	z1 := min(z0+chunks.ChunkSize, b.length)

	allAir := true
	for y := y0; y < y1; y++ {
		for z := z0; z < z1; z++ {
			for x := x0; x < x1; x++ {
				block := b.world.SafeGetBlock(x, y, z)
				draw := b.reg.Draw(block)
				if draw == world.DrawGas {
					continue
				}
				allAir = false
				if draw == world.DrawSprite {
					b.addSprite(block, x, y, z, batches)
				} else {
					b.addBlock(block, draw, x, y, z, batches)
				}
			}
		}
	}
	info.AllAir = allAir

	info.NormalParts = b.writeRows(info, parts, chunks.Normal)
	info.TranslucentParts = b.writeRows(info, parts, chunks.Translucent)
	if len(b.verts) > 0 {
		info.Vb = b.dev.CreateVb(b.verts)
	}
}

// writeRows appends the buffered parts of one kind to the vertex list and
// records their layout. It returns nil when the kind produced nothing.
func (b *Builder) writeRows(info *chunks.ChunkInfo, parts *chunks.PartStorage, kind chunks.PartKind) *chunks.PartRow {
	bufs := b.bufs[kind][:parts.Batches()]
	used := false
	for i := range bufs {
		if !bufs[i].empty() {
			used = true
			break
		}
	}
	if !used {
		return nil
	}

	row := parts.Row(kind, info.Index)
	row.Clear()
	for batch := range bufs {
		buf := &bufs[batch]
		if buf.empty() {
			continue
		}
		part := row.At(batch)
		part.Offset = int32(len(b.verts))
		for _, run := range buf.sprites {
			b.verts = append(b.verts, run...)
			part.SpriteCount += int32(len(run))
		}
		for f, run := range buf.faces {
			b.verts = append(b.verts, run...)
			part.Counts[f] = int32(len(run))
		}
	}
	return row
}

func kindOf(draw world.DrawType) chunks.PartKind {
	if draw == world.DrawTranslucent {
		return chunks.Translucent
	}
	return chunks.Normal
}

// neighbourHides reports whether the face of block touching (nx, ny, nz) is
// hidden. Outside the map the bedrock sides hide everything below the sides
// level, and the edge water hides translucent faces below the edge level.
func (b *Builder) neighbourHides(block world.BlockID, draw world.DrawType, nx, ny, nz int) bool {
	if ny < 0 {
		return true
	}
	if ny >= b.height {
		return false
	}
	if nx < 0 || nz < 0 || nx >= b.width || nz >= b.length {
		if ny < b.sidesLevel {
			return true
		}
		return draw == world.DrawTranslucent && ny < b.edgeLevel
	}
	return b.reg.Hides(block, b.world.SafeGetBlock(nx, ny, nz))
}

var faceDirs = [world.FaceCount][3]int{
	world.FaceXMin: {-1, 0, 0},
	world.FaceXMax: {1, 0, 0},
	world.FaceZMin: {0, 0, -1},
	world.FaceZMax: {0, 0, 1},
	world.FaceYMin: {0, -1, 0},
	world.FaceYMax: {0, 1, 0},
}

func (b *Builder) blockColor(block world.BlockID, y int) color.RGBA {
	if b.env == nil {
		return world.DefaultSunCol
	}
	if b.reg.Get(block).FullBright || y >= b.edgeLevel {
		return b.env.SunCol
	}
	return b.env.ShadowCol
}

func (b *Builder) batchOf(loc world.TextureLoc, batches int) (int, bool) {
	batch := b.atlas.Index(loc)
	if batch >= batches {
		log.Printf("meshing: tile %d is in batch %d, only %d batches in use", loc, batch, batches)
		return 0, false
	}
	return batch, true
}

func (b *Builder) addBlock(block world.BlockID, draw world.DrawType, x, y, z, batches int) {
	kind := kindOf(draw)
	base := b.blockColor(block, y)
	for f := world.Face(0); f < world.FaceCount; f++ {
		d := faceDirs[f]
		if b.neighbourHides(block, draw, x+d[0], y+d[1], z+d[2]) {
			continue
		}
		loc := b.reg.Texture(block, f)
		batch, ok := b.batchOf(loc, batches)
		if !ok {
			continue
		}
		v1, v2 := b.atlas.TexCoords(loc)
		col := gfx.PackCol(gfx.ScaleCol(base, faceShade[f]))
		buf := &b.bufs[kind][batch]
		buf.faces[f] = appendFace(buf.faces[f], f, float32(x), float32(y), float32(z), v1, v2, col)
	}
}

// faceCorners lists the corners of each face as offsets into the unit cube,
// counter-clockwise when seen from outside: bottom left, bottom right, top
// right, top left.
var faceCorners = [world.FaceCount][4][3]float32{
	world.FaceXMin: {{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}},
	world.FaceXMax: {{1, 0, 1}, {1, 0, 0}, {1, 1, 0}, {1, 1, 1}},
	world.FaceZMin: {{1, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 1, 0}},
	world.FaceZMax: {{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}},
	world.FaceYMin: {{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
	world.FaceYMax: {{0, 1, 1}, {1, 1, 1}, {1, 1, 0}, {0, 1, 0}},
}

func appendFace(dst []gfx.Vertex, f world.Face, x, y, z, v1, v2 float32, col uint32) []gfx.Vertex {
	c := &faceCorners[f]
	uv := [4][2]float32{{0, v2}, {1, v2}, {1, v1}, {0, v1}}
	for i := range c {
		dst = append(dst, gfx.Vertex{
			X: x + c[i][0], Y: y + c[i][1], Z: z + c[i][2],
			U: uv[i][0], V: uv[i][1],
			Col: col,
		})
	}
	return dst
}

// spriteNormals are the facing directions (x, z) of the four sprite quads,
// in quadrant run order: XMax|ZMin, XMin|ZMax, XMin|ZMin, XMax|ZMax.
var spriteNormals = [4][2]float32{{1, -1}, {-1, 1}, {-1, -1}, {1, 1}}

// addSprite emits two crossed diagonal planes as four single sided quads,
// one per quadrant run.
func (b *Builder) addSprite(block world.BlockID, x, y, z, batches int) {
	loc := b.reg.Texture(block, world.FaceXMax)
	batch, ok := b.batchOf(loc, batches)
	if !ok {
		return
	}
	v1, v2 := b.atlas.TexCoords(loc)
	col := gfx.PackCol(b.blockColor(block, y))
	buf := &b.bufs[chunks.Normal][batch]

	cx, cz := float32(x)+0.5, float32(z)+0.5
	y0, y1 := float32(y), float32(y)+1
	for i, n := range spriteNormals {
		// right = up x normal, half a block along each axis
		rx, rz := n[1]*0.5, -n[0]*0.5
		buf.sprites[i] = append(buf.sprites[i],
			gfx.Vertex{X: cx - rx, Y: y0, Z: cz - rz, U: 0, V: v2, Col: col},
			gfx.Vertex{X: cx + rx, Y: y0, Z: cz + rz, U: 1, V: v2, Col: col},
			gfx.Vertex{X: cx + rx, Y: y1, Z: cz + rz, U: 1, V: v1, Col: col},
			gfx.Vertex{X: cx - rx, Y: y1, Z: cz - rz, U: 0, V: v1, Col: col},
		)
	}
}
