// Package chunks renders the world grid as 16x16x16 chunks: it keeps the
// chunks sorted by distance to the camera, builds and evicts their geometry
// under a per-frame budget, culls them against the view frustum and draws
// them in an opaque and a translucent pass.
package chunks

import (
	"io"
	"log"
	"math"

	"chunkview/internal/config"
	"chunkview/internal/event"
	"chunkview/internal/graphics"
	"chunkview/internal/graphics/gfx"
	"chunkview/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// World is the read-only block lookup the renderer and builder consume.
type World interface {
	Dimensions() (width, height, length int)
	SafeGetBlock(x, y, z int) world.BlockID
	ContainsXZ(x, z int) bool
}

// Camera exposes the pose and view frustum of the current camera.
type Camera interface {
	CurrentPos() mgl32.Vec3
	CurrentYaw() float32
	CurrentPitch() float32
	Frustum() graphics.Frustum
}

// Atlas is the 1D terrain atlas as seen by the renderer.
type Atlas interface {
	UsedAtlases(maxLoc world.TextureLoc) int
	TilesPerBatch() int
	Texture(batch int) gfx.Texture
}

// Builder turns the blocks of one chunk into geometry. MakeChunk writes the
// chunk's rows in parts, sets NormalParts/TranslucentParts for the kinds it
// produced and uploads the vertex buffer into info.Vb. It leaves both part
// references nil when the chunk produced no geometry.
type Builder interface {
	OnNewMapLoaded(w World)
	MakeChunk(info *ChunkInfo, parts *PartStorage)
	// SetLevels updates the edge (water) and sides (bedrock) heights used
	// for border geometry. EdgeLevel returns the current edge level.
	SetLevels(edge, sides int)
	EdgeLevel() int
}

// WeatherRenderer draws rain or snow around the camera.
type WeatherRenderer interface {
	Render(delta float64)
}

type Options struct {
	Device   gfx.Device
	Builder  Builder
	Bus      *event.Bus
	World    World
	Env      *world.Env
	Registry *world.Registry
	Atlas    Atlas
	Camera   Camera
	// Weather may be nil.
	Weather WeatherRenderer
	// Logger defaults to log.Default().
	Logger *log.Logger
	// MaxUpdates defaults to config.GetMaxChunkUpdates().
	MaxUpdates int
}

// Stats is a snapshot of the renderer's counters.
type Stats struct {
	ChunksCount  int
	RenderCount  int
	Target       int
	FrameUpdates int
	TotalUpdates int
	Vertices     int
	UsedBatches  int
}

// sortEntry pairs a chunk with its squared distance to the camera chunk.
type sortEntry struct {
	info *ChunkInfo
	dist int
}

// ChunkRenderer owns every chunk of the current world. It is driven from the
// main loop only: Update, then RenderOpaque and RenderTranslucent.
type ChunkRenderer struct {
	dev      gfx.Device
	builder  Builder
	bus      *event.Bus
	world    World
	env      *world.Env
	registry *world.Registry
	atlas    Atlas
	camera   Camera
	weather  WeatherRenderer
	logger   *log.Logger

	ChunksX, ChunksY, ChunksZ int
	ChunksCount               int
	UsedBatches               int
	MaxUpdates                int

	mapChunks []ChunkInfo
	sorted    []sortEntry
	render    []*ChunkInfo
	parts     PartStorage

	// Non-empty parts per atlas batch across the whole world.
	normPartsCount, tranPartsCount []int
	// Whether any visible chunk had parts in a batch during the last pass.
	hasNormParts, hasTranParts []bool
	// Whether a batch must be probed again even though hasXParts is false.
	checkNormParts, checkTranParts []bool

	inTranslucent bool
	chunkPos      [3]int
	tilesPerAtlas int

	chunksTarget int
	lastCamPos   mgl32.Vec3
	lastYaw      float32
	lastPitch    float32
	renderDistSq int
	buildDistSq  int
	frustum      graphics.Frustum

	frameUpdates int
	totalUpdates int
	vertices     int

	unregister []func()
}

// New returns a renderer with no world loaded. Call Init before use.
func New(opts Options) *ChunkRenderer {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	r := &ChunkRenderer{
		dev:          opts.Device,
		builder:      opts.Builder,
		bus:          opts.Bus,
		world:        opts.World,
		env:          opts.Env,
		registry:     opts.Registry,
		atlas:        opts.Atlas,
		camera:       opts.Camera,
		weather:      opts.Weather,
		logger:       logger,
		MaxUpdates:   opts.MaxUpdates,
		chunksTarget: initialTarget,
	}
	r.resetChunkPos()
	return r
}

// DiscardLogger is a convenience for tests and tools that want silence.
func DiscardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// SetWorld replaces the world the next OnNewMapLoaded allocates for.
func (r *ChunkRenderer) SetWorld(w World) {
	r.world = w
}

func (r *ChunkRenderer) resetChunkPos() {
	r.chunkPos = [3]int{math.MaxInt32, math.MaxInt32, math.MaxInt32}
}

func (r *ChunkRenderer) forceMoved() {
	big := float32(math.MaxFloat32)
	r.lastCamPos = mgl32.Vec3{big, big, big}
}

// Init registers the event handlers and reads the view distances.
func (r *ChunkRenderer) Init() {
	if r.MaxUpdates <= 0 {
		r.MaxUpdates = config.GetMaxChunkUpdates()
	}
	if r.MaxUpdates < minTarget {
		r.MaxUpdates = minTarget
	}
	r.UsedBatches = r.usedAtlases()
	if r.atlas != nil {
		r.tilesPerAtlas = r.atlas.TilesPerBatch()
	}
	r.resizeBatchFlags()
	r.resetChunkPos()
	if r.env != nil && r.builder != nil {
		r.builder.SetLevels(max(0, r.env.EdgeHeight), max(0, r.env.SidesHeight()))
	}
	r.calcViewDists()
	r.registerEvents()
}

// Shutdown unregisters every handler and frees all chunks.
func (r *ChunkRenderer) Shutdown() {
	r.unregisterEvents()
	r.OnNewMap()
}

// Stats returns the current counters.
func (r *ChunkRenderer) Stats() Stats {
	return Stats{
		ChunksCount:  r.ChunksCount,
		RenderCount:  len(r.render),
		Target:       r.chunksTarget,
		FrameUpdates: r.frameUpdates,
		TotalUpdates: r.totalUpdates,
		Vertices:     r.vertices,
		UsedBatches:  r.UsedBatches,
	}
}

// ResetVertices zeroes the vertex counter; call once per frame before drawing.
func (r *ChunkRenderer) ResetVertices() {
	r.vertices = 0
}

// RenderChunks returns the chunks drawn this frame, nearest first. The slice
// is only valid until the next Update.
func (r *ChunkRenderer) RenderChunks() []*ChunkInfo {
	return r.render
}

// Parts exposes the part storage; it is what the builder writes into.
func (r *ChunkRenderer) Parts() *PartStorage {
	return &r.parts
}

func (r *ChunkRenderer) usedAtlases() int {
	if r.atlas == nil || r.registry == nil {
		return 1
	}
	return r.atlas.UsedAtlases(r.registry.MaxTextureLoc())
}

func (r *ChunkRenderer) resizeBatchFlags() {
	n := r.UsedBatches
	if len(r.normPartsCount) == n {
		return
	}
	r.normPartsCount = make([]int, n)
	r.tranPartsCount = make([]int, n)
	r.hasNormParts = make([]bool, n)
	r.hasTranParts = make([]bool, n)
	r.checkNormParts = make([]bool, n)
	r.checkTranParts = make([]bool, n)
	r.resetPartFlags()
}

func (r *ChunkRenderer) resetPartFlags() {
	for i := range r.hasNormParts {
		r.checkNormParts[i] = true
		r.hasNormParts[i] = false
		r.checkTranParts[i] = true
		r.hasTranParts[i] = false
	}
}

func (r *ChunkRenderer) resetPartCounts() {
	for i := range r.normPartsCount {
		r.normPartsCount[i] = 0
		r.tranPartsCount[i] = 0
	}
}
