// Package weather draws falling rain or snow in the columns around the
// camera, stopping at the highest block of each column.
package weather

import (
	"image"
	"image/color"
	"math"

	"chunkview/internal/event"
	"chunkview/internal/graphics/gfx"
	"chunkview/internal/profiling"
	"chunkview/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// radius is the number of columns drawn on each side of the camera.
	radius = 4
	// Columns extend this far below and above the camera.
	extentBelow = 4
	extentAbove = 6

	rainSpeed = 1.0
	snowSpeed = 0.2

	unknownHeight = -1
)

// World is the block lookup used to find where precipitation stops.
type World interface {
	Dimensions() (width, height, length int)
	SafeGetBlock(x, y, z int) world.BlockID
	ContainsXZ(x, z int) bool
}

// Camera gives the position precipitation is drawn around.
type Camera interface {
	CurrentPos() mgl32.Vec3
}

// Renderer implements chunks.WeatherRenderer.
type Renderer struct {
	dev    gfx.Device
	env    *world.Env
	reg    *world.Registry
	camera Camera
	bus    *event.Bus
	world  World

	width, length int
	// heights caches the y above the highest blocking block per column.
	heights []int16

	rain, snow gfx.Texture
	vb         gfx.VertexBuffer
	verts      []gfx.Vertex
	elapsed    float64

	unregister []func()
}

func New(dev gfx.Device, bus *event.Bus, env *world.Env, reg *world.Registry, camera Camera) *Renderer {
	return &Renderer{dev: dev, bus: bus, env: env, reg: reg, camera: camera}
}

// Init creates the precipitation textures and hooks the map events.
func (r *Renderer) Init() error {
	r.rain = r.dev.CreateTexture(rainTexture(), false)
	r.snow = r.dev.CreateTexture(snowTexture(), false)
	if r.bus == nil {
		return nil
	}
	id := r.bus.BlockChanged.Register(r.onBlockChanged)
	r.unregister = append(r.unregister, func() { r.bus.BlockChanged.Unregister(id) })
	mapID := r.bus.NewMapLoaded.Register(r.onNewMapLoaded)
	r.unregister = append(r.unregister, func() { r.bus.NewMapLoaded.Unregister(mapID) })
	return nil
}

// Dispose frees the GPU resources and unregisters the handlers.
func (r *Renderer) Dispose() {
	for _, fn := range r.unregister {
		fn()
	}
	r.unregister = nil
	r.dev.DeleteTexture(&r.rain)
	r.dev.DeleteTexture(&r.snow)
	r.dev.DeleteVb(&r.vb)
}

// SetWorld replaces the world used after the next NewMapLoaded.
func (r *Renderer) SetWorld(w World) {
	r.world = w
}

func (r *Renderer) onNewMapLoaded() {
	r.heights = nil
	r.elapsed = 0
	if r.world == nil {
		return
	}
	r.width, _, r.length = r.world.Dimensions()
	r.heights = make([]int16, r.width*r.length)
	for i := range r.heights {
		r.heights[i] = unknownHeight
	}
}

func (r *Renderer) onBlockChanged(x, y, z int) {
	if r.heights == nil || x < 0 || z < 0 || x >= r.width || z >= r.length {
		return
	}
	r.heights[x+z*r.width] = unknownHeight
}

// Height returns the lowest y precipitation reaches in a column. Columns
// outside the map stop at the edge level.
func (r *Renderer) Height(x, z int) int {
	if r.world == nil || r.heights == nil || !r.world.ContainsXZ(x, z) {
		return r.env.EdgeHeight
	}
	i := x + z*r.width
	if h := r.heights[i]; h != unknownHeight {
		return int(h)
	}
	h := r.columnHeight(x, z)
	r.heights[i] = int16(h)
	return h
}

func (r *Renderer) columnHeight(x, z int) int {
	_, height, _ := r.world.Dimensions()
	for y := height - 1; y >= 0; y-- {
		switch r.reg.Draw(r.world.SafeGetBlock(x, y, z)) {
		case world.DrawGas, world.DrawSprite:
			continue
		}
		return y + 1
	}
	return 0
}

// Render draws the columns around the camera. The caller sets blending or
// alpha testing; Render leaves every other toggle as it found it.
func (r *Renderer) Render(delta float64) {
	if r.env == nil || r.env.Weather == world.WeatherSunny {
		return
	}
	defer profiling.Track("weather.Render")()
	r.elapsed += delta

	tex, speed := r.rain, rainSpeed
	if r.env.Weather == world.WeatherSnowy {
		tex, speed = r.snow, snowSpeed
	}
	r.buildColumns(float32(math.Mod(r.elapsed*speed, 1)))
	if len(r.verts) == 0 {
		return
	}

	if r.vb == 0 {
		r.vb = r.dev.CreateVb(r.verts)
	} else {
		r.dev.UpdateVb(r.vb, r.verts)
	}

	prev := r.dev.State()
	r.dev.SetTexturing(true)
	r.dev.SetDepthWrite(false)
	r.dev.SetFaceCulling(false)
	r.dev.BindTexture(tex)
	r.dev.BindVb(r.vb)
	r.dev.DrawIndexedTris(len(r.verts), 0)
	profiling.Add("weather.vertices", len(r.verts))
	gfx.Restore(r.dev, prev)
}

// Vertices returns the vertices built by the last Render.
func (r *Renderer) Vertices() []gfx.Vertex {
	return r.verts
}

func (r *Renderer) buildColumns(scroll float32) {
	r.verts = r.verts[:0]
	p := r.camera.CurrentPos()
	camX := int(math.Floor(float64(p.X())))
	camY := int(math.Floor(float64(p.Y())))
	camZ := int(math.Floor(float64(p.Z())))

	for dz := -radius; dz <= radius; dz++ {
		for dx := -radius; dx <= radius; dx++ {
			x, z := camX+dx, camZ+dz
			y0 := max(r.Height(x, z), camY-extentBelow)
			y1 := camY + extentAbove
			if y0 >= y1 {
				continue
			}
			dist := math.Sqrt(float64(dx*dx + dz*dz))
			alpha := 1 - dist/(radius+1)
			if alpha <= 0 {
				continue
			}
			col := gfx.PackCol(color.RGBA{0xFF, 0xFF, 0xFF, uint8(alpha * 0xFF)})
			r.appendColumn(float32(x), float32(y0), float32(z), float32(y1), scroll, col)
		}
	}
}

// appendColumn emits two crossed quads through the column's cell. V runs
// one texture repeat per four blocks and scrolls downwards over time.
func (r *Renderer) appendColumn(x, y0, z, y1, scroll float32, col uint32) {
	v0 := y0/4 + scroll
	v1 := y1/4 + scroll
	r.verts = append(r.verts,
		gfx.Vertex{X: x, Y: y0, Z: z, U: 0, V: v0, Col: col},
		gfx.Vertex{X: x + 1, Y: y0, Z: z + 1, U: 1, V: v0, Col: col},
		gfx.Vertex{X: x + 1, Y: y1, Z: z + 1, U: 1, V: v1, Col: col},
		gfx.Vertex{X: x, Y: y1, Z: z, U: 0, V: v1, Col: col},

		gfx.Vertex{X: x + 1, Y: y0, Z: z, U: 0, V: v0, Col: col},
		gfx.Vertex{X: x, Y: y0, Z: z + 1, U: 1, V: v0, Col: col},
		gfx.Vertex{X: x, Y: y1, Z: z + 1, U: 1, V: v1, Col: col},
		gfx.Vertex{X: x + 1, Y: y1, Z: z, U: 0, V: v1, Col: col},
	)
}

// rainTexture draws thin vertical streaks on a transparent background.
func rainTexture() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 16, 64))
	streak := color.RGBA{0x60, 0x70, 0xA0, 0xA0}
	for i, x := range []int{1, 5, 8, 12, 14} {
		top := (i * 23) % 64
		for y := 0; y < 10; y++ {
			img.SetRGBA(x, (top+y)%64, streak)
		}
	}
	return img
}

// snowTexture scatters 2x2 flakes.
func snowTexture() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 16, 64))
	flake := color.RGBA{0xF0, 0xF0, 0xF0, 0xF0}
	for i := 0; i < 24; i++ {
		x, y := (i*7)%15, (i*29)%63
		img.SetRGBA(x, y, flake)
		img.SetRGBA(x+1, y, flake)
		img.SetRGBA(x, y+1, flake)
		img.SetRGBA(x+1, y+1, flake)
	}
	return img
}
