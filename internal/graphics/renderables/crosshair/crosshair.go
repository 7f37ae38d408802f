package crosshair

import (
	"image/color"

	"chunkview/internal/graphics/gfx"
	renderer "chunkview/internal/graphics/renderer"
	"chunkview/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// halfLength and halfWidth of each bar, in units of half the screen height.
	halfLength = 0.03
	halfWidth  = 0.003
)

var barColor = color.RGBA{0xFF, 0xFF, 0xFF, 0xC0}

// Crosshair draws a plus sign in the middle of the screen, marking the
// block picked for editing.
type Crosshair struct {
	dev    gfx.Device
	vb     gfx.VertexBuffer
	aspect float32
}

// NewCrosshair creates a new crosshair renderable
func NewCrosshair(dev gfx.Device) *Crosshair {
	return &Crosshair{dev: dev, aspect: 1}
}

// Vertices returns the two bars as quads centred on the origin.
func Vertices() []gfx.Vertex {
	col := gfx.PackCol(barColor)
	quad := func(hx, hy float32) []gfx.Vertex {
		return []gfx.Vertex{
			{X: -hx, Y: -hy, Col: col},
			{X: hx, Y: -hy, Col: col},
			{X: hx, Y: hy, Col: col},
			{X: -hx, Y: hy, Col: col},
		}
	}
	return append(quad(halfLength, halfWidth), quad(halfWidth, halfLength)...)
}

// Init uploads the crosshair geometry
func (c *Crosshair) Init() error {
	c.vb = c.dev.CreateVb(Vertices())
	return nil
}

// Render draws the crosshair over the frame. It replaces the camera matrices,
// so it must be the last renderable.
func (c *Crosshair) Render(ctx renderer.RenderContext) {
	defer profiling.Track("renderer.renderCrosshair")()

	prev := c.dev.State()
	c.dev.SetDepthTest(false)
	c.dev.SetTexturing(false)
	c.dev.SetAlphaBlending(true)
	c.dev.SetFaceCulling(false)

	c.dev.SetMatrices(mgl32.Ident4(), Projection(c.aspect))
	c.dev.BindVb(c.vb)
	c.dev.DrawIndexedTris(8, 0)

	c.dev.SetMatrices(ctx.View, ctx.Proj)
	gfx.Restore(c.dev, prev)
}

// Projection keeps the bars square on non square viewports.
func Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Ortho(-aspect, aspect, -1, 1, -1, 1)
}

func (c *Crosshair) SetViewport(width, height int) {
	if height <= 0 {
		return
	}
	c.aspect = float32(width) / float32(height)
}

// Dispose frees the vertex buffer
func (c *Crosshair) Dispose() {
	c.dev.DeleteVb(&c.vb)
}
